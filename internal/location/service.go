package location

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/events"
	"github.com/aidlink/aidlink/internal/metrics"
)

// ErrInvalidChannel is returned for a supply delta on an unknown channel.
var ErrInvalidChannel = errors.New("invalid supply channel")

// RegistryConfig holds the dependencies of a Registry.
type RegistryConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Publisher receives location.supply_changed events. Optional.
	Publisher events.Publisher

	// Metrics is optional.
	Metrics *metrics.Metrics

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Registry owns the set of aid-tracked locations. It is the only mutator of
// location state.
type Registry struct {
	repo      Repository
	logger    zerolog.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewRegistry creates a new location registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		repo:      cfg.Repository,
		logger:    cfg.Logger.With().Str("component", "location_registry").Logger(),
		publisher: publisher,
		metrics:   cfg.Metrics,
		now:       now,
	}
}

// Get retrieves a location by ID.
func (r *Registry) Get(ctx context.Context, id int64) (*Location, error) {
	return r.repo.Get(ctx, id)
}

// List returns all locations ordered by ID.
func (r *Registry) List(ctx context.Context) ([]*Location, error) {
	return r.repo.List(ctx)
}

// Add validates input and stores a new location with a fresh ID.
func (r *Registry) Add(ctx context.Context, input Input) (*Location, error) {
	if fieldErrors := validateInput(&input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	required := input.RequiredSupply
	if required == 0 {
		required = DefaultRequiredSupply
	}
	urgency := input.UrgencyLevel
	if urgency == "" {
		urgency = ClassifyUrgency(input.CurrentSupply, required)
	}

	loc := &Location{
		Name:                input.Name,
		Region:              input.Region,
		Coordinates:         input.Coordinates,
		TotalPopulation:     input.TotalPopulation,
		AffectedFamilies:    input.AffectedFamilies,
		CurrentSupply:       input.CurrentSupply,
		PromisedSupply:      input.PromisedSupply,
		RequiredSupply:      required,
		UrgencyLevel:        urgency,
		LastUpdated:         r.now(),
		ActiveOrganizations: append([]string(nil), input.ActiveOrganizations...),
		Infrastructure:      input.Infrastructure,
		Demographics:        input.Demographics,
		SpecificNeeds:       append([]string(nil), input.SpecificNeeds...),
	}

	if err := r.repo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	r.logger.Info().Int64("location_id", loc.ID).Str("name", loc.Name).Msg("location added")
	r.refreshUrgencyGauge(ctx)
	return loc, nil
}

// Remove deletes a location. Removing an unknown ID is a no-op.
func (r *Registry) Remove(ctx context.Context, id int64) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting location %d: %w", id, err)
	}
	r.logger.Info().Int64("location_id", id).Msg("location removed")
	r.refreshUrgencyGauge(ctx)
	return nil
}

// Update shallow-merges the non-nil fields of patch and re-stamps
// LastUpdated. Urgency is not recomputed; a caller that edits CurrentSupply
// here accepts a stale UrgencyLevel until the next performed delta or audit.
func (r *Registry) Update(ctx context.Context, id int64, patch Patch) (*Location, error) {
	if fieldErrors := validatePatch(&patch); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	loc, err := r.repo.Modify(ctx, id, func(l *Location) error {
		applyPatch(l, &patch)
		l.LastUpdated = r.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.refreshUrgencyGauge(ctx)
	return loc, nil
}

// ApplySupplyDelta adds days to the supply figure selected by channel,
// clamping at zero. A performed delta also re-derives UrgencyLevel. Returns
// ErrLocationNotFound for an unknown ID; callers that treat a miss as a no-op
// can ignore it.
func (r *Registry) ApplySupplyDelta(ctx context.Context, id int64, days float64, channel Channel) (*Location, error) {
	loc, announce, err := r.StageSupplyDelta(ctx, id, days, channel)
	if err != nil {
		return nil, err
	}
	announce(ctx)
	return loc, nil
}

// StageSupplyDelta is ApplySupplyDelta without the location.supply_changed
// publish. The delta is stored when it returns; announce publishes the event
// and must be called once the caller has dropped any locks it holds.
func (r *Registry) StageSupplyDelta(ctx context.Context, id int64, days float64, channel Channel) (loc *Location, announce func(context.Context), err error) {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return nil, nil, &ValidationError{Errors: []FieldError{{Field: "days", Message: "must be a finite number"}}}
	}
	if channel != ChannelPromised && channel != ChannelPerformed {
		return nil, nil, ErrInvalidChannel
	}

	var before float64
	loc, err = r.repo.Modify(ctx, id, func(l *Location) error {
		switch channel {
		case ChannelPromised:
			before = l.PromisedSupply
			l.PromisedSupply = math.Max(0, l.PromisedSupply+days)
		case ChannelPerformed:
			before = l.CurrentSupply
			l.CurrentSupply = math.Max(0, l.CurrentSupply+days)
			l.UrgencyLevel = ClassifyUrgency(l.CurrentSupply, l.RequiredSupply)
		}
		l.LastUpdated = r.now()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	after := SupplyLevel(loc, channelView(channel))
	r.logger.Debug().
		Int64("location_id", id).
		Str("channel", string(channel)).
		Float64("days", days).
		Float64("before", before).
		Float64("after", after).
		Str("urgency", string(loc.UrgencyLevel)).
		Msg("supply delta applied")

	r.metrics.ObserveSupplyDelta(string(channel), days)
	if channel == ChannelPerformed {
		r.refreshUrgencyGauge(ctx)
	}
	event := events.New(events.TypeLocationSupplyChanged, subject(id), map[string]any{
		"channel": string(channel),
		"days":    days,
		"before":  before,
		"after":   after,
		"urgency": string(loc.UrgencyLevel),
	})
	return loc, func(ctx context.Context) { r.publish(ctx, event) }, nil
}

// RepairUrgency rewrites the stored UrgencyLevel from the current supply
// ratio. It returns the previous level and whether it changed.
func (r *Registry) RepairUrgency(ctx context.Context, id int64) (UrgencyLevel, bool, error) {
	var previous UrgencyLevel
	var changed bool
	loc, err := r.repo.Modify(ctx, id, func(l *Location) error {
		previous = l.UrgencyLevel
		derived := ClassifyUrgency(l.CurrentSupply, l.RequiredSupply)
		if derived == previous {
			return errUnchanged
		}
		l.UrgencyLevel = derived
		l.LastUpdated = r.now()
		changed = true
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return previous, false, nil
	}
	if err != nil {
		return "", false, err
	}

	r.logger.Info().
		Int64("location_id", id).
		Str("from", string(previous)).
		Str("to", string(loc.UrgencyLevel)).
		Msg("urgency level repaired")
	r.refreshUrgencyGauge(ctx)
	r.publish(ctx, events.New(events.TypeLocationUrgencyRepaired, subject(id), map[string]any{
		"from": string(previous),
		"to":   string(loc.UrgencyLevel),
	}))
	return previous, changed, nil
}

var errUnchanged = errors.New("unchanged")

// SupplyLevel is the registry-bound form of the package function.
func (r *Registry) SupplyLevel(l *Location, view View) float64 { return SupplyLevel(l, view) }

// UrgencyColor is the registry-bound form of the package function.
func (r *Registry) UrgencyColor(l *Location, view View) string { return UrgencyColor(l, view) }

// SupplyDeficit is the registry-bound form of the package function.
func (r *Registry) SupplyDeficit(l *Location, view View) float64 { return SupplyDeficit(l, view) }

func (r *Registry) publish(ctx context.Context, event events.Event) {
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.metrics.IncrementPublishFailure(event.Type)
		r.logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to publish event")
	}
}

func (r *Registry) refreshUrgencyGauge(ctx context.Context) {
	if r.metrics == nil {
		return
	}
	locs, err := r.repo.List(ctx)
	if err != nil {
		return
	}
	counts := make(map[string]int)
	for _, l := range locs {
		counts[string(l.UrgencyLevel)]++
	}
	r.metrics.SetUrgencyCounts(counts)
}

func channelView(c Channel) View {
	if c == ChannelPromised {
		return ViewPromised
	}
	return ViewPerformed
}

func subject(id int64) string {
	return "location/" + strconv.FormatInt(id, 10)
}

func applyPatch(l *Location, p *Patch) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Region != nil {
		l.Region = *p.Region
	}
	if p.Coordinates != nil {
		l.Coordinates = *p.Coordinates
	}
	if p.TotalPopulation != nil {
		l.TotalPopulation = *p.TotalPopulation
	}
	if p.AffectedFamilies != nil {
		l.AffectedFamilies = *p.AffectedFamilies
	}
	if p.CurrentSupply != nil {
		l.CurrentSupply = *p.CurrentSupply
	}
	if p.PromisedSupply != nil {
		l.PromisedSupply = *p.PromisedSupply
	}
	if p.RequiredSupply != nil {
		l.RequiredSupply = *p.RequiredSupply
	}
	if p.UrgencyLevel != nil {
		l.UrgencyLevel = *p.UrgencyLevel
	}
	if p.ActiveOrganizations != nil {
		l.ActiveOrganizations = append([]string(nil), p.ActiveOrganizations...)
	}
	if p.Infrastructure != nil {
		l.Infrastructure = *p.Infrastructure
	}
	if p.Demographics != nil {
		l.Demographics = *p.Demographics
	}
	if p.SpecificNeeds != nil {
		l.SpecificNeeds = append([]string(nil), p.SpecificNeeds...)
	}
}
