package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/events"
	"github.com/aidlink/aidlink/internal/location"
	"github.com/aidlink/aidlink/internal/metrics"
)

// ErrInvalidStatus is returned when SetStatus targets a status that cannot
// be set explicitly.
var ErrInvalidStatus = errors.New("status must be approved, rejected or completed")

// SupplyLedger is the registry primitive the workflow pushes deltas into.
// The delta is stored when StageSupplyDelta returns; announce publishes its
// event and is called after the workflow lock is released.
type SupplyLedger interface {
	StageSupplyDelta(ctx context.Context, id int64, days float64, channel location.Channel) (*location.Location, func(context.Context), error)
}

// WorkflowConfig holds the dependencies of a Workflow.
type WorkflowConfig struct {
	Repository Repository
	Supply     SupplyLedger
	Logger     zerolog.Logger

	// Ledger records applied transitions. Defaults to an in-memory ledger.
	Ledger TransitionLedger

	// Policy defaults to RepeatReapply.
	Policy PolicySource

	Publisher events.Publisher
	Metrics   *metrics.Metrics

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Workflow owns application state and couples status changes to supply
// updates in the location registry.
type Workflow struct {
	repo      Repository
	supply    SupplyLedger
	ledger    TransitionLedger
	policy    PolicySource
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time

	// mu serializes status changes with their supply push.
	mu sync.Mutex
}

// NewWorkflow creates a new application workflow.
func NewWorkflow(cfg WorkflowConfig) *Workflow {
	w := &Workflow{
		repo:      cfg.Repository,
		supply:    cfg.Supply,
		ledger:    cfg.Ledger,
		policy:    cfg.Policy,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("component", "application_workflow").Logger(),
		now:       cfg.Now,
	}
	if w.ledger == nil {
		w.ledger = NewMemoryTransitionLedger()
	}
	if w.policy == nil {
		w.policy = StaticPolicy(RepeatReapply)
	}
	if w.publisher == nil {
		w.publisher = events.NopPublisher{}
	}
	if w.now == nil {
		w.now = time.Now
	}
	return w
}

// TransitionResult describes the outcome of SetStatus.
type TransitionResult struct {
	Application *Application

	// Location is the location after the supply push, if one happened.
	Location *location.Location

	// Channel is the supply channel the status maps to, if any.
	Channel location.Channel

	// EffectApplied is true when a supply delta was pushed.
	EffectApplied bool

	// EffectSkipped is true when the repeat policy suppressed the delta.
	EffectSkipped bool
}

// Get retrieves an application by ID.
func (w *Workflow) Get(ctx context.Context, id int64) (*Application, error) {
	return w.repo.Get(ctx, id)
}

// List returns applications matching filter, ordered by ID.
func (w *Workflow) List(ctx context.Context, filter Filter) ([]*Application, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &ValidationError{Errors: []FieldError{{Field: "status", Message: "unknown status"}}}
	}
	return w.repo.List(ctx, filter)
}

// Submit stores a new application. Status is forced to pending and priority
// to medium regardless of input.
func (w *Workflow) Submit(ctx context.Context, input Input) (*Application, error) {
	if fieldErrors := validateInput(&input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	app := &Application{
		Organization:  input.Organization,
		AidType:       input.AidType,
		Quantity:      input.Quantity,
		Description:   input.Description,
		SubmittedDate: today(w.now()),
		DeliveryDate:  input.DeliveryDate,
		Status:        StatusPending,
		Priority:      PriorityMedium,
		LocationID:    input.LocationID,
		AidDays:       input.AidDays,
	}
	// Detach from the caller's pointers.
	app = app.Clone()

	if err := w.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}

	w.logger.Info().
		Int64("application_id", app.ID).
		Str("organization", app.Organization).
		Msg("application submitted")
	w.publish(ctx, events.New(events.TypeApplicationSubmitted, subject(app.ID), map[string]any{
		"organization": app.Organization,
		"aid_type":     app.AidType,
	}))

	return app, nil
}

// SetStatus replaces the status of an application and, when it carries a
// location link, pushes its aid days into the registry: approved moves
// promised supply and completed moves current supply. Rejected moves
// nothing. The status write and the push happen under one lock; if the push
// fails the status is restored. Events are published after the lock is
// released.
func (w *Workflow) SetStatus(ctx context.Context, id int64, status Status) (*TransitionResult, error) {
	if !status.Settable() {
		return nil, ErrInvalidStatus
	}

	result, announce, err := w.transition(ctx, id, status)
	if err != nil {
		return nil, err
	}
	for _, fn := range announce {
		fn(ctx)
	}
	return result, nil
}

// transition does the locked part of SetStatus and returns the publishes
// it deferred.
func (w *Workflow) transition(ctx context.Context, id int64, status Status) (*TransitionResult, []func(context.Context), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	current, err := w.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	previous := current.Status

	result := &TransitionResult{}
	locationID, days, linked := current.supplyLink()
	channel, moves := channelFor(status)
	pushing := linked && moves

	// claimed is true only when this call created the ledger entry, so only
	// this call may release it.
	var claimed bool
	if pushing {
		result.Channel = channel
		first, claimErr := w.ledger.Claim(ctx, id, status)
		policy := w.policy.RepeatPolicy(ctx)
		switch {
		case claimErr != nil && policy == RepeatSkip:
			return nil, nil, fmt.Errorf("checking transition ledger: %w", claimErr)
		case claimErr != nil:
			w.logger.Warn().Err(claimErr).Int64("application_id", id).Msg("transition ledger unavailable")
		case !first && policy == RepeatSkip:
			pushing = false
			result.EffectSkipped = true
		default:
			claimed = first
		}
	}

	app, err := w.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if claimed {
			w.release(ctx, id, status)
		}
		return nil, nil, err
	}
	result.Application = app

	var announce []func(context.Context)
	if pushing {
		loc, announceSupply, err := w.supply.StageSupplyDelta(ctx, locationID, days, channel)
		switch {
		case errors.Is(err, location.ErrLocationNotFound):
			// The linked location is gone; the status change stands on its own.
			w.logger.Warn().Int64("application_id", id).Int64("location_id", locationID).Msg("linked location not found")
			if claimed {
				w.release(ctx, id, status)
			}
		case err != nil:
			if claimed {
				w.release(ctx, id, status)
			}
			if _, revertErr := w.repo.UpdateStatus(ctx, id, previous); revertErr != nil {
				w.logger.Error().Err(revertErr).Int64("application_id", id).Msg("failed to restore status")
			}
			return nil, nil, fmt.Errorf("applying supply delta: %w", err)
		default:
			result.Location = loc
			result.EffectApplied = true
			announce = append(announce, announceSupply)
		}
	}

	if result.EffectSkipped {
		w.metrics.IncrementSkippedEffect()
	}
	w.metrics.IncrementTransition(string(status))

	w.logger.Info().
		Int64("application_id", id).
		Str("from", string(previous)).
		Str("to", string(status)).
		Bool("effect_applied", result.EffectApplied).
		Bool("effect_skipped", result.EffectSkipped).
		Msg("application status changed")

	data := map[string]any{
		"from":           string(previous),
		"to":             string(status),
		"effect_applied": result.EffectApplied,
		"effect_skipped": result.EffectSkipped,
	}
	if linked {
		data["location_id"] = locationID
		data["aid_days"] = days
	}
	changed := events.New(events.TypeApplicationStatusChanged, subject(id), data)
	announce = append(announce, func(ctx context.Context) { w.publish(ctx, changed) })

	return result, announce, nil
}

// Remove deletes an application. Supply deltas it already pushed are kept.
// Removing an unknown ID is a no-op.
func (w *Workflow) Remove(ctx context.Context, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting application %d: %w", id, err)
	}
	w.logger.Info().Int64("application_id", id).Msg("application removed")
	return nil
}

func (w *Workflow) release(ctx context.Context, id int64, status Status) {
	if err := w.ledger.Release(ctx, id, status); err != nil {
		w.logger.Warn().Err(err).Int64("application_id", id).Msg("failed to release transition")
	}
}

func (w *Workflow) publish(ctx context.Context, event events.Event) {
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.metrics.IncrementPublishFailure(event.Type)
		w.logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to publish event")
	}
}

func channelFor(status Status) (location.Channel, bool) {
	switch status {
	case StatusApproved:
		return location.ChannelPromised, true
	case StatusCompleted:
		return location.ChannelPerformed, true
	}
	return "", false
}

func subject(id int64) string {
	return "application/" + strconv.FormatInt(id, 10)
}

func validateInput(in *Input) []FieldError {
	var errs []FieldError

	if in.Organization == "" {
		errs = append(errs, FieldError{Field: "organization", Message: "is required"})
	}
	if in.AidType == "" {
		errs = append(errs, FieldError{Field: "aidType", Message: "is required"})
	}
	if in.DeliveryDate != "" {
		if _, err := time.Parse(DateLayout, in.DeliveryDate); err != nil {
			errs = append(errs, FieldError{Field: "deliveryDate", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if in.LocationID != nil && *in.LocationID <= 0 {
		errs = append(errs, FieldError{Field: "locationId", Message: "must be positive"})
	}
	if in.AidDays != nil && (math.IsNaN(*in.AidDays) || math.IsInf(*in.AidDays, 0)) {
		errs = append(errs, FieldError{Field: "aidDays", Message: "must be a finite number"})
	}

	return errs
}
