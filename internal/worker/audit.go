package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aidlink/aidlink/internal/location"
	"github.com/aidlink/aidlink/internal/metrics"
)

// LocationAuditor is the slice of the location registry the audit needs.
type LocationAuditor interface {
	List(ctx context.Context) ([]*location.Location, error)
	RepairUrgency(ctx context.Context, id int64) (location.UrgencyLevel, bool, error)
}

// AuditJob finds locations whose stored urgency level no longer matches their
// current supply, and optionally repairs them.
type AuditJob struct {
	config    AuditConfig
	locations LocationAuditor
	logger    zerolog.Logger
	prom      *metrics.Metrics

	metrics *AuditMetrics
}

// AuditMetrics tracks cumulative audit statistics.
type AuditMetrics struct {
	mu sync.RWMutex

	TotalRuns      int64
	FailedRuns     int64
	TotalChecked   int64
	TotalDrifted   int64
	TotalRepaired  int64
	RepairFailures int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// AuditJobConfig holds configuration for creating an AuditJob.
type AuditJobConfig struct {
	Config    AuditConfig
	Locations LocationAuditor
	Logger    zerolog.Logger

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// NewAuditJob creates a new urgency audit job.
func NewAuditJob(cfg AuditJobConfig) *AuditJob {
	return &AuditJob{
		config:    cfg.Config.withDefaults(),
		locations: cfg.Locations,
		logger:    cfg.Logger.With().Str("component", "urgency_audit").Logger(),
		prom:      cfg.Metrics,
		metrics:   &AuditMetrics{},
	}
}

// Drift is one location whose stored level disagrees with its supply.
type Drift struct {
	LocationID int64
	Name       string
	Stored     location.UrgencyLevel
	Derived    location.UrgencyLevel
}

// AuditError represents a failed repair.
type AuditError struct {
	LocationID int64
	Error      string
}

// AuditResult contains the result of an audit run.
type AuditResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Checked   int
	Drifted   []Drift
	Repaired  int
	Errors    []AuditError
}

// DriftedIDs returns the IDs of the drifted locations.
func (r *AuditResult) DriftedIDs() []int64 {
	ids := make([]int64, len(r.Drifted))
	for i, d := range r.Drifted {
		ids[i] = d.LocationID
	}
	return ids
}

// Run executes one audit pass, repairing only if the job is configured to.
// It fails only if the locations cannot be listed; repair failures are
// reported in the result.
func (j *AuditJob) Run(ctx context.Context) (*AuditResult, error) {
	return j.run(ctx, j.config.Repair)
}

// RunAndRepair executes one audit pass and repairs every drifted location
// regardless of configuration.
func (j *AuditJob) RunAndRepair(ctx context.Context) (*AuditResult, error) {
	return j.run(ctx, true)
}

func (j *AuditJob) run(ctx context.Context, repair bool) (*AuditResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "urgency audit",
		trace.WithAttributes(attribute.Bool("audit.repair", repair)))
	defer span.End()

	startTime := time.Now()
	result := &AuditResult{StartTime: startTime}

	locs, err := j.locations.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing locations")
		j.recordFailedRun()
		return nil, err
	}
	result.Checked = len(locs)

	for _, l := range locs {
		derived := location.ClassifyUrgency(l.CurrentSupply, l.RequiredSupply)
		if derived != l.UrgencyLevel {
			result.Drifted = append(result.Drifted, Drift{
				LocationID: l.ID,
				Name:       l.Name,
				Stored:     l.UrgencyLevel,
				Derived:    derived,
			})
		}
	}

	for _, d := range result.Drifted {
		j.logger.Warn().
			Int64("location_id", d.LocationID).
			Str("stored", string(d.Stored)).
			Str("derived", string(d.Derived)).
			Msg("urgency level drift")
	}

	if repair && len(result.Drifted) > 0 {
		j.repair(ctx, result)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	span.SetAttributes(
		attribute.Int("audit.checked", result.Checked),
		attribute.Int("audit.drifted", len(result.Drifted)),
		attribute.Int("audit.repaired", result.Repaired),
	)
	if len(result.Errors) > 0 {
		span.SetStatus(codes.Error, "repairs failed")
	}

	j.updateMetrics(result)
	j.prom.ObserveAudit(result.Duration, len(result.Drifted))

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("checked", result.Checked).
		Int("drifted", len(result.Drifted)).
		Int("repaired", result.Repaired).
		Int("failed", len(result.Errors)).
		Msg("urgency audit completed")

	return result, nil
}

type repairResult struct {
	locationID int64
	repaired   bool
	err        error
}

func (j *AuditJob) repair(ctx context.Context, result *AuditResult) {
	ids := make(chan int64, len(result.Drifted))
	results := make(chan repairResult, len(result.Drifted))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.repairWorker(ctx, ids, results)
		}()
	}

	for _, d := range result.Drifted {
		ids <- d.LocationID
	}
	close(ids)

	go func() {
		wg.Wait()
		close(results)
	}()

	for rr := range results {
		switch {
		case rr.err != nil:
			result.Errors = append(result.Errors, AuditError{LocationID: rr.locationID, Error: rr.err.Error()})
		case rr.repaired:
			result.Repaired++
		}
	}
}

func (j *AuditJob) repairWorker(ctx context.Context, ids <-chan int64, results chan<- repairResult) {
	for id := range ids {
		select {
		case <-ctx.Done():
			results <- repairResult{locationID: id, err: ctx.Err()}
			continue
		default:
		}

		repairCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
		_, changed, err := j.locations.RepairUrgency(repairCtx, id)
		cancel()
		results <- repairResult{locationID: id, repaired: changed, err: err}
	}
}

func (j *AuditJob) recordFailedRun() {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.FailedRuns++
}

func (j *AuditJob) updateMetrics(result *AuditResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.TotalChecked += int64(result.Checked)
	j.metrics.TotalDrifted += int64(len(result.Drifted))
	j.metrics.TotalRepaired += int64(result.Repaired)
	j.metrics.RepairFailures += int64(len(result.Errors))
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *AuditJob) GetMetrics() AuditMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return AuditMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		FailedRuns:      j.metrics.FailedRuns,
		TotalChecked:    j.metrics.TotalChecked,
		TotalDrifted:    j.metrics.TotalDrifted,
		TotalRepaired:   j.metrics.TotalRepaired,
		RepairFailures:  j.metrics.RepairFailures,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *AuditJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"failed_runs":       m.FailedRuns,
		"total_checked":     m.TotalChecked,
		"total_drifted":     m.TotalDrifted,
		"total_repaired":    m.TotalRepaired,
		"repair_failures":   m.RepairFailures,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
