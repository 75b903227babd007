package handler

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/resilience"
)

// ReadinessCheck probes one in-process subsystem, such as the database pool.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// OpsConfig holds the dependencies of the ops handler.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Checks gate readiness. All must pass.
	Checks []ReadinessCheck

	// Dependencies reports guarded external dependencies. Optional.
	Dependencies *resilience.Registry
}

// OpsHandler serves liveness, readiness and status probes.
type OpsHandler struct {
	cfg OpsConfig
}

func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

const checkTimeout = 2 * time.Second

// HealthCheck handles GET /v1/ops/health. It never touches dependencies.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]string{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	for _, s := range h.runChecks(r.Context()) {
		if s.Status != models.HealthStatusFail {
			continue
		}
		if health.Details == nil {
			health.Details = make(map[string]string)
		}
		health.Details[s.Name] = s.Detail
	}
	if health.Details != nil {
		health.Status = models.HealthStatusFail
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status. A failed check fails the
// whole status; an unhealthy dependency only degrades it.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:       models.HealthStatusOK,
		Time:         models.Timestamp(time.Now()),
		Version:      h.cfg.Version,
		Subsystems:   h.runChecks(r.Context()),
		Dependencies: []models.DependencyStatus{},
	}
	for _, s := range status.Subsystems {
		if s.Status == models.HealthStatusFail {
			status.Status = models.HealthStatusFail
		}
	}

	if h.cfg.Dependencies != nil {
		for _, dep := range h.cfg.Dependencies.All() {
			ds := toDependencyStatus(dep)
			if ds.Status != models.HealthStatusOK && status.Status == models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
			status.Dependencies = append(status.Dependencies, ds)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

// runChecks probes every subsystem concurrently, each under its own timeout.
func (h *OpsHandler) runChecks(ctx context.Context) []models.SubsystemStatus {
	results := make([]models.SubsystemStatus, len(h.cfg.Checks))
	var g errgroup.Group
	for i, c := range h.cfg.Checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			results[i] = models.SubsystemStatus{Name: c.Name, Status: models.HealthStatusOK}
			if err := c.Check(checkCtx); err != nil {
				results[i].Status = models.HealthStatusFail
				results[i].Detail = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func toDependencyStatus(h resilience.DependencyHealth) models.DependencyStatus {
	ds := models.DependencyStatus{
		Name:         h.Name,
		Status:       models.HealthStatusOK,
		CircuitState: h.State.String(),
		Requests:     h.Counts.Requests,
		Failures:     h.Counts.TotalFailures,
		LastError:    h.LastError,
	}
	switch h.Condition() {
	case resilience.Down:
		ds.Status = models.HealthStatusFail
	case resilience.Degraded:
		ds.Status = models.HealthStatusDegraded
	}
	if !h.LastSuccess.IsZero() {
		ts := models.Timestamp(h.LastSuccess)
		ds.LastSuccessAt = &ts
	}
	if !h.LastFailure.IsZero() {
		ts := models.Timestamp(h.LastFailure)
		ds.LastFailureAt = &ts
	}
	return ds
}
