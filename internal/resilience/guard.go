// Package resilience wraps calls to backing services (Pub/Sub, Redis) in a
// circuit breaker with bounded exponential-backoff retries, and tracks every
// guarded dependency for the ops status endpoint.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned without calling the operation while the
// breaker is open or its half-open probe budget is used up.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// GuardConfig configures a Guard. Zero durations and counts take the
// DefaultGuardConfig values.
type GuardConfig struct {
	// Name identifies the dependency in logs and on /v1/ops/status.
	Name string

	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration

	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// The breaker opens once TripAfter attempts have been seen and at
	// least TripRatio of them failed. It stays open for OpenTimeout and then
	// lets a single probe through.
	TripAfter   uint32
	TripRatio   float64
	OpenTimeout time.Duration

	// Registry, when set, receives the guard on construction.
	Registry *Registry

	Logger zerolog.Logger
}

// DefaultGuardConfig returns the settings used for Pub/Sub and Redis.
func DefaultGuardConfig(name string) GuardConfig {
	return GuardConfig{
		Name:            name,
		AttemptTimeout:  5 * time.Second,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		TripAfter:       5,
		TripRatio:       0.5,
		OpenTimeout:     30 * time.Second,
	}
}

// Guard runs operations against one backing service.
type Guard struct {
	cfg     GuardConfig
	breaker *gobreaker.CircuitBreaker[struct{}]

	mu          sync.Mutex
	lastSuccess time.Time
	lastFailure time.Time
	lastErr     string
}

// NewGuard creates a guard, filling unset fields from DefaultGuardConfig.
func NewGuard(cfg GuardConfig) *Guard {
	def := DefaultGuardConfig(cfg.Name)
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = def.AttemptTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	if cfg.TripAfter == 0 {
		cfg.TripAfter = def.TripAfter
	}
	if cfg.TripRatio <= 0 {
		cfg.TripRatio = def.TripRatio
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}

	g := &Guard{cfg: cfg}
	g.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= cfg.TripAfter &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.TripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			event := cfg.Logger.Info()
			if to == gobreaker.StateOpen {
				event = cfg.Logger.Warn()
			}
			event.Str("dependency", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	if cfg.Registry != nil {
		cfg.Registry.Register(g)
	}
	return g
}

// Name returns the guarded dependency name.
func (g *Guard) Name() string {
	return g.cfg.Name
}

// Do runs op through the breaker, retrying failures with exponential
// backoff. Errors wrapped with backoff.Permanent are returned at once.
func (g *Guard) Do(ctx context.Context, op func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.cfg.InitialInterval
	bo.MaxInterval = g.cfg.MaxInterval
	bo.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		_, err := g.breaker.Execute(func() (struct{}, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.AttemptTimeout)
			defer cancel()
			return struct{}{}, op(attemptCtx)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(ErrCircuitOpen)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, g.cfg.MaxRetries), ctx))

	g.record(err)
	return err
}

func (g *Guard) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		g.lastSuccess = time.Now()
		return
	}
	g.lastFailure = time.Now()
	g.lastErr = err.Error()
}

// Health returns a snapshot of the breaker and the last call outcomes.
func (g *Guard) Health() DependencyHealth {
	g.mu.Lock()
	defer g.mu.Unlock()
	return DependencyHealth{
		Name:        g.cfg.Name,
		State:       g.breaker.State(),
		Counts:      g.breaker.Counts(),
		LastSuccess: g.lastSuccess,
		LastFailure: g.lastFailure,
		LastError:   g.lastErr,
	}
}
