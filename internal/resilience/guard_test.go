package resilience_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/resilience"
)

var errTransient = errors.New("connection reset")

// fastConfig retries quickly and only trips when tripAfter is reached.
func fastConfig(name string, tripAfter uint32) resilience.GuardConfig {
	return resilience.GuardConfig{
		Name:            name,
		MaxRetries:      5,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		TripAfter:       tripAfter,
		Logger:          zerolog.Nop(),
	}
}

func TestGuard_Success(t *testing.T) {
	guard := resilience.NewGuard(resilience.DefaultGuardConfig("pubsub"))

	var calls atomic.Int32
	err := guard.Do(context.Background(), func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	h := guard.Health()
	assert.Equal(t, "pubsub", h.Name)
	assert.Equal(t, resilience.Healthy, h.Condition())
	assert.False(t, h.LastSuccess.IsZero())
	assert.True(t, h.LastFailure.IsZero())
}

func TestGuard_RetriesTransientFailures(t *testing.T) {
	guard := resilience.NewGuard(fastConfig("redis", 100))

	var calls atomic.Int32
	err := guard.Do(context.Background(), func(context.Context) error {
		if calls.Add(1) < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGuard_GivesUpAfterMaxRetries(t *testing.T) {
	cfg := fastConfig("redis", 100)
	cfg.MaxRetries = 2
	guard := resilience.NewGuard(cfg)

	var calls atomic.Int32
	err := guard.Do(context.Background(), func(context.Context) error {
		calls.Add(1)
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")

	h := guard.Health()
	assert.False(t, h.LastFailure.IsZero())
	assert.Equal(t, errTransient.Error(), h.LastError)
}

func TestGuard_PermanentErrorNotRetried(t *testing.T) {
	guard := resilience.NewGuard(fastConfig("pubsub", 100))

	var calls atomic.Int32
	errBadInput := errors.New("bad input")
	err := guard.Do(context.Background(), func(context.Context) error {
		calls.Add(1)
		return backoff.Permanent(errBadInput)
	})

	assert.ErrorIs(t, err, errBadInput)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGuard_CircuitBreakerTrips(t *testing.T) {
	cfg := fastConfig("pubsub", 5)
	cfg.MaxRetries = 1
	cfg.OpenTimeout = time.Minute
	guard := resilience.NewGuard(cfg)

	failing := func(context.Context) error { return errTransient }
	for i := 0; i < 3; i++ {
		_ = guard.Do(context.Background(), failing)
	}

	require.Equal(t, gobreaker.StateOpen, guard.Health().State)
	assert.Equal(t, resilience.Down, guard.Health().Condition())

	var calls atomic.Int32
	err := guard.Do(context.Background(), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(0), calls.Load(), "open circuit must not call the operation")
}

func TestGuard_HalfOpenProbeCloses(t *testing.T) {
	cfg := fastConfig("redis", 2)
	cfg.MaxRetries = 1
	cfg.OpenTimeout = 20 * time.Millisecond
	guard := resilience.NewGuard(cfg)

	_ = guard.Do(context.Background(), func(context.Context) error { return errTransient })
	require.Equal(t, gobreaker.StateOpen, guard.Health().State)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, resilience.Degraded, guard.Health().Condition())

	require.NoError(t, guard.Do(context.Background(), func(context.Context) error { return nil }))
	assert.Equal(t, resilience.Healthy, guard.Health().Condition())
}

func TestGuard_AttemptTimeout(t *testing.T) {
	cfg := fastConfig("redis", 100)
	cfg.AttemptTimeout = 20 * time.Millisecond
	cfg.MaxRetries = 1
	guard := resilience.NewGuard(cfg)

	err := guard.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGuard_ContextCancellation(t *testing.T) {
	cfg := fastConfig("pubsub", 100)
	cfg.MaxRetries = 10
	cfg.InitialInterval = 50 * time.Millisecond
	guard := resilience.NewGuard(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := guard.Do(ctx, func(context.Context) error { return errTransient })
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
