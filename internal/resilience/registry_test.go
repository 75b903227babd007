package resilience_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/resilience"
)

func TestRegistry_RegistersOnConstruction(t *testing.T) {
	registry := resilience.NewRegistry()
	cfg := fastConfig("redis", 100)
	cfg.Registry = registry
	guard := resilience.NewGuard(cfg)

	h, ok := registry.Health("redis")
	require.True(t, ok)
	assert.Equal(t, resilience.Healthy, h.Condition())
	assert.True(t, h.LastSuccess.IsZero())

	require.NoError(t, guard.Do(context.Background(), func(context.Context) error { return nil }))

	h, _ = registry.Health("redis")
	assert.False(t, h.LastSuccess.IsZero())

	_, ok = registry.Health("postgres")
	assert.False(t, ok)
}

func TestRegistry_AllSortedByName(t *testing.T) {
	registry := resilience.NewRegistry()
	for _, name := range []string{"redis", "pubsub"} {
		cfg := fastConfig(name, 100)
		cfg.Registry = registry
		resilience.NewGuard(cfg)
	}

	all := registry.All()
	require.Len(t, all, 2)
	assert.Equal(t, "pubsub", all[0].Name)
	assert.Equal(t, "redis", all[1].Name)
}

func TestRegistry_ReplacesSameName(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register(resilience.NewGuard(fastConfig("redis", 100)))
	registry.Register(resilience.NewGuard(fastConfig("redis", 100)))

	assert.Len(t, registry.All(), 1)
}

func TestCondition_String(t *testing.T) {
	assert.Equal(t, "healthy", resilience.Healthy.String())
	assert.Equal(t, "degraded", resilience.Degraded.String())
	assert.Equal(t, "down", resilience.Down.String())
}
