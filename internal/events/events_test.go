package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/events"
)

func TestNew(t *testing.T) {
	e := events.New(events.TypeLocationSupplyChanged, "location/3", map[string]any{"days": 2.5})

	assert.Contains(t, e.ID, "evt_")
	assert.Equal(t, events.TypeLocationSupplyChanged, e.Type)
	assert.Equal(t, "location/3", e.Subject)
	assert.False(t, e.OccurredAt.IsZero())
	assert.Equal(t, 2.5, e.Data["days"])

	other := events.New(events.TypeLocationSupplyChanged, "location/3", nil)
	assert.NotEqual(t, e.ID, other.ID)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := events.NewLogPublisher(zerolog.New(&buf))

	e := events.New(events.TypeApplicationStatusChanged, "application/7", map[string]any{"status": "approved"})
	require.NoError(t, pub.Publish(context.Background(), e))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "domain event", entry["message"])
	assert.Equal(t, events.TypeApplicationStatusChanged, entry["event_type"])
	assert.Equal(t, "application/7", entry["subject"])
	assert.Equal(t, "events", entry["component"])
}

func TestMemoryPublisher(t *testing.T) {
	pub := events.NewMemoryPublisher()
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, events.New(events.TypeApplicationSubmitted, "application/1", nil)))
	require.NoError(t, pub.Publish(ctx, events.New(events.TypeLocationSupplyChanged, "location/1", nil)))
	require.NoError(t, pub.Publish(ctx, events.New(events.TypeLocationSupplyChanged, "location/2", nil)))

	assert.Len(t, pub.Events(), 3)
	changed := pub.OfType(events.TypeLocationSupplyChanged)
	require.Len(t, changed, 2)
	assert.Equal(t, "location/1", changed[0].Subject)
	assert.Equal(t, "location/2", changed[1].Subject)
}

func TestGate(t *testing.T) {
	ctx := context.Background()
	enabled := true
	pub := events.NewMemoryPublisher()
	gate := events.Gate{
		Next:    pub,
		Enabled: func(context.Context) bool { return enabled },
	}

	require.NoError(t, gate.Publish(ctx, events.New(events.TypeApplicationSubmitted, "application/1", nil)))
	enabled = false
	require.NoError(t, gate.Publish(ctx, events.New(events.TypeApplicationSubmitted, "application/2", nil)))

	got := pub.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "application/1", got[0].Subject)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, events.NopPublisher{}.Publish(context.Background(), events.Event{}))
}
