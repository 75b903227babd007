// Package events publishes domain events emitted by the registry and the
// application workflow.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeLocationSupplyChanged    = "location.supply_changed"
	TypeLocationUrgencyRepaired  = "location.urgency_repaired"
	TypeApplicationSubmitted     = "application.submitted"
	TypeApplicationStatusChanged = "application.status_changed"
	TypeFeedPostModerated        = "feed.post_moderated"
)

// Event is a domain event.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Subject    string         `json:"subject"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// New creates an event with a fresh id, stamped now.
func New(eventType, subject string, data map[string]any) Event {
	return Event{
		ID:         "evt_" + uuid.New().String(),
		Type:       eventType,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher delivers events to some sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

var _ Publisher = NopPublisher{}
