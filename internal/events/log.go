package events

import (
	"context"

	"github.com/rs/zerolog"
)

// LogPublisher writes events to a zerolog logger.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a publisher that logs every event at info level.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("subject", event.Subject).
		Interface("data", event.Data).
		Msg("domain event")
	return nil
}

var _ Publisher = (*LogPublisher)(nil)
