package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/aidlink/aidlink/internal/resilience"
)

// PubSubPublisher publishes events to a Google Cloud Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	guard     *resilience.Guard
}

// PubSubPublisherConfig holds configuration for the Pub/Sub publisher.
type PubSubPublisherConfig struct {
	ProjectID string
	Topic     string

	// Guard wraps each publish. If nil, a default "pubsub" guard is used.
	Guard *resilience.Guard
}

// NewPubSubPublisher creates a new Pub/Sub publisher.
func NewPubSubPublisher(ctx context.Context, cfg PubSubPublisherConfig) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	guard := cfg.Guard
	if guard == nil {
		guard = resilience.NewGuard(resilience.DefaultGuardConfig("pubsub"))
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(cfg.Topic),
		guard:     guard,
	}, nil
}

// Publish implements Publisher. It blocks until the server acknowledges the
// message or the guard gives up.
func (p *PubSubPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	attrs := map[string]string{
		"event_type": event.Type,
		"subject":    event.Subject,
	}
	// Consumers continue the request's trace from the message attributes.
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(attrs))

	msg := &pubsub.Message{Data: data, Attributes: attrs}

	return p.guard.Do(ctx, func(ctx context.Context) error {
		if _, err := p.publisher.Publish(ctx, msg).Get(ctx); err != nil {
			return fmt.Errorf("publishing %s: %w", event.Type, err)
		}
		return nil
	})
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

var _ Publisher = (*PubSubPublisher)(nil)
