package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aidlink/aidlink/internal/worker"

// JobMessage represents a job request delivered over Pub/Sub.
type JobMessage struct {
	JobType string `json:"job_type"`

	// Repair forces drifted levels to be rewritten for this run.
	Repair bool `json:"repair,omitempty"`
}

// ErrMalformedJob is returned for a message that is not a JobMessage.
var ErrMalformedJob = errors.New("malformed job message")

// ErrUnknownJobType is returned for a well-formed message with a job type
// this worker does not run.
var ErrUnknownJobType = errors.New("unknown job type")

// Dispatcher runs jobs decoded from raw message payloads.
type Dispatcher struct {
	audit  *AuditJob
	logger zerolog.Logger
}

// NewDispatcher creates a dispatcher for the audit job.
func NewDispatcher(audit *AuditJob, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{audit: audit, logger: logger}
}

// Dispatch decodes data and runs the job it names.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) (string, error) {
	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}

	switch msg.JobType {
	case JobTypeUrgencyAudit:
		return msg.JobType, d.handleAudit(ctx, msg)
	case JobTypeHealthCheck:
		return msg.JobType, d.handleHealthCheck(ctx)
	default:
		return msg.JobType, fmt.Errorf("%w: %q", ErrUnknownJobType, msg.JobType)
	}
}

func (d *Dispatcher) handleAudit(ctx context.Context, msg JobMessage) error {
	run := d.audit.Run
	if msg.Repair {
		run = d.audit.RunAndRepair
	}

	result, err := run(ctx)
	if err != nil {
		return fmt.Errorf("urgency audit: %w", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("urgency audit: %d of %d repairs failed", len(result.Errors), len(result.Drifted))
	}
	return nil
}

func (d *Dispatcher) handleHealthCheck(ctx context.Context) error {
	d.logger.Debug().Msg("running health check")

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := d.audit.locations.List(checkCtx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	d.logger.Debug().Msg("health check passed")
	return nil
}

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       *Dispatcher
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Dispatcher       *Dispatcher
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       cfg.Dispatcher,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages. It blocks until ctx is done.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Attributes))
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pubsub receive "+h.subscriptionName,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "gcp_pubsub"),
			attribute.String("messaging.destination.name", h.subscriptionName),
			attribute.String("messaging.message.id", msg.ID),
		),
	)
	defer span.End()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	jobType, err := h.dispatcher.Dispatch(ctx, msg.Data)
	span.SetAttributes(attribute.String("job.type", jobType))
	if err != nil {
		span.RecordError(err)
	}
	if Ack(err) {
		if err != nil {
			logger.Warn().Err(err).Msg("dropping job")
		} else {
			logger.Info().
				Str("job_type", jobType).
				Dur("duration", time.Since(startTime)).
				Msg("job completed successfully")
		}
		msg.Ack()
		return
	}

	span.SetStatus(codes.Error, "job failed")
	logger.Error().Err(err).Str("job_type", jobType).Msg("job failed")
	msg.Nack()
}

// Ack reports whether a message whose dispatch returned err should be acked.
// Unknown job types are acked so they are not redelivered; malformed
// payloads and failed jobs are nacked.
func Ack(err error) bool {
	return err == nil || errors.Is(err, ErrUnknownJobType)
}
