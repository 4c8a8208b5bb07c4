package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobtrack/jobtrack-be/shared/rabbitmq"
)

// Job lifecycle event names; also used as routing keys on the topic exchange
const (
	JobCreated = "job.created"
	JobUpdated = "job.updated"
	JobDeleted = "job.deleted"
)

// JobEvent notifies the rollup worker that a client's jobs changed.
// It carries the client name rather than a job snapshot: the worker
// recomputes the client's aggregate from the jobs table, so the payload
// only needs to say whose rows to look at.
type JobEvent struct {
	Event      string    `json:"event"`
	JobID      string    `json:"job_id"`
	ClientName string    `json:"client_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewJobEvent builds an event stamped with the current time
func NewJobEvent(event, jobID, clientName string) JobEvent {
	return JobEvent{
		Event:      event,
		JobID:      jobID,
		ClientName: clientName,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher emits job lifecycle events
type Publisher interface {
	PublishJobEvent(ctx context.Context, event JobEvent) error
}

// RabbitPublisher publishes job events to the RabbitMQ topic exchange
type RabbitPublisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

func NewRabbitPublisher(client *rabbitmq.Client, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		client: client,
		logger: logger,
	}
}

// PublishJobEvent publishes the event under its name as routing key
func (p *RabbitPublisher) PublishJobEvent(ctx context.Context, event JobEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, event.Event, body); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	p.logger.Debug("Job event published",
		slog.String("event", event.Event),
		slog.String("job_id", event.JobID),
		slog.String("client_name", event.ClientName),
	)

	return nil
}
