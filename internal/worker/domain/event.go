package domain

import (
	"fmt"
	"time"
)

// Job lifecycle event names as published by the API service
const (
	EventJobCreated = "job.created"
	EventJobUpdated = "job.updated"
	EventJobDeleted = "job.deleted"
)

// JobEvent is the message body consumed from the events queue
type JobEvent struct {
	Event      string    `json:"event"`
	JobID      string    `json:"job_id"`
	ClientName string    `json:"client_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate rejects payloads the processor cannot act on
func (e *JobEvent) Validate() error {
	switch e.Event {
	case EventJobCreated, EventJobUpdated, EventJobDeleted:
	default:
		return fmt.Errorf("%w: unknown event %q", ErrInvalidEvent, e.Event)
	}

	if e.ClientName == "" {
		return fmt.Errorf("%w: missing client_name", ErrInvalidEvent)
	}

	return nil
}

// EventMessage pairs a parsed event with its delivery tag for ack/nack
type EventMessage struct {
	Event       JobEvent
	DeliveryTag uint64
}
