package eventlog

import (
	"context"
	"time"
)

// Event is one row of the durable event audit log. Payload carries the
// event body as published on the bus; Metadata carries delivery context
// such as the source service.
type Event struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	UserID    *string                `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Repository persists and queries the event audit log.
type Repository interface {
	LogEvent(ctx context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error

	// GetEventsByUser returns a user's most recent events, newest first.
	GetEventsByUser(ctx context.Context, userID string, limit int) ([]Event, error)

	// CleanupOldEvents deletes events older than retentionDays and
	// returns the number of rows removed.
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}
