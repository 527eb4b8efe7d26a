package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcsinavim/arena/internal/eventlog"
)

type eventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository returns a Repository backed by the events table.
func NewEventLogRepository(db *pgxpool.Pool) eventlog.Repository {
	return &eventLogRepository{db: db}
}

func (r *eventLogRepository) LogEvent(ctx context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	var metadataJSON []byte
	if metadata != nil {
		if metadataJSON, err = json.Marshal(metadata); err != nil {
			return fmt.Errorf("failed to marshal event metadata: %w", err)
		}
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO events (event_type, user_id, payload, metadata) VALUES ($1, $2, $3, $4)`,
		eventType, userID, payloadJSON, metadataJSON)
	return err
}

func (r *eventLogRepository) GetEventsByUser(ctx context.Context, userID string, limit int) ([]eventlog.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_type, user_id, payload, metadata, created_at
		 FROM events
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []eventlog.Event
	for rows.Next() {
		var evt eventlog.Event
		var payloadJSON, metadataJSON []byte
		if err := rows.Scan(&evt.ID, &evt.EventType, &evt.UserID, &payloadJSON, &metadataJSON, &evt.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payloadJSON, &evt.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload for event %d: %w", evt.ID, err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &evt.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for event %d: %w", evt.ID, err)
			}
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *eventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM events WHERE created_at < NOW() - INTERVAL '1 day' * $1`,
		retentionDays)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
