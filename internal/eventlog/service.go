package eventlog

import (
	"context"
	"encoding/json"

	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/logger"
)

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger to listen to all events
	Subscribe(bus event.Bus) error

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all event types
func (s *service) Subscribe(bus event.Bus) error {
	eventTypes := []event.Type{
		event.DuelChallenged,
		event.DuelStarted,
		event.DuelCompleted,
		event.DuelExpired,
		event.DeckShared,
		event.XPAwarded,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// handleEvent processes and logs events to the database
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Payloads are typed structs; round-trip through JSON to get the
	// generic map the log table stores.
	payload, err := payloadMap(evt.Payload)
	if err != nil {
		log.Debug(LogMsgPayloadNotLoggable, LogFieldType, evt.Type, LogFieldError, err)
		return nil
	}

	var userID *string
	if uid, ok := payload[PayloadKeyUserID].(string); ok {
		userID = &uid
	}

	var metadata map[string]interface{}
	if evt.Metadata != nil {
		metadata, _ = payloadMap(evt.Metadata)
	}

	if err := s.repo.LogEvent(ctx, string(evt.Type), userID, payload, metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldUserID, userID)
	return nil
}

func payloadMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
