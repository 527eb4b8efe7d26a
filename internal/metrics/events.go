package metrics

import (
	"context"

	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.DuelChallenged,
		event.DuelStarted,
		event.DuelCompleted,
		event.DuelExpired,
		event.DeckShared,
		event.XPAwarded,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	// Duel and reward counters are incremented at the call sites that own
	// the transitions; expiry is counted here because the worker publishes
	// one event per expired duel.
	if evt.Type == event.DuelExpired {
		DuelsExpired.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
