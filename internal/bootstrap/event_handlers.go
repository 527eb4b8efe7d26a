package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/eventlog"
	"github.com/rcsinavim/arena/internal/metrics"
	"github.com/rcsinavim/arena/internal/sse"
)

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (event-based counters)
// - SSE stream subscriber (fans events out to connected clients)
// - Event logger (persists events to the audit table)
func RegisterEventHandlers(eventBus event.Bus, hub *sse.Hub, eventLogService eventlog.Service) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(eventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	streamSubscriber := sse.NewSubscriber(hub, eventBus)
	streamSubscriber.Subscribe()
	slog.Info(LogMsgStreamSubscriberRegistered)

	if err := eventLogService.Subscribe(eventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	return nil
}
