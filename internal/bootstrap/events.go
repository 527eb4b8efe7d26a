package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rcsinavim/arena/internal/config"
	"github.com/rcsinavim/arena/internal/event"
)

// InitializeEventSystem creates and configures the event bus, the
// dead-letter writer, and the resilient publisher with retry logic.
// Returns the bus, the publisher, and the dead-letter writer (caller
// closes it on shutdown).
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, *event.DeadLetterWriter, error) {
	eventBus := event.NewMemoryBus()

	if dir := filepath.Dir(cfg.DeadLetterPath); dir != "." {
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			return nil, nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
		}
	}

	deadLetter, err := event.NewDeadLetterWriter(cfg.DeadLetterPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", LogMsgFailedOpenDeadLetter, err)
	}

	publisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		MaxRetries:     cfg.EventMaxRetries,
		RetryDelay:     cfg.EventRetryDelay,
		DeadLetterPath: cfg.DeadLetterPath,
	}, deadLetter)

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter_path", cfg.DeadLetterPath)

	return eventBus, publisher, deadLetter, nil
}
