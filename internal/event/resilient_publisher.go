package event

import (
	"context"
	"time"

	"github.com/rcsinavim/arena/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries     int
	RetryDelay     time.Duration
	DeadLetterPath string
}

// ResilientPublisher wraps an Event Bus to add retry logic and dead
// letter queuing. Duel completion and reward events go through it so a
// transient subscriber failure never loses a settlement.
type ResilientPublisher struct {
	inner      Bus
	config     ResilientConfig
	deadLetter *DeadLetterWriter
}

// NewResilientPublisher creates a new ResilientPublisher. The dead
// letter writer may be nil, in which case exhausted events are only
// logged.
func NewResilientPublisher(inner Bus, config ResilientConfig, deadLetter *DeadLetterWriter) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	return &ResilientPublisher{
		inner:      inner,
		config:     config,
		deadLetter: deadLetter,
	}
}

// Publish attempts to publish an event. On failure it returns nil to the
// caller immediately and retries in the background; the caller is
// decoupled from the retry mechanism.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	go p.retryLoop(event, err)
	return nil
}

// Subscribe delegates to the wrapped bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	// Detached context: the original request context may be cancelled
	// long before the retries finish.
	ctx := context.Background()
	log := logger.FromContext(ctx)

	for i := 1; i <= p.config.MaxRetries; i++ {
		time.Sleep(p.config.RetryDelay * time.Duration(i))

		if err := p.inner.Publish(ctx, event); err == nil {
			log.Info(LogMsgEventRetrySucceeded, "event_type", event.Type, "attempt", i)
			return
		} else {
			lastErr = err
			log.Warn(LogMsgEventRetryFailed, "event_type", event.Type, "attempt", i, "error", err)
		}
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", event.Type)
	if p.deadLetter != nil {
		if err := p.deadLetter.Write(event, p.config.MaxRetries, lastErr); err != nil {
			log.Error(LogMsgDeadLetterFailed, "error", err)
		}
	}
}
