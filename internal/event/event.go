package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type represents the type of an event
type Type string

// Arena event types
const (
	DuelChallenged Type = "duel.challenged"
	DuelStarted    Type = "duel.started"
	DuelCompleted  Type = "duel.completed"
	DuelExpired    Type = "duel.expired"
	DeckShared     Type = "deck.shared"
	XPAwarded      Type = "xp.awarded"
)

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// Typed event payloads for type safety

// DuelChallengedPayloadV1 is emitted when a challenge is created
type DuelChallengedPayloadV1 struct {
	DuelID       uuid.UUID `json:"duel_id"`
	ChallengerID uuid.UUID `json:"challenger_id"`
	OpponentID   uuid.UUID `json:"opponent_id"`
	DeckID       uuid.UUID `json:"deck_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// DuelStartedPayloadV1 is emitted when both participants have joined
type DuelStartedPayloadV1 struct {
	DuelID uuid.UUID `json:"duel_id"`
}

// DuelCompletedPayloadV1 is emitted once per completed duel
type DuelCompletedPayloadV1 struct {
	DuelID   uuid.UUID  `json:"duel_id"`
	WinnerID *uuid.UUID `json:"winner_id,omitempty"`
}

// DuelExpiredPayloadV1 is emitted when a pending challenge expires unanswered
type DuelExpiredPayloadV1 struct {
	DuelID uuid.UUID `json:"duel_id"`
}

// DeckSharedPayloadV1 is emitted when a deck is shared
type DeckSharedPayloadV1 struct {
	DeckID    uuid.UUID `json:"deck_id"`
	CreatorID uuid.UUID `json:"creator_id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	CardCount int       `json:"card_count"`
}

// XPAwardedPayloadV1 is emitted when the rewards ledger grants XP
type XPAwardedPayloadV1 struct {
	UserID uuid.UUID `json:"user_id"`
	Amount int       `json:"amount"`
	Reason string    `json:"reason,omitempty"`
}

// NewDuelCompleted builds a versioned duel.completed event
func NewDuelCompleted(duelID uuid.UUID, winnerID *uuid.UUID) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DuelCompleted,
		Payload: DuelCompletedPayloadV1{DuelID: duelID, WinnerID: winnerID},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
