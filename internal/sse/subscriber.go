package sse

import (
	"context"
	"log/slog"

	"github.com/rcsinavim/arena/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.DuelChallenged, s.handleDuelChallenged)
	s.bus.Subscribe(event.DuelStarted, s.handleDuelStarted)
	s.bus.Subscribe(event.DuelCompleted, s.handleDuelCompleted)
	s.bus.Subscribe(event.DuelExpired, s.handleDuelExpired)
	s.bus.Subscribe(event.DeckShared, s.handleDeckShared)

	slog.Info("SSE subscriber registered for event types",
		"types", []string{
			string(event.DuelChallenged),
			string(event.DuelStarted),
			string(event.DuelCompleted),
			string(event.DuelExpired),
			string(event.DeckShared),
		})
}

func (s *Subscriber) handleDuelChallenged(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.DuelChallengedPayloadV1)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(EventTypeDuelChallenged, DuelChallengedPayload{
		DuelID:       payload.DuelID.String(),
		ChallengerID: payload.ChallengerID.String(),
		OpponentID:   payload.OpponentID.String(),
		DeckID:       payload.DeckID.String(),
		ExpiresAt:    payload.ExpiresAt,
	})

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeDuelChallenged, "duel_id", payload.DuelID)
	return nil
}

func (s *Subscriber) handleDuelStarted(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.DuelStartedPayloadV1)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(EventTypeDuelStarted, DuelStartedPayload{DuelID: payload.DuelID.String()})

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeDuelStarted, "duel_id", payload.DuelID)
	return nil
}

func (s *Subscriber) handleDuelCompleted(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.DuelCompletedPayloadV1)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	ssePayload := DuelCompletedPayload{DuelID: payload.DuelID.String()}
	if payload.WinnerID != nil {
		ssePayload.WinnerID = payload.WinnerID.String()
	}
	s.hub.Broadcast(EventTypeDuelCompleted, ssePayload)

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeDuelCompleted, "duel_id", payload.DuelID)
	return nil
}

func (s *Subscriber) handleDuelExpired(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.DuelExpiredPayloadV1)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(EventTypeDuelExpired, DuelExpiredPayload{DuelID: payload.DuelID.String()})

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeDuelExpired, "duel_id", payload.DuelID)
	return nil
}

func (s *Subscriber) handleDeckShared(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.DeckSharedPayloadV1)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(EventTypeDeckShared, DeckSharedPayload{
		DeckID:    payload.DeckID.String(),
		CreatorID: payload.CreatorID.String(),
		Title:     payload.Title,
		CardCount: payload.CardCount,
	})

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeDeckShared, "deck_id", payload.DeckID)
	return nil
}
