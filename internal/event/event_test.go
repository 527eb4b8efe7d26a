package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_PublishToSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	var first, second atomic.Int32

	bus.Subscribe(DuelStarted, func(context.Context, Event) error {
		first.Add(1)
		return nil
	})
	bus.Subscribe(DuelStarted, func(context.Context, Event) error {
		second.Add(1)
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: EventSchemaVersion,
		Type:    DuelStarted,
		Payload: DuelStartedPayloadV1{DuelID: uuid.New()},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	err := bus.Publish(context.Background(), Event{Type: DeckShared})
	assert.NoError(t, err)
}

func TestMemoryBus_HandlerErrorsAggregated(t *testing.T) {
	bus := NewMemoryBus()
	var healthy atomic.Int32

	bus.Subscribe(XPAwarded, func(context.Context, Event) error {
		return errors.New("sink offline")
	})
	bus.Subscribe(XPAwarded, func(context.Context, Event) error {
		healthy.Add(1)
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: XPAwarded})
	assert.Error(t, err)
	// A failing handler never blocks delivery to the others
	assert.Equal(t, int32(1), healthy.Load())
}

func TestDecodePayload_TypeAssertion(t *testing.T) {
	duelID := uuid.New()
	payload, err := DecodePayload[DuelStartedPayloadV1](DuelStartedPayloadV1{DuelID: duelID})
	require.NoError(t, err)
	assert.Equal(t, duelID, payload.DuelID)
}

func TestDecodePayload_JSONFallback(t *testing.T) {
	userID := uuid.New()
	raw := map[string]interface{}{
		"user_id": userID.String(),
		"amount":  float64(75),
		"reason":  "flashcard_duel_win",
	}

	payload, err := DecodePayload[XPAwardedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, userID, payload.UserID)
	assert.Equal(t, 75, payload.Amount)
	assert.Equal(t, "flashcard_duel_win", payload.Reason)
}

func TestNewDuelCompleted(t *testing.T) {
	duelID, winnerID := uuid.New(), uuid.New()

	e := NewDuelCompleted(duelID, &winnerID)
	assert.Equal(t, EventSchemaVersion, e.Version)
	assert.Equal(t, DuelCompleted, e.Type)
	payload := e.Payload.(DuelCompletedPayloadV1)
	assert.Equal(t, duelID, payload.DuelID)
	require.NotNil(t, payload.WinnerID)
	assert.Equal(t, winnerID, *payload.WinnerID)

	tie := NewDuelCompleted(duelID, nil)
	assert.Nil(t, tie.Payload.(DuelCompletedPayloadV1).WinnerID)
}
