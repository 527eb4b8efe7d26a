package sse

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcsinavim/arena/internal/event"
)

func waitForEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case evt := <-client.EventChannel:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no event arrived")
		return Event{}
	}
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(EventTypeDuelStarted, DuelStartedPayload{DuelID: "d1"})

	evt := waitForEvent(t, client)
	assert.Equal(t, EventTypeDuelStarted, evt.Type)
	assert.NotEmpty(t, evt.ID)
	assert.NotZero(t, evt.Timestamp)
}

func TestHub_FilterSkipsOtherTypes(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	filtered := hub.Register([]string{EventTypeDeckShared})
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(EventTypeDuelStarted, DuelStartedPayload{DuelID: "d1"})
	hub.Broadcast(EventTypeDeckShared, DeckSharedPayload{DeckID: "deck1"})

	evt := waitForEvent(t, filtered)
	assert.Equal(t, EventTypeDeckShared, evt.Type)
	select {
	case extra := <-filtered.EventChannel:
		t.Fatalf("unexpected event %s delivered through filter", extra.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client.ID)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.EventChannel
	assert.False(t, open)
}

func TestHub_StopClosesAllClients(t *testing.T) {
	hub := NewHub()
	hub.Start()

	first := hub.Register(nil)
	second := hub.Register(nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Stop()
	_, open := <-first.EventChannel
	assert.False(t, open)
	_, open = <-second.EventChannel
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestFormatSSEMessage(t *testing.T) {
	evt := Event{ID: "e1", Type: EventTypeDuelCompleted, Timestamp: 1700000000, Payload: DuelCompletedPayload{DuelID: "d1", WinnerID: "u1"}}

	msg, err := FormatSSEMessage(evt)
	require.NoError(t, err)

	text := string(msg)
	assert.True(t, strings.HasPrefix(text, "id: e1\n"))
	assert.Contains(t, text, "event: "+EventTypeDuelCompleted+"\n")
	assert.True(t, strings.HasSuffix(text, "\n\n"))

	dataLine := ""
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
		}
	}
	require.NotEmpty(t, dataLine)
	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(dataLine), &decoded))
	assert.Equal(t, "e1", decoded.ID)
}

func TestSubscriber_BridgesBusToHub(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()
	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	client := hub.Register(nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	duelID, winnerID := uuid.New(), uuid.New()
	require.NoError(t, bus.Publish(context.Background(), event.NewDuelCompleted(duelID, &winnerID)))

	evt := waitForEvent(t, client)
	assert.Equal(t, EventTypeDuelCompleted, evt.Type)
	payload := evt.Payload.(DuelCompletedPayload)
	assert.Equal(t, duelID.String(), payload.DuelID)
	assert.Equal(t, winnerID.String(), payload.WinnerID)
}

func TestSubscriber_IgnoresMalformedPayload(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()
	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	client := hub.Register(nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// A payload of the wrong type is logged and dropped, not broadcast
	require.NoError(t, bus.Publish(context.Background(), event.Event{Type: event.DuelStarted, Payload: "garbage"}))

	select {
	case evt := <-client.EventChannel:
		t.Fatalf("unexpected event %s broadcast for malformed payload", evt.Type)
	case <-time.After(50 * time.Millisecond):
	}
}
