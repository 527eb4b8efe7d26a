package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duelstore"
)

// Handler returns an HTTP handler for the global SSE event stream
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := prepareStream(w)
		if !ok {
			return
		}

		// Parse event type filters from query param
		var eventTypes []string
		filterParam := r.URL.Query().Get("types")
		if filterParam != "" {
			eventTypes = strings.Split(filterParam, ",")
		}

		client := hub.Register(eventTypes)
		slog.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"filters", eventTypes,
			"total_clients", hub.ClientCount())

		defer func() {
			hub.Unregister(client.ID)
			slog.Info(LogMsgClientDisconnected,
				"client_id", client.ID,
				"total_clients", hub.ClientCount())
		}()

		// Initial connection event so clients can confirm the stream is live
		connectEvent := Event{
			ID:        client.ID,
			Type:      "connected",
			Timestamp: time.Now().Unix(),
			Payload: map[string]interface{}{
				"client_id": client.ID,
				"filters":   eventTypes,
			},
		}
		if !writeEvent(w, flusher, connectEvent) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					// Hub is shutting down
					return
				}
				if !writeEvent(w, flusher, event) {
					return
				}

			case <-ticker.C:
				if !writeEvent(w, flusher, keepalive()) {
					return
				}
			}
		}
	}
}

// DuelStreamHandler returns an HTTP handler that streams live battle
// snapshots for a single duel. Each store snapshot becomes one
// battle.update SSE event; delivery is at least once and unordered, so
// clients render the latest snapshot rather than diffing.
func DuelStreamHandler(store duelstore.Store, duelIDParam func(*http.Request) (uuid.UUID, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		duelID, err := duelIDParam(r)
		if err != nil {
			http.Error(w, "invalid duel id", http.StatusBadRequest)
			return
		}

		flusher, ok := prepareStream(w)
		if !ok {
			return
		}

		snapshots := make(chan *domain.DuelSession, ClientEventBuffer)
		unsubscribe, err := store.Subscribe(duelID, func(session *domain.DuelSession) {
			select {
			case snapshots <- session:
			default:
				// Client is behind; the next snapshot supersedes this one.
			}
		})
		if err != nil {
			http.Error(w, "duel not found", http.StatusNotFound)
			return
		}
		defer unsubscribe()

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case session := <-snapshots:
				event := Event{
					ID:        uuid.New().String(),
					Type:      EventTypeBattleUpdate,
					Timestamp: time.Now().Unix(),
					Payload:   battleUpdatePayload(session),
				}
				if !writeEvent(w, flusher, event) {
					return
				}

			case <-ticker.C:
				if !writeEvent(w, flusher, keepalive()) {
					return
				}
			}
		}
	}
}

func battleUpdatePayload(session *domain.DuelSession) BattleUpdatePayload {
	payload := BattleUpdatePayload{
		DuelID:    session.ID.String(),
		Status:    string(session.Status),
		LiveStats: make(map[string]BattleStatsEntry, len(session.LiveStats)),
	}
	for id, stats := range session.LiveStats {
		payload.LiveStats[id] = BattleStatsEntry{
			HP:           stats.HP,
			Progress:     stats.Progress,
			CurrentScore: stats.CurrentScore,
			Judgment:     string(stats.Judgment),
		}
	}
	if session.WinnerID != nil {
		payload.WinnerID = session.WinnerID.String()
	}
	return payload
}

func prepareStream(w http.ResponseWriter) (http.Flusher, bool) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return nil, false
	}
	return flusher, true
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event Event) bool {
	msg, err := FormatSSEMessage(event)
	if err != nil {
		slog.Error(LogMsgWriteError, "error", err)
		return true
	}
	if _, err := w.Write(msg); err != nil {
		slog.Warn(LogMsgWriteError, "error", err)
		return false
	}
	flusher.Flush()
	return true
}

func keepalive() Event {
	return Event{
		Type:      EventTypeKeepalive,
		Timestamp: time.Now().Unix(),
	}
}
