package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	// Header logging only happens at debug level
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	handler := loggingMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/flashcards/duel", nil)
	req.Header.Set(HeaderAPIKey, "arena-key-941")
	req.Header.Set(HeaderAuthorization, "Bearer duel-token")
	req.Header.Set("User-Agent", "ArenaMobile/2.1")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "arena-key-941")
	assert.NotContains(t, out, "duel-token")
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, "ArenaMobile/2.1")
}

func TestLoggingMiddleware_SkipsHealthEndpoints(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	handler := loggingMiddleware(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Empty(t, buf.String())
}
