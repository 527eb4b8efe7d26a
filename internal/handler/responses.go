package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rcsinavim/arena/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; nothing more we can do for the client.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgUnavailableError    = "Server is temporarily unavailable. Please try again later."
	ErrMsgDuelNotFoundError   = "Duel not found"
	ErrMsgDuelNotActiveError  = "Duel is not active"
	ErrMsgDuelCompletedError  = "Duel is already finished"
	ErrMsgNotAParticipantErr  = "You are not part of this duel"
	ErrMsgNotRefereeError     = "Only the challenger can judge answers"
	ErrMsgSelfChallengeError  = "You cannot challenge yourself"
	ErrMsgNoAnswerError       = "There is no answer to judge"
	ErrMsgAlreadyJudgedError  = "This answer was already judged"
	ErrMsgDeckNotFoundError   = "Deck not found"
	ErrMsgDeckEmptyError      = "Deck has no cards"
	ErrMsgUserNotFoundError   = "User not found"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
	ErrMsgMalformedStateError = "Battle state is malformed"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrDuelNotFound):
		return http.StatusNotFound, ErrMsgDuelNotFoundError
	case errors.Is(err, domain.ErrDeckNotFound):
		return http.StatusNotFound, ErrMsgDeckNotFoundError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrNotAParticipant):
		return http.StatusForbidden, ErrMsgNotAParticipantErr
	case errors.Is(err, domain.ErrNotReferee):
		return http.StatusForbidden, ErrMsgNotRefereeError
	case errors.Is(err, domain.ErrSelfChallenge):
		return http.StatusBadRequest, ErrMsgSelfChallengeError
	case errors.Is(err, domain.ErrDuelNotActive):
		return http.StatusConflict, ErrMsgDuelNotActiveError
	case errors.Is(err, domain.ErrDuelCompleted):
		return http.StatusConflict, ErrMsgDuelCompletedError
	case errors.Is(err, domain.ErrNoAnswerSubmitted):
		return http.StatusConflict, ErrMsgNoAnswerError
	case errors.Is(err, domain.ErrDuplicateJudgment):
		return http.StatusConflict, ErrMsgAlreadyJudgedError
	case errors.Is(err, domain.ErrDeckEmpty):
		return http.StatusBadRequest, ErrMsgDeckEmptyError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrMalformedBattleState):
		return http.StatusUnprocessableEntity, ErrMsgMalformedStateError
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return mapServiceErrorToUserMessage(unwrapped)
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs the underlying error and writes the mapped
// user-facing response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Service error", "operation", opName, "error", err)
	}
	respondError(w, status, message)
}
