package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON request body, validates it, and
// returns appropriate errors. If it returns an error, the HTTP response
// has already been written and the handler should return.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		validationErrs := FormatValidationError(err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: validationErrs,
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetQueryParam retrieves a required query parameter. If the parameter is
// missing, the error response has already been written when ok is false.
func GetQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	log := logger.FromContext(r.Context())
	value := r.URL.Query().Get(paramName)
	if value == "" {
		log.Warn(fmt.Sprintf("Missing %s query parameter", paramName))
		http.Error(w, fmt.Sprintf(ErrMsgMissingQueryParam, paramName), http.StatusBadRequest)
		return "", false
	}
	return value, true
}

// GetUUIDQueryParam retrieves and parses a required UUID query parameter.
func GetUUIDQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (uuid.UUID, bool) {
	value, ok := GetQueryParam(r, w, paramName)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		http.Error(w, fmt.Sprintf(ErrMsgInvalidUUIDParam, paramName), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// GetUUIDURLParam parses a chi URL parameter as a UUID.
func GetUUIDURLParam(r *http.Request, w http.ResponseWriter, paramName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		http.Error(w, fmt.Sprintf(ErrMsgInvalidUUIDParam, paramName), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// URLParamUUID parses a chi URL parameter as a UUID without writing a
// response; used by stream handlers that manage their own errors.
func URLParamUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, paramName))
}

// parseUUIDField parses a UUID string from a validated request body field.
func parseUUIDField(w http.ResponseWriter, value, fieldName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		http.Error(w, fmt.Sprintf(ErrMsgInvalidUUIDParam, fieldName), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
