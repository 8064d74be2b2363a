package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
}

// statusFor maps err to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, crewerrors.ErrEmptyValue),
		errors.Is(err, crewerrors.ErrInvalidTeam),
		errors.Is(err, crewerrors.ErrInvalidWorkflow):
		return http.StatusBadRequest
	case errors.Is(err, crewerrors.ErrTeamNotFound),
		errors.Is(err, crewerrors.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, crewerrors.ErrGenerationAlreadyTriggered):
		return http.StatusConflict
	case errors.Is(err, crewerrors.ErrUpstreamUnavailable),
		errors.Is(err, crewerrors.ErrMalformedGenerationOutput):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeJSONError sends a JSON body {"error": "message"} with the given status code.
func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorBody{Error: message})
}

// writeError logs err and answers with its status and user-facing message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if code >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", code).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", code).Msg("request rejected")
	}
	msg, action := crewerrors.Actionable(err)
	writeJSON(w, code, errorBody{Error: msg, Action: action})
}

// decodeJSON reads a JSON body into v and answers the request on failure.
// It returns false when a response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		writeJSONError(w, http.StatusBadRequest, "request body required")
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid json")
	}
	return false
}
