package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/middleware"
)

// Error is the JSON body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &validation), errors.Is(err, domain.ErrNoParams):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrStale):
		return http.StatusConflict
	case domain.IsUpstreamError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage keeps upstream internals out of responses: upstream failures
// surface the same text a user would see in the error banner.
func errorMessage(err error, status int) string {
	if status == http.StatusBadGateway {
		return domain.UserMessage(err)
	}
	if status == http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	logger := middleware.LoggerFromContext(r.Context())
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed", "status", status, "error", err)
	writeJSON(w, status, Error{Code: status, Message: errorMessage(err, status)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
