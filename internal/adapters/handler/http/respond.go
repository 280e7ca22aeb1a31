package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/peervote/api/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError maps the domain error taxonomy to HTTP statuses.
// Conflict and transport messages are passed through verbatim; they are
// rare and operator-facing. Unclassified errors are not leaked.
func respondError(w http.ResponseWriter, err error) {
	var (
		validation   *domain.ValidationError
		authz        *domain.AuthorizationError
		notFound     *domain.NotFoundError
		invalidState *domain.InvalidStateError
		conflict     *domain.ConflictError
		transport    *domain.TransportError
	)

	switch {
	case errors.As(err, &validation):
		http.Error(w, validation.Msg, http.StatusBadRequest)
	case errors.As(err, &authz):
		http.Error(w, authz.Msg, http.StatusForbidden)
	case errors.As(err, &notFound):
		http.Error(w, notFound.Msg, http.StatusNotFound)
	case errors.As(err, &invalidState):
		http.Error(w, invalidState.Msg, http.StatusConflict)
	case errors.As(err, &conflict):
		http.Error(w, conflict.Msg, http.StatusConflict)
	case errors.As(err, &transport):
		slog.Error("datastore failure", "error", err)
		http.Error(w, transport.Msg, http.StatusBadGateway)
	default:
		slog.Error("unhandled error", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
