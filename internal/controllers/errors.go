package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stateflowhq/stateflow/internal/engine"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// writeEngineError maps the engine error taxonomy onto HTTP status codes:
// invalid ids and bad payloads are 400, missing entities 404, and attempts
// to advance an inactive instance or fire an unavailable action 409.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidID), errors.Is(err, engine.ErrInvalidDefinition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, engine.ErrDefinitionNotFound), errors.Is(err, engine.ErrInstanceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrNotActive), errors.Is(err, engine.ErrActionNotAvailable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
