package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/dayscene/pkg/game"
	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/jwebster45206/dayscene/pkg/state"
	"github.com/jwebster45206/dayscene/pkg/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// statusForError maps domain errors to HTTP status codes. ErrNotFound is
// checked first because failed loads wrap it inside save.ErrPersistence. Any
// other persistence failure is a 500, even when it wraps a rule error such as
// a restored cursor outside the content.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, save.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, state.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, game.ErrBadCommand), errors.Is(err, state.ErrOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
