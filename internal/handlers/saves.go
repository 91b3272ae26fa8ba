package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/dayscene/pkg/storage"
)

type SavesHandler struct {
	store  storage.SaveStore
	logger *slog.Logger
}

func NewSavesHandler(store storage.SaveStore, logger *slog.Logger) *SavesHandler {
	return &SavesHandler{
		store:  store,
		logger: logger,
	}
}

// ServeHTTP handles HTTP requests for save slots
// Routes:
// GET /v1/saves            - List save slots
// DELETE /v1/saves/{slot}  - Delete a save slot
func (h *SavesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slot := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/saves"), "/")

	switch {
	case slot == "" && r.Method == http.MethodGet:
		saves, err := h.store.ListSaves(r.Context())
		if err != nil {
			h.logger.Error("Failed to list saves", "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to list saves")
			return
		}
		writeJSON(w, h.logger, http.StatusOK, saves)

	case slot != "" && r.Method == http.MethodDelete:
		if err := storage.ValidateSlot(slot); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.store.DeleteSave(r.Context(), slot); err != nil {
			status := statusForError(err)
			if status >= http.StatusInternalServerError {
				h.logger.Error("Failed to delete save", "slot", slot, "error", err)
			}
			writeError(w, h.logger, status, err.Error())
			return
		}
		h.logger.Info("Save deleted", "slot", slot)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
