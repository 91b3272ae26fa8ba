package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/internal/logger"
	"github.com/jwebster45206/dayscene/pkg/game"
)

const maxCommandBytes = 1 << 16

type GameHandler struct {
	sessions *game.Sessions
	events   EventSource
	logger   *slog.Logger
}

func NewGameHandler(sessions *game.Sessions, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// WithEvents enables GET /v1/games/{id}/events, streamed from src.
func (h *GameHandler) WithEvents(src EventSource) *GameHandler {
	h.events = src
	return h
}

// CommandRequest is the body of POST /v1/games/{id}/commands. Either Input
// holds console text such as "toggle 2", or the command fields are set
// directly with a zero-based option index.
type CommandRequest struct {
	Input string `json:"input,omitempty"`
	game.Command
}

// ServeHTTP handles HTTP requests for games
// Routes:
// POST /v1/games                - Start a new game
// GET /v1/games/{id}            - Current view of a game
// POST /v1/games/{id}/commands  - Apply a command
// GET /v1/games/{id}/events     - Server-sent progression events
// DELETE /v1/games/{id}         - End a game
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/games"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w)
		return
	}

	parts := strings.Split(path, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid game ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}
	ctrl, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "Game not found")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		writeJSON(w, h.logger, http.StatusOK, ctrl.View())
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.sessions.Delete(id)
		logger.WithGameID(h.logger, id.String()).Info("Game ended")
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "commands" && r.Method == http.MethodPost:
		h.handleCommand(w, r, ctrl)
	case len(parts) == 2 && parts[1] == "events" && r.Method == http.MethodGet:
		h.handleEvents(w, r, id)
	case len(parts) <= 2:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *GameHandler) handleCreate(w http.ResponseWriter) {
	ctrl, err := h.sessions.Create()
	if err != nil {
		logger.WithError(h.logger, err).Error("Failed to start game")
		writeError(w, h.logger, statusForError(err), "Failed to start game: "+err.Error())
		return
	}
	logger.WithGameID(h.logger, ctrl.ID().String()).Info("Game started")
	writeJSON(w, h.logger, http.StatusCreated, ctrl.View())
}

func (h *GameHandler) handleCommand(w http.ResponseWriter, r *http.Request, ctrl *game.Controller) {
	var req CommandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBytes)).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cmd := req.Command
	if req.Input != "" {
		parsed, err := game.ParseCommand(req.Input)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		cmd = parsed
	}

	view, err := ctrl.Dispatch(r.Context(), cmd)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			log := logger.WithGameID(h.logger, view.GameID.String())
			logger.WithError(log, err).Error("Command failed", "command", cmd.Type)
		}
		writeError(w, h.logger, status, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusOK, view)
}
