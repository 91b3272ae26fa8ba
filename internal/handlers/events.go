package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/internal/logger"
	"github.com/jwebster45206/dayscene/pkg/game"
)

const keepaliveInterval = 30 * time.Second

// EventSource streams a game's events until ctx ends.
type EventSource interface {
	Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan game.Event, error)
}

// handleEvents serves GET /v1/games/{id}/events as Server-Sent Events.
func (h *GameHandler) handleEvents(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	log := logger.WithGameID(h.logger, id.String())

	if h.events == nil {
		writeError(w, h.logger, http.StatusNotImplemented, "Event streaming is not enabled")
		return
	}

	events, err := h.events.Subscribe(r.Context(), id)
	if err != nil {
		logger.WithError(log, err).Error("Failed to subscribe to events")
		writeError(w, h.logger, http.StatusServiceUnavailable, "Event stream unavailable")
		return
	}

	// Streams outlive the server's write timeout, if one is set
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("Write deadline not cleared", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	log.Info("SSE connection established", "remote_addr", r.RemoteAddr)

	if err := sendSSE(w, log, "connected", map[string]any{"game_id": id.String()}); err != nil {
		return
	}

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Info("SSE client disconnected")
			return
		case event, ok := <-events:
			if !ok {
				log.Debug("Event stream ended")
				return
			}
			if err := sendSSE(w, log, string(event.Type), event); err != nil {
				return
			}
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				logger.WithError(log, err).Debug("Failed to write keepalive")
				return
			}
			if err := flush(w); err != nil {
				return
			}
		}
	}
}

func sendSSE(w http.ResponseWriter, log *slog.Logger, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.WithError(log, err).Error("Failed to marshal SSE data")
		return nil
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload); err != nil {
		logger.WithError(log, err).Debug("Failed to write event", "event_type", eventType)
		return err
	}
	return flush(w)
}

// flush pushes buffered output to the client, unwrapping middleware writers.
func flush(w http.ResponseWriter) error {
	return http.NewResponseController(w).Flush()
}
