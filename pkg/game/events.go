package game

import (
	"context"

	"github.com/google/uuid"
)

// EventType names a progression event.
type EventType string

const (
	EventSceneSubmitted EventType = "scene.submitted"
	EventDayAdvanced    EventType = "day.advanced"
	EventGameComplete   EventType = "game.complete"
	EventGameSaved      EventType = "game.saved"
	EventGameLoaded     EventType = "game.loaded"
)

// Event describes a state change that already happened.
type Event struct {
	Type   EventType      `json:"type"`
	GameID uuid.UUID      `json:"game_id"`
	Day    int            `json:"day"`
	Scene  int            `json:"scene"`
	Data   map[string]any `json:"data,omitempty"`
}

// Publisher receives events from a Controller. Publish errors are logged and
// never fail the command that caused the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
