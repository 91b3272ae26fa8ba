package state

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/pkg/content"
	"github.com/jwebster45206/dayscene/pkg/effects"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrOutOfRange is returned when a day, scene, or option index is invalid.
	ErrOutOfRange = errors.New("index out of range")
)

// Phase is the progression state derived from the cursor.
type Phase int

const (
	PhaseInScene    Phase = iota // Playing scene (day, scene)
	PhaseDaySummary              // Every scene of the day is submitted
	PhaseComplete                // Every day is done; terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseInScene:
		return "in_scene"
	case PhaseDaySummary:
		return "day_summary"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// GameState is the progression cursor for one playthrough, plus the results it
// has produced. Days is borrowed from the loaded content and never copied; the
// cursor and results only change through ToggleOption, Submit, AdvanceDay and
// Restore. Every operation either applies completely or returns an error
// without changing anything.
type GameState struct {
	ID        uuid.UUID `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`

	days              []content.Day
	dayIndex          int
	sceneIndex        int
	globalStats       map[string]float64
	dayResults        [][]SceneResult
	currentDayResults []SceneResult
}

// NewGameState starts a playthrough at the first scene of the first day.
func NewGameState(c *content.Content) *GameState {
	gs := &GameState{
		ID:                uuid.New(),
		UpdatedAt:         time.Now(),
		globalStats:       make(map[string]float64),
		dayResults:        make([][]SceneResult, 0),
		currentDayResults: make([]SceneResult, 0),
	}
	if c != nil {
		gs.days = c.Days
	}
	return gs
}

// Phase derives the current phase from the cursor.
func (gs *GameState) Phase() Phase {
	if gs.dayIndex >= len(gs.days) {
		return PhaseComplete
	}
	if gs.dayIndex >= 0 && gs.sceneIndex >= len(gs.days[gs.dayIndex].Scenes) {
		return PhaseDaySummary
	}
	return PhaseInScene
}

func (gs *GameState) DayIndex() int   { return gs.dayIndex }
func (gs *GameState) SceneIndex() int { return gs.sceneIndex }
func (gs *GameState) DayCount() int   { return len(gs.days) }

// GlobalStats returns a copy of the running stat totals.
func (gs *GameState) GlobalStats() map[string]float64 {
	return maps.Clone(gs.globalStats)
}

// DayResults returns a copy of the results of every finished day.
func (gs *GameState) DayResults() [][]SceneResult {
	out := make([][]SceneResult, len(gs.dayResults))
	for i, day := range gs.dayResults {
		out[i] = CloneResults(day)
	}
	return out
}

// CurrentDayResults returns a copy of the results submitted so far on the
// current day.
func (gs *GameState) CurrentDayResults() []SceneResult {
	return CloneResults(gs.currentDayResults)
}

// CurrentDay returns the day under the cursor.
func (gs *GameState) CurrentDay() (*content.Day, error) {
	if gs.dayIndex < 0 || gs.dayIndex >= len(gs.days) {
		return nil, fmt.Errorf("%w: day %d of %d", ErrOutOfRange, gs.dayIndex, len(gs.days))
	}
	return &gs.days[gs.dayIndex], nil
}

// CurrentScene returns the scene under the cursor.
func (gs *GameState) CurrentScene() (*content.Scene, error) {
	day, err := gs.CurrentDay()
	if err != nil {
		return nil, err
	}
	if gs.sceneIndex < 0 || gs.sceneIndex >= len(day.Scenes) {
		return nil, fmt.Errorf("%w: scene %d of %d on day %d", ErrOutOfRange, gs.sceneIndex, len(day.Scenes), gs.dayIndex)
	}
	return &day.Scenes[gs.sceneIndex], nil
}

// ToggleOption flips the selection of option i in the current scene.
func (gs *GameState) ToggleOption(i int) error {
	if p := gs.Phase(); p != PhaseInScene {
		return fmt.Errorf("%w: cannot toggle options during %s", ErrInvalidTransition, p)
	}
	scene, err := gs.CurrentScene()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(scene.Options) {
		return fmt.Errorf("%w: option %d of %d", ErrOutOfRange, i, len(scene.Options))
	}
	scene.Options[i].Selected = !scene.Options[i].Selected
	gs.UpdatedAt = time.Now()
	return nil
}

// Submit scores the current scene's selections, records the result and moves
// the cursor to the next scene. After the last scene of a day the phase
// becomes PhaseDaySummary.
func (gs *GameState) Submit() (SceneResult, error) {
	if p := gs.Phase(); p != PhaseInScene {
		return SceneResult{}, fmt.Errorf("%w: cannot submit during %s", ErrInvalidTransition, p)
	}
	scene, err := gs.CurrentScene()
	if err != nil {
		return SceneResult{}, err
	}
	if scene.Submitted() {
		return SceneResult{}, fmt.Errorf("%w: scene %d of day %d already submitted", ErrInvalidTransition, gs.sceneIndex, gs.dayIndex)
	}

	accumulated := effects.Accumulate(scene)
	result := SceneResult{
		SceneIndex:      gs.sceneIndex,
		SelectedOptions: scene.SelectedOptions(),
		Effects:         maps.Clone(accumulated),
		Score:           effects.Score(accumulated, scene.Outcome.Expected),
	}

	scene.CalculatedEffects = accumulated
	gs.currentDayResults = append(gs.currentDayResults, result)
	for name, value := range accumulated {
		gs.globalStats[name] += value
	}
	gs.sceneIndex++
	gs.UpdatedAt = time.Now()

	return result.clone(), nil
}

// AdvanceDay files the finished day's results and moves to the next day, or to
// PhaseComplete after the last day.
func (gs *GameState) AdvanceDay() error {
	if p := gs.Phase(); p != PhaseDaySummary {
		return fmt.Errorf("%w: cannot advance day during %s", ErrInvalidTransition, p)
	}

	gs.dayResults = append(gs.dayResults, gs.currentDayResults)
	gs.currentDayResults = make([]SceneResult, 0)
	gs.dayIndex++
	gs.sceneIndex = 0
	gs.UpdatedAt = time.Now()
	return nil
}
