package state

import (
	"fmt"
	"time"
)

// Snapshot is the persisted part of a GameState. Content is not included; it is
// reloaded from its source and the snapshot is restored on top of it.
type Snapshot struct {
	CurrentDay        int                `json:"current_day" yaml:"current_day"`
	CurrentScene      int                `json:"current_scene" yaml:"current_scene"`
	GlobalStats       map[string]float64 `json:"global_stats" yaml:"global_stats"`
	DayResults        [][]SceneResult    `json:"day_results" yaml:"day_results"`
	CurrentDayResults []SceneResult      `json:"current_day_results,omitempty" yaml:"current_day_results,omitempty"`
}

// Snapshot returns a deep copy of the persisted fields.
func (gs *GameState) Snapshot() Snapshot {
	s := Snapshot{
		CurrentDay:   gs.dayIndex,
		CurrentScene: gs.sceneIndex,
		GlobalStats:  cloneStats(gs.globalStats),
		DayResults:   make([][]SceneResult, len(gs.dayResults)),
	}
	for i, day := range gs.dayResults {
		s.DayResults[i] = CloneResults(day)
	}
	if len(gs.currentDayResults) > 0 {
		s.CurrentDayResults = CloneResults(gs.currentDayResults)
	}
	return s
}

// Restore moves the cursor and results to those of s. It is meant for a
// GameState fresh from NewGameState; selections on past scenes are not
// rebuilt, they survive only as the results' selected option names. A
// snapshot without current-day results is accepted.
func (gs *GameState) Restore(s Snapshot) error {
	if err := gs.checkSnapshot(s); err != nil {
		return err
	}

	gs.dayIndex = s.CurrentDay
	gs.sceneIndex = s.CurrentScene
	gs.globalStats = cloneStats(s.GlobalStats)
	gs.dayResults = make([][]SceneResult, len(s.DayResults))
	for i, day := range s.DayResults {
		gs.dayResults[i] = CloneResults(day)
	}
	gs.currentDayResults = CloneResults(s.CurrentDayResults)
	gs.UpdatedAt = time.Now()
	return nil
}

func (gs *GameState) checkSnapshot(s Snapshot) error {
	days := len(gs.days)
	switch {
	case s.CurrentDay < 0 || s.CurrentScene < 0:
		return fmt.Errorf("%w: negative cursor (%d, %d)", ErrOutOfRange, s.CurrentDay, s.CurrentScene)
	case s.CurrentDay > days:
		return fmt.Errorf("%w: day %d of %d", ErrOutOfRange, s.CurrentDay, days)
	case s.CurrentDay == days && s.CurrentScene != 0:
		return fmt.Errorf("%w: scene %d after the last day", ErrOutOfRange, s.CurrentScene)
	case s.CurrentDay < days && s.CurrentScene > len(gs.days[s.CurrentDay].Scenes):
		return fmt.Errorf("%w: scene %d of %d on day %d", ErrOutOfRange, s.CurrentScene, len(gs.days[s.CurrentDay].Scenes), s.CurrentDay)
	}

	if len(s.DayResults) != s.CurrentDay {
		return fmt.Errorf("%w: %d day results for cursor day %d", ErrOutOfRange, len(s.DayResults), s.CurrentDay)
	}
	if n := len(s.CurrentDayResults); n != 0 && n != s.CurrentScene {
		return fmt.Errorf("%w: %d current day results for cursor scene %d", ErrOutOfRange, n, s.CurrentScene)
	}
	return nil
}
