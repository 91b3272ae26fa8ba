package game

import (
	"maps"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/pkg/content"
	"github.com/jwebster45206/dayscene/pkg/state"
)

// View is everything a client needs to draw the current screen. It is a copy;
// changing it does not affect the game.
type View struct {
	GameID      uuid.UUID           `json:"game_id"`
	Phase       string              `json:"phase"`
	Day         int                 `json:"day"` // zero-based
	DayCount    int                 `json:"day_count"`
	DayText     string              `json:"day_text,omitempty"`
	Scene       *SceneView          `json:"scene,omitempty"`
	Results     []state.SceneResult `json:"results,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	GlobalStats map[string]float64  `json:"global_stats"`
	TotalScore  float64             `json:"total_score"`
}

// SceneView is the display side of the current scene.
type SceneView struct {
	Index      int                `json:"index"` // zero-based
	Count      int                `json:"count"`
	BgImages   []string           `json:"bg_images"`
	FgText     string             `json:"fg_text"`
	Stats      map[string]float64 `json:"stats,omitempty"`
	ButtonText string             `json:"button_text"`
	Options    []OptionView       `json:"options"`
}

type OptionView struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Selected bool     `json:"selected"`
	Tooltip  []string `json:"tooltip,omitempty"`
}

func buildView(c *content.Content, gs *state.GameState) View {
	v := View{
		GameID:      gs.ID,
		Phase:       gs.Phase().String(),
		Day:         gs.DayIndex(),
		DayCount:    gs.DayCount(),
		GlobalStats: gs.GlobalStats(),
	}
	for _, day := range gs.DayResults() {
		v.TotalScore += state.TotalScore(day)
	}
	v.TotalScore += state.TotalScore(gs.CurrentDayResults())

	if day, err := gs.CurrentDay(); err == nil {
		v.DayText = day.Text
	}

	switch gs.Phase() {
	case state.PhaseInScene:
		scene, err := gs.CurrentScene()
		if err != nil {
			break
		}
		day, _ := gs.CurrentDay()
		sv := &SceneView{
			Index:      gs.SceneIndex(),
			Count:      len(day.Scenes),
			BgImages:   append([]string(nil), scene.BgImages...),
			FgText:     scene.FgText,
			Stats:      maps.Clone(scene.Stats),
			ButtonText: scene.ButtonText,
			Options:    make([]OptionView, len(scene.Options)),
		}
		for i, opt := range scene.Options {
			sv.Options[i] = OptionView{
				Index:    i,
				Text:     opt.Text,
				Selected: opt.Selected,
				Tooltip:  c.DescribeOption(opt),
			}
		}
		v.Scene = sv
	case state.PhaseDaySummary:
		v.Results = gs.CurrentDayResults()
		v.Summary = state.FormatDayResults(v.Results)
	}
	return v
}
