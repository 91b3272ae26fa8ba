package state

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SceneResult records one scene submission. It is not modified after creation.
type SceneResult struct {
	SceneIndex      int                `json:"scene_index" yaml:"scene_index"`
	SelectedOptions []string           `json:"selected_options" yaml:"selected_options"`
	Effects         map[string]float64 `json:"effects" yaml:"effects"`
	Score           float64            `json:"score" yaml:"score"`
}

func (r SceneResult) clone() SceneResult {
	return SceneResult{
		SceneIndex:      r.SceneIndex,
		SelectedOptions: append(make([]string, 0, len(r.SelectedOptions)), r.SelectedOptions...),
		Effects:         cloneStats(r.Effects),
		Score:           r.Score,
	}
}

// CloneResults deep-copies results, including each result's option names and
// effects.
func CloneResults(results []SceneResult) []SceneResult {
	out := make([]SceneResult, len(results))
	for i, r := range results {
		out[i] = r.clone()
	}
	return out
}

func cloneStats(stats map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(stats))
	maps.Copy(out, stats)
	return out
}

// TotalScore sums the scores of results.
func TotalScore(results []SceneResult) float64 {
	total := 0.0
	for _, r := range results {
		total += r.Score
	}
	return total
}

// DisplayName turns an effect key such as "crew_morale" into "Crew Morale".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// FormatDayResults renders a day's results as plain text for a summary screen.
func FormatDayResults(results []SceneResult) string {
	var b strings.Builder
	b.WriteString("Today's Results:\n\n")

	for _, r := range results {
		fmt.Fprintf(&b, "Scene %d:\n", r.SceneIndex+1)
		fmt.Fprintf(&b, "  Options selected: %s\n", strings.Join(r.SelectedOptions, ", "))

		if len(r.Effects) > 0 {
			b.WriteString("  Effects:\n")
			for _, name := range slices.Sorted(maps.Keys(r.Effects)) {
				fmt.Fprintf(&b, "    %s: %+.1f\n", DisplayName(name), r.Effects[name])
			}
		}
		fmt.Fprintf(&b, "  Score: %.1f\n\n", r.Score)
	}

	fmt.Fprintf(&b, "Total Score: %.1f", TotalScore(results))
	return b.String()
}
