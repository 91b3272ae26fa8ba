// Package effects totals the effects of a scene's selected options and scores
// them against the scene's expected outcome.
package effects

import (
	"math"

	"github.com/jwebster45206/dayscene/pkg/content"
)

// Scoring constants. The formula is linear: each matched expected effect is
// worth MaxPoints, minus PenaltyPerUnit for every unit of difference, floored at 0.
const (
	MaxPoints      = 100.0
	PenaltyPerUnit = 10.0
)

// Accumulate sums the effects of every selected option, keyed by effect name.
// The result is never nil; names that no selected option touches are absent.
func Accumulate(scene *content.Scene) map[string]float64 {
	totals := make(map[string]float64)
	if scene == nil {
		return totals
	}
	for _, opt := range scene.Options {
		if !opt.Selected {
			continue
		}
		for _, e := range opt.Effects {
			totals[e.Name] += e.Value
		}
	}
	return totals
}

// Match is the scoring detail for one expected effect.
type Match struct {
	Name     string  `json:"name"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	Matched  bool    `json:"matched"` // false when the effect was not accumulated at all
	Points   float64 `json:"points"`
}

// Breakdown scores each expected effect individually, in outcome order.
func Breakdown(accumulated map[string]float64, expected []content.Effect) []Match {
	matches := make([]Match, 0, len(expected))
	for _, exp := range expected {
		m := Match{Name: exp.Name, Expected: exp.Value}
		if actual, ok := accumulated[exp.Name]; ok {
			m.Actual = actual
			m.Matched = true
			diff := math.Abs(actual - exp.Value)
			m.Points = math.Max(0, MaxPoints-diff*PenaltyPerUnit)
		}
		matches = append(matches, m)
	}
	return matches
}

// Score returns the total points for accumulated effects against expected ones.
// There is no cap on the total; every matched expected effect adds up to MaxPoints.
func Score(accumulated map[string]float64, expected []content.Effect) float64 {
	total := 0.0
	for _, m := range Breakdown(accumulated, expected) {
		total += m.Points
	}
	return total
}
