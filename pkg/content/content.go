package content

import "slices"

// Effect is a named stat delta.
type Effect struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// EffectDefinition is a named, described group of effects. Definitions are used
// for descriptive text only; scoring never reads them.
type EffectDefinition struct {
	Name    string   `json:"name"`
	Text    string   `json:"text"`
	Effects []Effect `json:"effects,omitempty"`
}

// Option is a player-selectable choice. Selected is the only runtime field.
type Option struct {
	Name     string   `json:"name"`
	Text     string   `json:"text"`
	Effects  []Effect `json:"effects,omitempty"`
	Selected bool     `json:"selected"`
}

// Clone returns an independent copy of the option with Selected cleared.
func (o Option) Clone() Option {
	return Option{
		Name:    o.Name,
		Text:    o.Text,
		Effects: slices.Clone(o.Effects),
	}
}

// SceneOutcome holds the effect values a scene's choices are scored against.
type SceneOutcome struct {
	Expected []Effect `json:"expected"`
}

// Scene is a single decision point within a day.
type Scene struct {
	BgImages          []string           `json:"bg_images"`                    // Background image references, back to front
	FgText            string             `json:"fg_text"`                      // Foreground narrative text
	Stats             map[string]float64 `json:"stats,omitempty"`              // Display-only stats authored with the scene
	Options           []Option           `json:"options"`                      // Authoring order is display order
	ButtonText        string             `json:"button_text"`                  // Label for the submit action
	Outcome           SceneOutcome       `json:"outcome"`                      // Expected effects for scoring
	CalculatedEffects map[string]float64 `json:"calculated_effects,omitempty"` // Set once, when the scene is submitted
}

// Submitted reports whether the scene's effects have been calculated.
func (s *Scene) Submitted() bool {
	return s.CalculatedEffects != nil
}

// SelectedOptions returns the names of the selected options in authoring order.
func (s *Scene) SelectedOptions() []string {
	names := make([]string, 0, len(s.Options))
	for _, opt := range s.Options {
		if opt.Selected {
			names = append(names, opt.Name)
		}
	}
	return names
}

// Day is an ordered run of scenes.
type Day struct {
	Text   string  `json:"text"`
	Scenes []Scene `json:"scenes"`
}

// Content is the fully loaded game data for a playthrough.
type Content struct {
	Effects  map[string]EffectDefinition `json:"effects"`            // Effect definitions by name
	Options  map[string]Option           `json:"options"`            // Option templates by name; never selected
	Days     []Day                       `json:"days"`               // Days in play order
	Warnings []string                    `json:"warnings,omitempty"` // Problems tolerated by a lenient load
}

// DayCount returns the number of days.
func (c *Content) DayCount() int {
	return len(c.Days)
}

// SceneCount returns the total number of scenes across all days.
func (c *Content) SceneCount() int {
	n := 0
	for _, d := range c.Days {
		n += len(d.Scenes)
	}
	return n
}

// EffectDefinition looks up a definition by name.
func (c *Content) EffectDefinition(name string) (EffectDefinition, bool) {
	def, ok := c.Effects[name]
	return def, ok
}

// DescribeOption returns the definition text for each distinct effect on the
// option that has a definition, in the option's effect order.
func (c *Content) DescribeOption(opt Option) []string {
	var lines []string
	seen := make(map[string]bool)
	for _, e := range opt.Effects {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		if def, ok := c.EffectDefinition(e.Name); ok && def.Text != "" {
			lines = append(lines, def.Text)
		}
	}
	return lines
}
