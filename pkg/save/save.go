// Package save encodes game snapshots into save blobs and decodes them back.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/dayscene/pkg/state"
	"gopkg.in/yaml.v3"
)

// ErrPersistence is returned when a snapshot cannot be encoded, or a blob is
// not a readable save.
var ErrPersistence = errors.New("persistence error")

// Format selects the encoding of a save blob.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// requiredKeys must be present in every save record.
var requiredKeys = []string{"current_day", "current_scene", "global_stats", "day_results"}

// ParseFormat resolves a format name. An empty name means YAML.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown save format %q", name)
	}
}

// Ext returns the file extension for blobs of this format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// Save encodes s.
func Save(s state.Snapshot, f Format) ([]byte, error) {
	if s.CurrentDay < 0 || s.CurrentScene < 0 {
		return nil, fmt.Errorf("%w: negative cursor (%d, %d)", ErrPersistence, s.CurrentDay, s.CurrentScene)
	}
	normalize(&s)

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatYAML:
		data, err = yaml.Marshal(s)
	case FormatJSON:
		data, err = json.MarshalIndent(s, "", "  ")
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrPersistence, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode snapshot: %v", ErrPersistence, err)
	}
	return data, nil
}

// Load decodes a blob written by Save. The minimal four-key record without
// current_day_results is accepted.
func Load(data []byte, f Format) (state.Snapshot, error) {
	if _, err := LoadRecord(data, f); err != nil {
		return state.Snapshot{}, err
	}

	var s state.Snapshot
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("%w: failed to decode snapshot: %v", ErrPersistence, err)
	}
	if s.CurrentDay < 0 || s.CurrentScene < 0 {
		return state.Snapshot{}, fmt.Errorf("%w: negative cursor (%d, %d)", ErrPersistence, s.CurrentDay, s.CurrentScene)
	}

	normalize(&s)
	return s, nil
}

// LoadRecord decodes a blob into its raw mapping and checks that every
// required key is present.
func LoadRecord(data []byte, f Format) (map[string]any, error) {
	var record map[string]any
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &record)
	case FormatJSON:
		err = json.Unmarshal(data, &record)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrPersistence, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse save: %v", ErrPersistence, err)
	}

	var missing []string
	for _, key := range requiredKeys {
		if v, ok := record[key]; !ok || v == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing keys %s", ErrPersistence, strings.Join(missing, ", "))
	}
	return record, nil
}

// normalize replaces nil collections with empty ones so that encoded saves
// never carry nulls and decoded snapshots compare equal to the originals.
func normalize(s *state.Snapshot) {
	if s.GlobalStats == nil {
		s.GlobalStats = map[string]float64{}
	}
	if s.DayResults == nil {
		s.DayResults = [][]state.SceneResult{}
	}
	for i := range s.DayResults {
		if s.DayResults[i] == nil {
			s.DayResults[i] = []state.SceneResult{}
		}
		normalizeResults(s.DayResults[i])
	}
	if len(s.CurrentDayResults) == 0 {
		s.CurrentDayResults = nil
	}
	normalizeResults(s.CurrentDayResults)
}

func normalizeResults(results []state.SceneResult) {
	for i := range results {
		if results[i].SelectedOptions == nil {
			results[i].SelectedOptions = []string{}
		}
		if results[i].Effects == nil {
			results[i].Effects = map[string]float64{}
		}
	}
}
