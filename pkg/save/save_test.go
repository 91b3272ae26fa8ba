package save

import (
	"testing"

	"github.com/jwebster45206/dayscene/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() state.Snapshot {
	return state.Snapshot{
		CurrentDay:   1,
		CurrentScene: 1,
		GlobalStats:  map[string]float64{"gold": 25, "crew_morale": -1.5},
		DayResults: [][]state.SceneResult{
			{
				{SceneIndex: 0, SelectedOptions: []string{"A"}, Effects: map[string]float64{"gold": 10}, Score: 100},
				{SceneIndex: 1, SelectedOptions: []string{}, Effects: map[string]float64{}, Score: 0},
			},
		},
		CurrentDayResults: []state.SceneResult{
			{SceneIndex: 0, SelectedOptions: []string{"A", "B"}, Effects: map[string]float64{"gold": 15, "crew_morale": -1.5}, Score: 50},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, f := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			want := sampleSnapshot()

			data, err := Save(want, f)
			require.NoError(t, err)

			got, err := Load(data, f)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSaveLoad_FreshSnapshot(t *testing.T) {
	for _, f := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Save(state.Snapshot{}, f)
			require.NoError(t, err)

			got, err := Load(data, f)
			require.NoError(t, err)
			assert.Equal(t, state.Snapshot{
				GlobalStats: map[string]float64{},
				DayResults:  [][]state.SceneResult{},
			}, got)
		})
	}
}

func TestSave_WritesSchemaKeys(t *testing.T) {
	data, err := Save(sampleSnapshot(), FormatYAML)
	require.NoError(t, err)

	record, err := LoadRecord(data, FormatYAML)
	require.NoError(t, err)
	for _, key := range []string{"current_day", "current_scene", "global_stats", "day_results", "current_day_results"} {
		assert.Contains(t, record, key)
	}
}

func TestLoad_MinimalRecord(t *testing.T) {
	yamlBlob := []byte(`current_day: 1
current_scene: 0
global_stats:
  gold: 10
day_results:
  - - scene_index: 0
      selected_options: [A]
      effects: {gold: 10}
      score: 100
`)
	jsonBlob := []byte(`{"current_day": 1, "current_scene": 0, "global_stats": {"gold": 10},
"day_results": [[{"scene_index": 0, "selected_options": ["A"], "effects": {"gold": 10}, "score": 100}]]}`)

	want := state.Snapshot{
		CurrentDay:   1,
		GlobalStats:  map[string]float64{"gold": 10},
		DayResults:   [][]state.SceneResult{{{SceneIndex: 0, SelectedOptions: []string{"A"}, Effects: map[string]float64{"gold": 10}, Score: 100}}},
	}

	got, err := Load(yamlBlob, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = Load(jsonBlob, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "empty yaml", data: "", format: FormatYAML},
		{name: "empty json", data: "", format: FormatJSON},
		{name: "not a mapping", data: "- 1\n- 2\n", format: FormatYAML},
		{name: "garbage json", data: "{not json", format: FormatJSON},
		{name: "missing current_day", data: "current_scene: 0\nglobal_stats: {}\nday_results: []\n", format: FormatYAML},
		{name: "missing current_scene", data: "current_day: 0\nglobal_stats: {}\nday_results: []\n", format: FormatYAML},
		{name: "missing global_stats", data: `{"current_day": 0, "current_scene": 0, "day_results": []}`, format: FormatJSON},
		{name: "missing day_results", data: `{"current_day": 0, "current_scene": 0, "global_stats": {}}`, format: FormatJSON},
		{name: "null day_results", data: "current_day: 0\ncurrent_scene: 0\nglobal_stats: {}\nday_results:\n", format: FormatYAML},
		{name: "wrong type", data: "current_day: monday\ncurrent_scene: 0\nglobal_stats: {}\nday_results: []\n", format: FormatYAML},
		{name: "stats not a mapping", data: `{"current_day": 0, "current_scene": 0, "global_stats": [1], "day_results": []}`, format: FormatJSON},
		{name: "negative day", data: "current_day: -1\ncurrent_scene: 0\nglobal_stats: {}\nday_results: []\n", format: FormatYAML},
		{name: "negative scene", data: `{"current_day": 0, "current_scene": -2, "global_stats": {}, "day_results": []}`, format: FormatJSON},
		{name: "unknown format", data: "current_day: 0", format: Format("toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, ErrPersistence)
		})
	}
}

func TestSave_Errors(t *testing.T) {
	_, err := Save(state.Snapshot{CurrentDay: -1}, FormatYAML)
	assert.ErrorIs(t, err, ErrPersistence)

	_, err = Save(sampleSnapshot(), Format("xml"))
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatYAML},
		{in: "yaml", want: FormatYAML},
		{in: "YML", want: FormatYAML},
		{in: " json ", want: FormatJSON},
		{in: "toml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	assert.Equal(t, ".yaml", FormatYAML.Ext())
	assert.Equal(t, ".json", FormatJSON.Ext())
}
