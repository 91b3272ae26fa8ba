package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"testing/fstest"

	"github.com/jwebster45206/dayscene/pkg/content"
	"github.com/jwebster45206/dayscene/pkg/game"
	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/jwebster45206/dayscene/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testContentFS() fstest.MapFS {
	return fstest.MapFS{
		content.EffectsFile: {Data: []byte("- name: gold\n  text: Coins.\n")},
		content.OptionsFile: {Data: []byte(`
- name: a
  text: Option A
  effects:
    - name: gold
      value: 10
- name: b
  text: Option B
  effects:
    - name: gold
      value: 5
`)},
		content.DaysFile: {Data: []byte(`
- text: Only Day
  scenes:
    - bg_images: [dock.png]
      fg_text: First.
      options: [a, b]
      button_text: Go
      outcome:
        expected:
          - name: gold
            value: 10
`)},
	}
}

func newTestSessions(store storage.SaveStore) *game.Sessions {
	loader := content.NewLoader(testContentFS(), testLogger())
	return game.NewSessions(func() (*game.Controller, error) {
		return game.New(loader, store, save.FormatYAML, testLogger())
	})
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}
