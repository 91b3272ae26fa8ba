package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog and manifest file names, relative to the content root.
const (
	EffectsFile = "effects.yaml"
	OptionsFile = "options.yaml"
	DaysFile    = "days.yaml"
)

var (
	// ErrContentNotFound is returned when a content file is missing or unreadable.
	ErrContentNotFound = errors.New("content not found")
	// ErrMalformedContent is returned when a record is unparseable or lacks a required field.
	ErrMalformedContent = errors.New("malformed content")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedContent}, args...)...)
}

// Loader builds Content from YAML files in a filesystem.
// In lenient mode (the default) unknown option references and duplicate catalog
// names are tolerated and reported in Content.Warnings; Strict turns them into
// ErrMalformedContent.
type Loader struct {
	fsys   fs.FS
	logger *slog.Logger
	Strict bool
}

// NewLoader creates a loader reading from fsys.
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fsys:   fsys,
		logger: logger,
	}
}

// NewDirLoader creates a loader rooted at a directory on disk.
func NewDirLoader(dir string, logger *slog.Logger) *Loader {
	if dir == "" {
		dir = "./data"
	}
	return NewLoader(os.DirFS(dir), logger)
}

// build carries the state of a single Load call.
type build struct {
	*Loader
	content *Content
}

// Load reads every catalog and the days manifest. It either returns a complete
// Content or an error; partial content is never returned. Each call produces an
// independent Content.
func (l *Loader) Load() (*Content, error) {
	b := &build{
		Loader: l,
		content: &Content{
			Effects: make(map[string]EffectDefinition),
			Options: make(map[string]Option),
		},
	}

	if err := b.loadEffects(); err != nil {
		return nil, err
	}
	if err := b.loadOptions(); err != nil {
		return nil, err
	}
	if err := b.loadDays(); err != nil {
		return nil, err
	}

	l.logger.Debug("Content loaded",
		"effects", len(b.content.Effects),
		"options", len(b.content.Options),
		"days", b.content.DayCount(),
		"scenes", b.content.SceneCount(),
		"warnings", len(b.content.Warnings))
	return b.content, nil
}

func (l *Loader) readYAML(name string, out any) error {
	if !fs.ValidPath(name) {
		return malformed("invalid content path %q", name)
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrContentNotFound, name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return malformed("%s: %v", name, err)
	}
	return nil
}

// warn records a tolerated problem, or fails in strict mode.
func (b *build) warn(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if b.Strict {
		return malformed("%s", msg)
	}
	b.logger.Warn("Content problem ignored", "problem", msg)
	b.content.Warnings = append(b.content.Warnings, msg)
	return nil
}

func (b *build) loadEffects() error {
	var records []catalogRecord
	if err := b.readYAML(EffectsFile, &records); err != nil {
		return err
	}
	for i, r := range records {
		name, text, effects, err := r.fields(fmt.Sprintf("%s: definition %d", EffectsFile, i+1))
		if err != nil {
			return err
		}
		if _, dup := b.content.Effects[name]; dup {
			if err := b.warn("%s: duplicate effect definition %q", EffectsFile, name); err != nil {
				return err
			}
		}
		b.content.Effects[name] = EffectDefinition{Name: name, Text: text, Effects: effects}
	}
	return nil
}

func (b *build) loadOptions() error {
	var records []catalogRecord
	if err := b.readYAML(OptionsFile, &records); err != nil {
		return err
	}
	for i, r := range records {
		name, text, effects, err := r.fields(fmt.Sprintf("%s: option %d", OptionsFile, i+1))
		if err != nil {
			return err
		}
		if _, dup := b.content.Options[name]; dup {
			if err := b.warn("%s: duplicate option %q", OptionsFile, name); err != nil {
				return err
			}
		}
		b.content.Options[name] = Option{Name: name, Text: text, Effects: effects}
	}
	return nil
}

func (b *build) loadDays() error {
	var records []dayRecord
	if err := b.readYAML(DaysFile, &records); err != nil {
		return err
	}
	if len(records) == 0 {
		return malformed("%s: no days defined", DaysFile)
	}

	days := make([]Day, 0, len(records))
	for i, r := range records {
		where := fmt.Sprintf("%s: day %d", DaysFile, i+1)
		if r.Text == nil {
			return malformed("%s: missing text", where)
		}
		if r.Scenes == nil || len(*r.Scenes) == 0 {
			return malformed("%s: no scenes", where)
		}

		scenes := make([]Scene, 0, len(*r.Scenes))
		for j, entry := range *r.Scenes {
			scene, err := b.resolveScene(entry, fmt.Sprintf("%s scene %d", where, j+1))
			if err != nil {
				return err
			}
			scenes = append(scenes, scene)
		}
		days = append(days, Day{Text: *r.Text, Scenes: scenes})
	}
	b.content.Days = days
	return nil
}

// resolveScene turns either scene entry form into a Scene.
func (b *build) resolveScene(entry sceneEntry, where string) (Scene, error) {
	if entry.Inline != nil {
		return b.buildScene(*entry.Inline, where)
	}

	if strings.TrimSpace(entry.File) == "" {
		return Scene{}, malformed("%s: empty scene file reference", where)
	}
	file := path.Clean(strings.TrimPrefix(entry.File, "./"))
	b.logger.Debug("Loading scene from file", "file", file)

	var rec sceneRecord
	if err := b.readYAML(file, &rec); err != nil {
		return Scene{}, fmt.Errorf("%s: %w", where, err)
	}
	return b.buildScene(rec, fmt.Sprintf("%s (%s)", where, file))
}

func (b *build) buildScene(r sceneRecord, where string) (Scene, error) {
	switch {
	case r.BgImages == nil:
		return Scene{}, malformed("%s: missing bg_images", where)
	case r.FgText == nil:
		return Scene{}, malformed("%s: missing fg_text", where)
	case r.Options == nil:
		return Scene{}, malformed("%s: missing options", where)
	case r.ButtonText == nil:
		return Scene{}, malformed("%s: missing button_text", where)
	case r.Outcome == nil || r.Outcome.Expected == nil:
		return Scene{}, malformed("%s: missing outcome.expected", where)
	}

	expected, err := toEffects(*r.Outcome.Expected, where+" outcome")
	if err != nil {
		return Scene{}, err
	}

	options := make([]Option, 0, len(*r.Options))
	for _, name := range *r.Options {
		tmpl, ok := b.content.Options[name]
		if !ok {
			if err := b.warn("%s: unknown option %q dropped", where, name); err != nil {
				return Scene{}, err
			}
			continue
		}
		options = append(options, tmpl.Clone())
	}

	stats := make(map[string]float64, len(r.Stats))
	maps.Copy(stats, r.Stats)

	return Scene{
		BgImages:   append([]string{}, *r.BgImages...),
		FgText:     *r.FgText,
		Stats:      stats,
		Options:    options,
		ButtonText: *r.ButtonText,
		Outcome:    SceneOutcome{Expected: expected},
	}, nil
}
