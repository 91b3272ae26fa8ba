package main

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/jwebster45206/dayscene/pkg/content"
)

func main() {
	dir := "./data"
	if env := os.Getenv("CONTENT_DIR"); env != "" {
		dir = env
	}
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [content_dir]\n", os.Args[0])
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		dir = os.Args[1]
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	validator := &ContentValidator{}

	c, err := validator.validateDir(dir, logger)
	for _, w := range validator.warnings {
		fmt.Println(w)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Content is valid! %d days, %d scenes, %d options, %d effect definitions\n",
		c.DayCount(), c.SceneCount(), len(c.Options), len(c.Effects))
}

type ContentValidator struct {
	errors   []string
	warnings []string
}

// validateDir loads dir in strict mode, then checks naming and scoring rules
// the loader does not enforce.
func (v *ContentValidator) validateDir(dir string, logger *slog.Logger) (*content.Content, error) {
	fmt.Printf("Validating %s...\n", dir)

	loader := content.NewDirLoader(dir, logger)
	loader.Strict = true

	c, err := loader.Load()
	if err != nil {
		return nil, err
	}

	v.errors = nil
	v.warnings = nil
	v.validateContent(c)

	if len(v.errors) > 0 {
		return nil, fmt.Errorf("validation errors in %s:\n%s", dir, strings.Join(v.errors, "\n"))
	}
	return c, nil
}

func (v *ContentValidator) validateContent(c *content.Content) {
	for name, def := range c.Effects {
		v.validateIDFormat("effect definition", name)
		for _, e := range def.Effects {
			v.validateIDFormat("effect name in definition "+name, e.Name)
		}
	}

	used := make(map[string]bool)
	for name, opt := range c.Options {
		for _, e := range opt.Effects {
			v.validateIDFormat("effect name in option "+name, e.Name)
		}
	}

	for d, day := range c.Days {
		for s, scene := range day.Scenes {
			where := fmt.Sprintf("day %d scene %d", d+1, s+1)
			v.validateScene(&scene, where, used)
		}
	}

	for name := range c.Options {
		if !used[name] {
			v.addWarning(fmt.Sprintf("option '%s' is never offered in any scene", name))
		}
	}
}

func (v *ContentValidator) validateScene(scene *content.Scene, where string, used map[string]bool) {
	if len(scene.Options) == 0 {
		v.addWarning(fmt.Sprintf("%s offers no options", where))
	}

	reachable := make(map[string]bool)
	for _, opt := range scene.Options {
		used[opt.Name] = true
		for _, e := range opt.Effects {
			reachable[e.Name] = true
		}
	}

	for _, e := range scene.Outcome.Expected {
		v.validateIDFormat(where+" expected effect", e.Name)
		if !reachable[e.Name] {
			v.addWarning(fmt.Sprintf("%s expects '%s' but no option in the scene produces it", where, e.Name))
		}
	}
	for name := range scene.Stats {
		v.validateIDFormat(where+" stat", name)
	}
}

func (v *ContentValidator) validateIDFormat(fieldName, id string) {
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *ContentValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *ContentValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "warning: "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
