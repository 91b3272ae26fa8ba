package content

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Records mirror the authoring format. Required keys are pointers so that a
// missing key can be told apart from a zero value.

type effectRecord struct {
	Name  *string  `yaml:"name"`
	Value *float64 `yaml:"value"`
}

type catalogRecord struct {
	Name    *string        `yaml:"name"`
	Text    *string        `yaml:"text"`
	Effects []effectRecord `yaml:"effects"`
}

type outcomeRecord struct {
	Expected *[]effectRecord `yaml:"expected"`
}

type sceneRecord struct {
	BgImages   *[]string          `yaml:"bg_images"`
	FgText     *string            `yaml:"fg_text"`
	Stats      map[string]float64 `yaml:"stats"`
	Options    *[]string          `yaml:"options"`
	ButtonText *string            `yaml:"button_text"`
	Outcome    *outcomeRecord     `yaml:"outcome"`
}

type dayRecord struct {
	Text   *string       `yaml:"text"`
	Scenes *[]sceneEntry `yaml:"scenes"`
}

// sceneEntry is one item of a day's scene list: an inline scene, a mapping
// with a file key, or a bare file path.
type sceneEntry struct {
	File   string
	Inline *sceneRecord
}

// UnmarshalYAML accepts all three scene entry shapes.
func (e *sceneEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.File)
	case yaml.MappingNode:
		var ref struct {
			File string `yaml:"file"`
		}
		if err := node.Decode(&ref); err != nil {
			return err
		}
		if ref.File != "" {
			e.File = ref.File
			return nil
		}
		var rec sceneRecord
		if err := node.Decode(&rec); err != nil {
			return err
		}
		e.Inline = &rec
		return nil
	default:
		return fmt.Errorf("line %d: scene entry must be a mapping or a file path", node.Line)
	}
}

func (r effectRecord) toEffect(where string) (Effect, error) {
	if r.Name == nil || *r.Name == "" {
		return Effect{}, malformed("%s: effect missing name", where)
	}
	if r.Value == nil {
		return Effect{}, malformed("%s: effect %q missing value", where, *r.Name)
	}
	return Effect{Name: *r.Name, Value: *r.Value}, nil
}

func toEffects(records []effectRecord, where string) ([]Effect, error) {
	effects := make([]Effect, 0, len(records))
	for i, r := range records {
		e, err := r.toEffect(fmt.Sprintf("%s effect %d", where, i+1))
		if err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, nil
}

// fields validates the keys shared by effect definitions and options.
func (r catalogRecord) fields(where string) (name, text string, effects []Effect, err error) {
	if r.Name == nil || *r.Name == "" {
		return "", "", nil, malformed("%s: missing name", where)
	}
	if r.Text == nil {
		return "", "", nil, malformed("%s: %q missing text", where, *r.Name)
	}
	effects, err = toEffects(r.Effects, fmt.Sprintf("%s %q", where, *r.Name))
	if err != nil {
		return "", "", nil, err
	}
	return *r.Name, *r.Text, effects, nil
}
