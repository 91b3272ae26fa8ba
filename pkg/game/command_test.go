package game

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"toggle 2", Command{Type: CmdToggle, Option: 1}},
		{"t 1", Command{Type: CmdToggle, Option: 0}},
		{"3", Command{Type: CmdToggle, Option: 2}},
		{"  TOGGLE   4 ", Command{Type: CmdToggle, Option: 3}},
		{"submit", Command{Type: CmdSubmit}},
		{"s", Command{Type: CmdSubmit}},
		{"advance", Command{Type: CmdAdvance}},
		{"next", Command{Type: CmdAdvance}},
		{"n", Command{Type: CmdAdvance}},
		{"save", Command{Type: CmdSave}},
		{"save slot_2", Command{Type: CmdSave, Slot: "slot_2"}},
		{"load", Command{Type: CmdLoad}},
		{"load morning", Command{Type: CmdLoad, Slot: "morning"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			if err != nil {
				t.Fatalf("ParseCommand(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"dance",
		"toggle",
		"toggle two",
		"toggle 1 2",
		"0",
		"-1",
		"t 0",
		"submit now",
		"advance 2",
		"save a b",
	}

	for _, input := range inputs {
		_, err := ParseCommand(input)
		if !errors.Is(err, ErrBadCommand) {
			t.Errorf("ParseCommand(%q) expected ErrBadCommand, got %v", input, err)
		}
	}
}
