package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadCommand is returned for commands that cannot be parsed or dispatched.
var ErrBadCommand = errors.New("bad command")

type CommandType string

const (
	CmdToggle  CommandType = "toggle"
	CmdSubmit  CommandType = "submit"
	CmdAdvance CommandType = "advance"
	CmdSave    CommandType = "save"
	CmdLoad    CommandType = "load"
)

// Command is one discrete player action. Option is a zero-based option index
// and is only read by CmdToggle; Slot is only read by CmdSave and CmdLoad.
type Command struct {
	Type   CommandType `json:"type"`
	Option int         `json:"option,omitempty"`
	Slot   string      `json:"slot,omitempty"`
}

var knownCommands = map[string]CommandType{
	"toggle":  CmdToggle,
	"t":       CmdToggle,
	"submit":  CmdSubmit,
	"s":       CmdSubmit,
	"advance": CmdAdvance,
	"next":    CmdAdvance,
	"n":       CmdAdvance,
	"save":    CmdSave,
	"load":    CmdLoad,
}

// ParseCommand parses console input. Option numbers are one-based as shown to
// the player, and a bare number is shorthand for toggling that option.
func ParseCommand(input string) (Command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrBadCommand)
	}

	if n, err := strconv.Atoi(fields[0]); err == nil && len(fields) == 1 {
		return toggleCommand(n)
	}

	cmd, ok := knownCommands[fields[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrBadCommand, fields[0])
	}
	args := fields[1:]

	switch cmd {
	case CmdToggle:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: toggle takes one option number", ErrBadCommand)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: option %q is not a number", ErrBadCommand, args[0])
		}
		return toggleCommand(n)
	case CmdSave, CmdLoad:
		if len(args) > 1 {
			return Command{}, fmt.Errorf("%w: %s takes at most one slot name", ErrBadCommand, cmd)
		}
		c := Command{Type: cmd}
		if len(args) == 1 {
			c.Slot = args[0]
		}
		return c, nil
	default:
		if len(args) > 0 {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrBadCommand, cmd)
		}
		return Command{Type: cmd}, nil
	}
}

func toggleCommand(n int) (Command, error) {
	if n < 1 {
		return Command{}, fmt.Errorf("%w: option numbers start at 1", ErrBadCommand)
	}
	return Command{Type: CmdToggle, Option: n - 1}, nil
}
