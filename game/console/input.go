package console

import (
	"strings"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// Command is one line of player input
type Command int

const (
	CommandUnknown Command = iota
	CommandUp
	CommandDown
	CommandLeft
	CommandRight
	CommandReset
	CommandQuit
)

var commandNames = map[Command]string{
	CommandUnknown: "unknown",
	CommandUp:      "up",
	CommandDown:    "down",
	CommandLeft:    "left",
	CommandRight:   "right",
	CommandReset:   "reset",
	CommandQuit:    "quit",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Direction returns the move a command stands for. ok is false for reset,
// quit and unknown input.
func (c Command) Direction() (dir engine.Direction, ok bool) {
	switch c {
	case CommandUp:
		return engine.Up, true
	case CommandDown:
		return engine.Down, true
	case CommandLeft:
		return engine.Left, true
	case CommandRight:
		return engine.Right, true
	default:
		return engine.NoDirection, false
	}
}

var keyCommands = map[rune]Command{
	'W': CommandUp,
	'A': CommandLeft,
	'S': CommandDown,
	'D': CommandRight,
	'R': CommandReset,
	'Q': CommandQuit,
}

// ParseCommand maps a line of input to a command. Whole words (up, down,
// left, right, reset, quit) are matched first; otherwise only the first
// character counts, case-insensitively.
func ParseCommand(line string) Command {
	word := strings.ToLower(strings.TrimSpace(line))
	if word == "" {
		return CommandUnknown
	}

	for cmd, name := range commandNames {
		if cmd != CommandUnknown && word == name {
			return cmd
		}
	}

	first := []rune(strings.ToUpper(word))[0]
	if cmd, ok := keyCommands[first]; ok {
		return cmd
	}
	return CommandUnknown
}
