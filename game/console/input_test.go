package console

import (
	"testing"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected Command
	}{
		{"w", CommandUp},
		{"W", CommandUp},
		{"a", CommandLeft},
		{"s", CommandDown},
		{"d", CommandRight},
		{"r", CommandReset},
		{"Q", CommandQuit},
		{"  s  \n", CommandDown},
		{"up", CommandUp},
		{"DOWN", CommandDown},
		{"left", CommandLeft},
		{"Right\n", CommandRight},
		{"reset", CommandReset},
		{"quit", CommandQuit},
		{"wasd", CommandUp},
		{"dance", CommandRight},
		{"", CommandUnknown},
		{"   \n", CommandUnknown},
		{"x", CommandUnknown},
		{"1", CommandUnknown},
		{"unknown", CommandUnknown},
		{"▲", CommandUnknown},
	}

	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.expected {
			t.Errorf("ParseCommand(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestCommand_Direction(t *testing.T) {
	tests := []struct {
		cmd Command
		dir engine.Direction
		ok  bool
	}{
		{CommandUp, engine.Up, true},
		{CommandDown, engine.Down, true},
		{CommandLeft, engine.Left, true},
		{CommandRight, engine.Right, true},
		{CommandReset, engine.NoDirection, false},
		{CommandQuit, engine.NoDirection, false},
		{CommandUnknown, engine.NoDirection, false},
	}

	for _, tt := range tests {
		dir, ok := tt.cmd.Direction()
		if dir != tt.dir || ok != tt.ok {
			t.Errorf("%s.Direction() = (%s, %v), want (%s, %v)", tt.cmd, dir, ok, tt.dir, tt.ok)
		}
	}
}
