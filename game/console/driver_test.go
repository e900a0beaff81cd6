package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

var corridor = &engine.Level{
	ID:     "corridor",
	Name:   "Corridor",
	Layout: []string{"######", "#@ $.#", "######"},
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func runDriver(t *testing.T, input string, opts ...Option) (Result, string, *engine.GameEngine) {
	t.Helper()
	eng, err := engine.NewEngine(corridor)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	var out bytes.Buffer
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithRenderer(NewRenderer(&out, RenderOptions{Glyphs: GlyphsASCII, NoColor: true})),
	}, opts...)

	result, err := NewDriver(eng, strings.NewReader(input), &out, opts...).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result, out.String(), eng
}

func TestDriver_Win(t *testing.T) {
	result, out, _ := runDriver(t, "d\nd\nd\nq\n")

	if !result.Won || result.Quit || result.Steps != 2 {
		t.Fatalf("Unexpected result %+v", result)
	}
	if !strings.HasSuffix(out, "You've won the game in 2 steps!\n") {
		t.Errorf("Expected win message, got:\n%s", out)
	}
	if !strings.Contains(out, "#     @ * # ") {
		t.Errorf("Expected the solved board to be drawn once more, got:\n%s", out)
	}
	if strings.Count(out, promptText) != 2 {
		t.Errorf("Input after the win must not be read, got %d prompts", strings.Count(out, promptText))
	}
}

func TestDriver_Quit(t *testing.T) {
	result, _, eng := runDriver(t, "d\nQ\nd\n")

	if result.Won || !result.Quit || result.Steps != 1 {
		t.Fatalf("Unexpected result %+v", result)
	}
	if !eng.IsClosed() {
		t.Error("Quit must close the engine")
	}
}

func TestDriver_EndOfInput(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		result, _, _ := runDriver(t, "")
		if !result.Quit || result.Steps != 0 {
			t.Errorf("Unexpected result %+v", result)
		}
	})

	t.Run("last line without newline", func(t *testing.T) {
		result, _, _ := runDriver(t, "d")
		if !result.Quit || result.Steps != 1 {
			t.Errorf("The final line must still be applied, got %+v", result)
		}
	})
}

func TestDriver_InvalidInput(t *testing.T) {
	result, out, _ := runDriver(t, "x\n\nq\n")

	if strings.Count(out, invalidInput) != 2 {
		t.Errorf("Expected two invalid input notices, got:\n%s", out)
	}
	if result.Steps != 0 {
		t.Errorf("Invalid input must not count as a step, got %d", result.Steps)
	}
}

func TestDriver_Reset(t *testing.T) {
	result, out, _ := runDriver(t, "d\nr\nq\n")

	if result.Steps != 0 {
		t.Errorf("Expected steps to be 0 after reset, got %d", result.Steps)
	}
	if !strings.Contains(out, "Corridor  Steps: 1") || !strings.Contains(out, "Corridor  Steps: 0  Boxes: 0/1") {
		t.Errorf("Expected the status line to track steps, got:\n%s", out)
	}
}

func TestDriver_BlockedNotice(t *testing.T) {
	_, silent, _ := runDriver(t, "a\nq\n")
	if strings.Contains(silent, "Blocked") {
		t.Error("Blocked moves must be silent by default")
	}

	result, out, _ := runDriver(t, "a\nq\n", WithBlockedNotice(true))
	if !strings.Contains(out, "Blocked: blocked_wall") {
		t.Errorf("Expected blocked notice, got:\n%s", out)
	}
	if result.Steps != 0 {
		t.Errorf("Blocked move must not count, got %d", result.Steps)
	}
}

func TestDriver_CancelledContext(t *testing.T) {
	eng, _ := engine.NewEngine(corridor)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	result, err := NewDriver(eng, strings.NewReader("d\n"), &out, WithLogger(quietLogger())).Run(ctx)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if !result.Quit || result.Steps != 0 {
		t.Errorf("Unexpected result %+v", result)
	}
}
