package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

const (
	promptText   = "Enter movement (W/A/S/D): "
	invalidInput = "Invalid input. Use W/A/S/D to move, R to reset, Q to quit."
)

// Result is how a terminal session ended
type Result struct {
	Won   bool
	Quit  bool
	Steps int
}

// Option configures a Driver
type Option func(*Driver)

// WithRenderer replaces the default unicode renderer
func WithRenderer(r *Renderer) Option {
	return func(d *Driver) {
		d.renderer = r
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Driver) {
		d.log = log
	}
}

// WithBlockedNotice prints a line when a move is rejected. By default a
// rejected move only leaves the board unchanged.
func WithBlockedNotice(enabled bool) Option {
	return func(d *Driver) {
		d.notifyBlocked = enabled
	}
}

// Driver runs one engine in a synchronous read-eval-render loop
type Driver struct {
	engine        engine.Engine
	in            *bufio.Reader
	out           io.Writer
	renderer      *Renderer
	log           logrus.FieldLogger
	notifyBlocked bool
}

// NewDriver creates a driver reading commands from in and drawing to out
func NewDriver(eng engine.Engine, in io.Reader, out io.Writer, opts ...Option) *Driver {
	d := &Driver{
		engine: eng,
		in:     bufio.NewReader(in),
		out:    out,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.renderer == nil {
		d.renderer = NewRenderer(out, RenderOptions{})
	}
	return d
}

// Run plays until the puzzle is solved, the player quits or input ends.
// The read is the only blocking point; ctx is checked between commands.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			d.engine.Quit()
			return d.result(false, true), err
		}

		d.draw()
		fmt.Fprint(d.out, promptText)

		line, err := d.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return d.result(false, true), fmt.Errorf("read command: %w", err)
		}
		eof := errors.Is(err, io.EOF)
		if eof && line == "" {
			fmt.Fprintln(d.out)
			d.engine.Quit()
			return d.result(false, true), nil
		}

		cmd := ParseCommand(line)
		switch cmd {
		case CommandQuit:
			d.engine.Quit()
			d.log.WithField("steps", d.engine.Steps()).Debug("player quit")
			return d.result(false, true), nil

		case CommandReset:
			d.engine.Reset()
			d.log.Debug("board reset")

		case CommandUnknown:
			fmt.Fprintln(d.out, invalidInput)

		default:
			dir, _ := cmd.Direction()
			if won := d.move(dir); won {
				d.draw()
				fmt.Fprintf(d.out, "You've won the game in %d steps!\n", d.engine.Steps())
				return d.result(true, false), nil
			}
		}

		if eof {
			d.engine.Quit()
			return d.result(false, true), nil
		}
	}
}

func (d *Driver) move(dir engine.Direction) bool {
	result := d.engine.Move(dir)
	if !result.Accepted() {
		d.log.WithFields(logrus.Fields{
			"direction": dir,
			"outcome":   result.Outcome,
			"from":      result.From.String(),
		}).Debug("move rejected")
		if d.notifyBlocked {
			fmt.Fprintf(d.out, "Blocked: %s\n", result.Outcome)
		}
		return false
	}
	return result.Won
}

func (d *Driver) draw() {
	state := d.engine.GetState()
	fmt.Fprintf(d.out, "%s  Steps: %d  Boxes: %d/%d\n",
		state.LevelName, state.Steps, state.BoxesOnTarget, state.TotalTargets)
	fmt.Fprint(d.out, d.renderer.Render(d.engine.Board()))
}

func (d *Driver) result(won, quit bool) Result {
	return Result{Won: won, Quit: quit, Steps: d.engine.Steps()}
}
