// Command solve plays a level on a running sokoban server. It reads the board
// from a session, searches for the shortest solution locally and submits the
// moves through the bulk-move endpoint.
//
// Usage:
//
//	solve [--url http://localhost:8080] [--level pillars] [--continue SESSION]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// Options controls a single solver run.
type Options struct {
	LevelID   string
	SessionID string
	MaxStates int
	Delay     time.Duration
	DryRun    bool
}

// Outcome summarizes a solver run.
type Outcome struct {
	SessionID string
	Moves     []engine.Direction
	Explored  int
	Won       bool
	Steps     int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "solve",
		Usage: "solve a level through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server URL",
				Sources: cli.EnvVars("SOKOBAN_API_URL"),
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "level id for a new session",
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "solve an existing session by ID",
			},
			&cli.IntFlag{
				Name:  "max-states",
				Value: 2_000_000,
				Usage: "give up after exploring this many states (0 = unlimited)",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause between submitted batches",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the solution without submitting it",
			},
			&cli.BoolFlag{
				Name:  "v",
				Usage: "verbose output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logrus.StandardLogger()
			if cmd.Bool("v") {
				log.SetLevel(logrus.DebugLevel)
			}

			opts := Options{
				LevelID:   cmd.String("level"),
				SessionID: cmd.String("continue"),
				MaxStates: int(cmd.Int("max-states")),
				Delay:     cmd.Duration("delay"),
				DryRun:    cmd.Bool("dry-run"),
			}

			log.WithField("url", cmd.String("url")).Info("connecting to game server")
			outcome, err := Run(ctx, NewClient(cmd.String("url")), opts, log)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			fmt.Fprintln(cmd.Root().Writer, formatMoves(outcome.Moves))
			if !opts.DryRun && !outcome.Won {
				return cli.Exit(fmt.Sprintf("session %s did not reach victory", outcome.SessionID), 1)
			}
			return nil
		},
	}
}

// Run resets the session, solves its board and, unless DryRun is set, plays
// the solution in batches of at most engine.MaxBulkMoves.
func Run(ctx context.Context, client *Client, opts Options, log logrus.FieldLogger) (*Outcome, error) {
	var err error
	if opts.SessionID != "" {
		_, err = client.Resume(ctx, opts.SessionID)
	} else {
		_, err = client.CreateSession(ctx, opts.LevelID)
	}
	if err != nil {
		return nil, err
	}
	log = log.WithField("session", client.SessionID())

	state, err := client.Reset(ctx)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"level":   state.LevelID,
		"targets": state.TotalTargets,
	}).Info("session ready")

	board, err := engine.ParseBoard(state.Grid)
	if err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}

	solver := NewSolver(board, opts.MaxStates)
	started := time.Now()
	moves, err := solver.Solve()
	if err != nil {
		return nil, fmt.Errorf("solve %s: %w", state.LevelID, err)
	}
	log.WithFields(logrus.Fields{
		"moves":    len(moves),
		"explored": solver.Explored(),
		"elapsed":  time.Since(started).Round(time.Millisecond),
	}).Info("solution found")

	outcome := &Outcome{
		SessionID: client.SessionID(),
		Moves:     moves,
		Explored:  solver.Explored(),
		Won:       state.Victory,
		Steps:     state.Steps,
	}
	if opts.DryRun {
		return outcome, nil
	}

	for start := 0; start < len(moves); start += engine.MaxBulkMoves {
		end := start + engine.MaxBulkMoves
		if end > len(moves) {
			end = len(moves)
		}
		if start > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return outcome, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}

		result, err := client.BulkMove(ctx, directionNames(moves[start:end]))
		if err != nil {
			return outcome, err
		}
		log.WithFields(logrus.Fields{
			"executed": result.MovesExecuted,
			"end":      result.EndPos.String(),
		}).Debug("batch submitted")

		outcome.Steps = result.GameState.Steps
		outcome.Won = result.GameState.Victory
		if result.MovesExecuted != end-start && !outcome.Won {
			return outcome, errors.New("server stopped the batch: " + result.StoppedReason)
		}
	}

	if outcome.Won {
		log.WithField("steps", outcome.Steps).Info("victory")
	}
	return outcome, nil
}

func directionNames(moves []engine.Direction) []string {
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.String()
	}
	return names
}

// formatMoves renders a solution in WASD notation.
func formatMoves(moves []engine.Direction) string {
	keys := map[engine.Direction]string{engine.Up: "w", engine.Down: "s", engine.Left: "a", engine.Right: "d"}
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = keys[m]
	}
	return strings.Join(out, " ")
}
