// Command analyze prints quick, human-readable heuristics about level files.
// It summarizes dimensions, counts of boxes and targets, and highlights
// boxes wedged into a corner and boxes the player cannot walk up to.
//
// Usage:
//
//	analyze [level-file-or-dir ...]
//
// Without arguments the built-in levels are analyzed.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/sokoban/game/console"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/levels"
)

// Report holds the heuristics computed for one level.
type Report struct {
	Rows, Cols    int
	Boxes         int
	Targets       int
	BoxesOnTarget int
	DeadBoxes     []engine.Position
	// UnreachableBoxes are boxes with no free side the player can walk to
	// without pushing anything.
	UnreachableBoxes []engine.Position
}

// Solvable reports whether no heuristic rules the level out.
func (r *Report) Solvable() bool {
	return r.Boxes >= r.Targets && len(r.DeadBoxes) == 0
}

func main() {
	out := os.Stdout
	if len(os.Args) < 2 {
		for _, level := range levels.Builtin() {
			level := level
			fmt.Fprintf(out, "\n=== Analyzing built-in %s ===\n", level.ID)
			printReport(out, &level)
		}
		return
	}

	failed := false
	for _, arg := range os.Args[1:] {
		paths, err := levelPaths(arg)
		if err != nil {
			fmt.Fprintf(out, "Error reading %s: %v\n", arg, err)
			failed = true
			continue
		}
		for _, path := range paths {
			fmt.Fprintf(out, "\n=== Analyzing %s ===\n", path)
			level, err := levels.ReadLevelFile(path)
			if err != nil {
				fmt.Fprintf(out, "Error reading level: %v\n", err)
				failed = true
				continue
			}
			if !printReport(out, level) {
				failed = true
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}

// levelPaths expands a directory into its level files, sorted by name.
func levelPaths(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".json":
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Analyze computes the report for a level.
func Analyze(level *engine.Level) (*Report, error) {
	board, err := engine.NewBoard(level)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Rows:          board.Rows(),
		Cols:          board.Width(),
		Boxes:         engine.CountBoxes(board),
		Targets:       len(board.Targets()),
		BoxesOnTarget: engine.CountTiles(board, engine.BoxOnTarget),
		DeadBoxes:     engine.DeadBoxes(board),
	}

	reachable := walkable(board)
	boxes := append(engine.FindTiles(board, engine.Box), engine.FindTiles(board, engine.BoxOnTarget)...)
	for _, box := range boxes {
		touched := false
		for _, dir := range []engine.Direction{engine.Up, engine.Down, engine.Left, engine.Right} {
			if reachable[box.Add(dir)] {
				touched = true
				break
			}
		}
		if !touched {
			report.UnreachableBoxes = append(report.UnreachableBoxes, box)
		}
	}

	return report, nil
}

// walkable returns the cells the player reaches from the start without
// pushing a box.
func walkable(board *engine.Board) map[engine.Position]bool {
	start := board.PlayerPosition()
	seen := map[engine.Position]bool{start: true}
	queue := []engine.Position{start}

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, dir := range []engine.Direction{engine.Up, engine.Down, engine.Left, engine.Right} {
			next := pos.Add(dir)
			if seen[next] {
				continue
			}
			tile, ok := board.TileAt(next.Row, next.Col)
			if !ok || !tile.Passable() {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

// printReport writes the report and reports whether the level looks solvable.
func printReport(w io.Writer, level *engine.Level) bool {
	report, err := Analyze(level)
	if err != nil {
		fmt.Fprintf(w, "Error loading level: %v\n", err)
		return false
	}

	fmt.Fprintf(w, "Name: %s\n", level.Name)
	fmt.Fprintf(w, "Size: %d x %d\n", report.Rows, report.Cols)
	fmt.Fprintf(w, "Boxes: %d (on target: %d)\n", report.Boxes, report.BoxesOnTarget)
	fmt.Fprintf(w, "Targets: %d\n", report.Targets)

	board, _ := engine.NewBoard(level)
	renderer := console.NewRenderer(w, console.RenderOptions{Glyphs: console.GlyphsASCII, NoColor: true})
	fmt.Fprint(w, renderer.Render(board))

	if report.Boxes < report.Targets {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d targets but only %d boxes\n", report.Targets, report.Boxes)
	}

	if len(report.DeadBoxes) > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d boxes are stuck in a corner\n", len(report.DeadBoxes))
		for _, p := range report.DeadBoxes {
			fmt.Fprintf(w, "   Dead box: %s\n", p)
		}
	} else {
		fmt.Fprintf(w, "✅ No box is stuck in a corner\n")
	}

	if len(report.UnreachableBoxes) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d boxes cannot be reached without pushing another box first\n", len(report.UnreachableBoxes))
		for i, p := range report.UnreachableBoxes {
			if i < 5 {
				fmt.Fprintf(w, "   Unreachable: %s\n", p)
			}
		}
		if len(report.UnreachableBoxes) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(report.UnreachableBoxes)-5)
		}
	} else {
		fmt.Fprintf(w, "✅ Every box can be reached from the start\n")
	}

	return report.Solvable()
}
