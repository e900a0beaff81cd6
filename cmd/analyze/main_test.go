package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/levels"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name        string
		layout      []string
		rows, cols  int
		dead        []engine.Position
		unreachable []engine.Position
		solvable    bool
	}{
		{
			name:     "corridor",
			layout:   []string{"######", "#@ $.#", "######"},
			rows:     3,
			cols:     6,
			solvable: true,
		},
		{
			name:     "box in corner",
			layout:   []string{"####", "#@.#", "# $#", "####"},
			rows:     4,
			cols:     4,
			dead:     []engine.Position{{Row: 2, Col: 2}},
			solvable: false,
		},
		{
			name: "walled off box",
			layout: []string{
				"#######",
				"#@#   #",
				"### $ #",
				"#   . #",
				"#######",
			},
			rows:        5,
			cols:        7,
			unreachable: []engine.Position{{Row: 2, Col: 4}},
			solvable:    true,
		},
		{
			name:     "more targets than boxes",
			layout:   []string{"#######", "#@ $..#", "#######"},
			rows:     3,
			cols:     7,
			solvable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Analyze(&engine.Level{ID: "test", Name: tt.name, Layout: tt.layout})
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if report.Rows != tt.rows || report.Cols != tt.cols {
				t.Errorf("Expected %dx%d, got %dx%d", tt.rows, tt.cols, report.Rows, report.Cols)
			}
			if !reflect.DeepEqual(report.DeadBoxes, tt.dead) {
				t.Errorf("Expected dead boxes %v, got %v", tt.dead, report.DeadBoxes)
			}
			if !reflect.DeepEqual(report.UnreachableBoxes, tt.unreachable) {
				t.Errorf("Expected unreachable boxes %v, got %v", tt.unreachable, report.UnreachableBoxes)
			}
			if report.Solvable() != tt.solvable {
				t.Errorf("Expected solvable=%v, got %v", tt.solvable, report.Solvable())
			}
		})
	}
}

func TestAnalyze_NoPlayer(t *testing.T) {
	_, err := Analyze(&engine.Level{ID: "empty", Layout: []string{"###"}})
	if err == nil {
		t.Error("Expected error for level without player")
	}
}

func TestAnalyze_Builtin(t *testing.T) {
	for _, level := range levels.Builtin() {
		level := level
		report, err := Analyze(&level)
		if err != nil {
			t.Errorf("%s: %v", level.ID, err)
			continue
		}
		if level.ID == "pillars" {
			if report.Boxes != 3 || report.Targets != 3 || report.BoxesOnTarget != 2 {
				t.Errorf("Unexpected pillars report %+v", report)
			}
			if len(report.DeadBoxes) != 0 {
				t.Errorf("Pillars has no dead box, got %v", report.DeadBoxes)
			}
		}
	}
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	ok := printReport(&out, &engine.Level{Name: "Corner", Layout: []string{"####", "#@.#", "# $#", "####"}})
	if ok {
		t.Error("Expected the corner level to be reported unsolvable")
	}

	text := out.String()
	for _, want := range []string{
		"Name: Corner",
		"Size: 4 x 4",
		"# @ . # ",
		"1 boxes are stuck in a corner",
		"Dead box: (2,2)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in report:\n%s", want, text)
		}
	}
}

func TestLevelPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt", "c.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755)

	paths, err := levelPaths(dir)
	if err != nil {
		t.Fatalf("levelPaths failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "c.yml"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Expected %v, got %v", want, paths)
	}

	single, _ := levelPaths(filepath.Join(dir, "notes.txt"))
	if len(single) != 1 {
		t.Errorf("A file argument is used as is, got %v", single)
	}

	if _, err := levelPaths(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing path")
	}
}
