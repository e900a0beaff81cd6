package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

var (
	ErrNoSolution   = errors.New("no solution exists")
	ErrSearchBudget = errors.New("search budget exhausted")
)

// Solver searches a board breadth-first for the shortest move sequence that
// puts every box on a target.
type Solver struct {
	board     *engine.Board
	targets   map[engine.Position]bool
	maxStates int
	explored  int
}

type searchState struct {
	player engine.Position
	boxes  []engine.Position // sorted
}

type searchNode struct {
	state  searchState
	parent int
	dir    engine.Direction
}

func NewSolver(board *engine.Board, maxStates int) *Solver {
	targets := make(map[engine.Position]bool)
	for _, t := range board.Targets() {
		targets[t] = true
	}
	return &Solver{board: board, targets: targets, maxStates: maxStates}
}

// Explored returns the number of states visited by the last Solve.
func (s *Solver) Explored() int {
	return s.explored
}

func (s *Solver) Solve() ([]engine.Direction, error) {
	start := searchState{player: s.board.PlayerPosition(), boxes: s.initialBoxes()}
	if len(start.boxes) < len(s.targets) {
		return nil, fmt.Errorf("%w: %d targets but only %d boxes", ErrNoSolution, len(s.targets), len(start.boxes))
	}
	if s.solved(start) {
		return nil, nil
	}

	nodes := []searchNode{{state: start, parent: -1}}
	seen := map[string]bool{start.key(): true}
	s.explored = 0

	for head := 0; head < len(nodes); head++ {
		s.explored++
		if s.maxStates > 0 && s.explored > s.maxStates {
			return nil, ErrSearchBudget
		}

		current := nodes[head].state
		for _, dir := range engine.Directions {
			next, ok := s.step(current, dir)
			if !ok {
				continue
			}
			key := next.key()
			if seen[key] {
				continue
			}
			seen[key] = true
			nodes = append(nodes, searchNode{state: next, parent: head, dir: dir})
			if s.solved(next) {
				return path(nodes, len(nodes)-1), nil
			}
		}
	}
	return nil, ErrNoSolution
}

func (s *Solver) initialBoxes() []engine.Position {
	boxes := append(engine.FindTiles(s.board, engine.Box), engine.FindTiles(s.board, engine.BoxOnTarget)...)
	sortPositions(boxes)
	return boxes
}

// step applies one move to a search state using the same rules as the
// engine: walk onto passable tiles, push a single box into a free cell.
func (s *Solver) step(st searchState, dir engine.Direction) (searchState, bool) {
	ahead := st.player.Add(dir)
	if s.wall(ahead) {
		return searchState{}, false
	}

	idx := indexOf(st.boxes, ahead)
	if idx < 0 {
		return searchState{player: ahead, boxes: st.boxes}, true
	}

	beyond := ahead.Add(dir)
	if s.wall(beyond) || indexOf(st.boxes, beyond) >= 0 || s.cornered(beyond) {
		return searchState{}, false
	}

	boxes := make([]engine.Position, len(st.boxes))
	copy(boxes, st.boxes)
	boxes[idx] = beyond
	sortPositions(boxes)
	return searchState{player: ahead, boxes: boxes}, true
}

func (s *Solver) wall(pos engine.Position) bool {
	tile, ok := s.board.TileAt(pos.Row, pos.Col)
	return !ok || tile == engine.Wall
}

// cornered reports whether a box pushed to pos could never leave it again.
func (s *Solver) cornered(pos engine.Position) bool {
	if s.targets[pos] {
		return false
	}
	vertical := s.wall(pos.Add(engine.Up)) || s.wall(pos.Add(engine.Down))
	horizontal := s.wall(pos.Add(engine.Left)) || s.wall(pos.Add(engine.Right))
	return vertical && horizontal
}

func (s *Solver) solved(st searchState) bool {
	onTarget := 0
	for _, box := range st.boxes {
		if s.targets[box] {
			onTarget++
		}
	}
	return onTarget == len(s.targets)
}

func (st searchState) key() string {
	var sb strings.Builder
	sb.WriteString(st.player.String())
	for _, box := range st.boxes {
		sb.WriteString(box.String())
	}
	return sb.String()
}

func path(nodes []searchNode, end int) []engine.Direction {
	var moves []engine.Direction
	for i := end; nodes[i].parent >= 0; i = nodes[i].parent {
		moves = append(moves, nodes[i].dir)
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}
	return moves
}

func indexOf(positions []engine.Position, pos engine.Position) int {
	for i, p := range positions {
		if p == pos {
			return i
		}
	}
	return -1
}

func sortPositions(positions []engine.Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Row != positions[j].Row {
			return positions[i].Row < positions[j].Row
		}
		return positions[i].Col < positions[j].Col
	})
}
