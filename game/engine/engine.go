package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Board() *Board
	Status() Status
	IsVictory() bool
	IsClosed() bool
	Steps() int
	GetPlayerPosition() Position
	Reset() *GameState
	Quit()

	// Movement operations
	Move(direction Direction) MoveResult
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction

	// Level
	GetLevel() *Level
}

var _ Engine = (*GameEngine)(nil)

// GameEngine implements Engine for one level. It is not safe for concurrent
// use; callers that share an engine must serialize access.
type GameEngine struct {
	level   *Level
	initial *Board
	board   *Board
	status  Status
	closed  bool
	message string
}

// NewEngine parses the level and returns an engine in the Playing state.
// A level without a player start is rejected.
func NewEngine(level *Level) (*GameEngine, error) {
	board, err := NewBoard(level)
	if err != nil {
		name := "<nil>"
		if level != nil {
			name = level.Name
		}
		return nil, fmt.Errorf("load level %q: %w", name, err)
	}

	e := &GameEngine{
		level:   level,
		initial: board,
		board:   board.Clone(),
		message: welcomeMessage(level),
	}
	// A level may ship already solved; it is only judged after a move.
	return e, nil
}

func welcomeMessage(level *Level) string {
	return fmt.Sprintf("Level %s: push every box onto a target.", level.Name)
}

// Board returns the live board. Callers must treat it as read-only.
func (e *GameEngine) Board() *Board {
	return e.board
}

// Status returns Playing or Won.
func (e *GameEngine) Status() Status {
	return e.status
}

// IsVictory returns whether the puzzle has been solved
func (e *GameEngine) IsVictory() bool {
	return e.status == StatusWon
}

// IsClosed returns whether Quit has been called since the last reset
func (e *GameEngine) IsClosed() bool {
	return e.closed
}

// Steps returns the step counter
func (e *GameEngine) Steps() int {
	return e.board.Steps()
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.board.PlayerPosition()
}

// GetLevel returns the level definition the engine was built from
func (e *GameEngine) GetLevel() *Level {
	return e.level
}

// Move applies one step in the given direction. Illegal moves and moves after
// the game has ended are reported in the result and change nothing.
func (e *GameEngine) Move(direction Direction) MoveResult {
	pos := e.board.PlayerPosition()
	rejected := MoveResult{Direction: direction, From: pos, To: pos, Steps: e.board.Steps()}

	if e.status == StatusWon || e.closed {
		rejected.Outcome = OutcomeGameOver
		rejected.Won = e.status == StatusWon
		return rejected
	}
	if dr, dc := direction.Delta(); dr == 0 && dc == 0 {
		rejected.Outcome = OutcomeInvalidDirection
		e.message = fmt.Sprintf("Unknown direction %q", direction)
		return rejected
	}

	result := e.board.applyMove(direction)
	if !result.Accepted() {
		e.message = blockedMessage(result)
		return result
	}

	if e.board.AllTargetsFilled() {
		e.status = StatusWon
		result.Won = true
		e.message = fmt.Sprintf("Solved in %d steps!", e.board.Steps())
	} else {
		e.message = fmt.Sprintf("Steps: %d", e.board.Steps())
	}
	return result
}

func blockedMessage(r MoveResult) string {
	switch r.Outcome {
	case OutcomeBlockedBoundary:
		return fmt.Sprintf("Can't move %s: edge of the board", r.Direction)
	case OutcomeBlockedWall:
		return fmt.Sprintf("Can't move %s: wall", r.Direction)
	case OutcomePushBlockedBoundary:
		return fmt.Sprintf("Can't push %s: edge of the board behind the box", r.Direction)
	case OutcomePushBlockedWall:
		return fmt.Sprintf("Can't push %s: wall behind the box", r.Direction)
	case OutcomePushBlockedBox:
		return fmt.Sprintf("Can't push %s: another box behind the box", r.Direction)
	}
	return ""
}

// CanMove checks whether a move in the given direction would be accepted
func (e *GameEngine) CanMove(direction Direction) bool {
	if e.status == StatusWon || e.closed {
		return false
	}
	if dr, dc := direction.Delta(); dr == 0 && dc == 0 {
		return false
	}
	outcome, _, _ := e.board.resolveMove(direction)
	return outcome.Accepted()
}

// GetPossibleMoves returns all directions that would be accepted
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// BulkMove applies moves in order and stops after the first rejected move or
// once the puzzle is solved.
func (e *GameEngine) BulkMove(moves []Direction) []MoveResult {
	results := make([]MoveResult, 0, len(moves))
	for _, dir := range moves {
		result := e.Move(dir)
		results = append(results, result)
		if !result.Accepted() || result.Won {
			break
		}
	}
	return results
}

// Reset restores the board as loaded from the level, with steps at zero and
// the status back to Playing.
func (e *GameEngine) Reset() *GameState {
	e.board = e.initial.Clone()
	e.status = StatusPlaying
	e.closed = false
	e.message = welcomeMessage(e.level)
	return e.GetState()
}

// Quit closes the engine without evaluating the win condition.
func (e *GameEngine) Quit() {
	e.closed = true
}

// GetState returns a snapshot of the current game
func (e *GameEngine) GetState() *GameState {
	targets := e.board.Targets()
	return &GameState{
		Grid:          e.board.Lines(),
		PlayerPos:     e.board.PlayerPosition(),
		Targets:       targets,
		Steps:         e.board.Steps(),
		Status:        e.status,
		Victory:       e.status == StatusWon,
		BoxesOnTarget: CountTiles(e.board, BoxOnTarget),
		TotalTargets:  len(targets),
		LevelID:       e.level.ID,
		LevelName:     e.level.Name,
		Message:       e.message,
	}
}
