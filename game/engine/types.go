package engine

import (
	"fmt"
	"strings"
)

const (
	// MaxBulkMoves caps the number of moves accepted in one bulk request.
	MaxBulkMoves = 100

	WebSocketBufferSize = 256
)

// Position is a (row, column) coordinate on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns p shifted by one step in direction d.
func (p Position) Add(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the four movement directions
type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the valid directions in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

// Delta returns the row and column offsets of a single step.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("unknown direction %q", string(text))
	}
	*d = parsed
	return nil
}

// ParseDirection maps "up", "down", "left" and "right" (any case) to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	default:
		return NoDirection, false
	}
}

// Status is the engine state. Won is terminal.
type Status int

const (
	StatusPlaying Status = iota
	StatusWon
)

func (s Status) String() string {
	if s == StatusWon {
		return "won"
	}
	return "playing"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "playing":
		*s = StatusPlaying
	case "won":
		*s = StatusWon
	default:
		return fmt.Errorf("unknown status %q", string(text))
	}
	return nil
}

// Outcome describes how a move request was resolved.
type Outcome string

const (
	OutcomeMoved               Outcome = "moved"
	OutcomePushed              Outcome = "pushed"
	OutcomeBlockedBoundary     Outcome = "blocked_boundary"
	OutcomeBlockedWall         Outcome = "blocked_wall"
	OutcomePushBlockedBoundary Outcome = "push_blocked_boundary"
	OutcomePushBlockedWall     Outcome = "push_blocked_wall"
	OutcomePushBlockedBox      Outcome = "push_blocked_box"
	OutcomeGameOver            Outcome = "game_over"
	OutcomeInvalidDirection    Outcome = "invalid_direction"
)

// Accepted reports whether the outcome changed the board.
func (o Outcome) Accepted() bool {
	return o == OutcomeMoved || o == OutcomePushed
}

// MoveResult is the result of a single move request
type MoveResult struct {
	Direction Direction `json:"direction"`
	Outcome   Outcome   `json:"outcome"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	BoxFrom   *Position `json:"box_from,omitempty"`
	BoxTo     *Position `json:"box_to,omitempty"`
	Steps     int       `json:"steps"`
	Won       bool      `json:"won"`
}

// Accepted reports whether the move changed the board.
func (r MoveResult) Accepted() bool {
	return r.Outcome.Accepted()
}

// Level is an immutable level definition
type Level struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Layout      []string `json:"layout"`
}

// GameState is a read-only snapshot of an engine
type GameState struct {
	Grid          []string   `json:"grid"`
	PlayerPos     Position   `json:"player_pos"`
	Targets       []Position `json:"targets"`
	Steps         int        `json:"steps"`
	Status        Status     `json:"status"`
	Victory       bool       `json:"victory"`
	BoxesOnTarget int        `json:"boxes_on_target"`
	TotalTargets  int        `json:"total_targets"`
	LevelID       string     `json:"level_id"`
	LevelName     string     `json:"level_name"`
	Message       string     `json:"message,omitempty"`
}
