package service

import (
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// Event types reported in move results
const (
	EventMove    = "move"
	EventPush    = "push"
	EventBlocked = "blocked"
	EventReset   = "reset"
	EventVictory = "victory"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LevelID        string            `json:"level_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	Level          *engine.Level     `json:"level"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success       bool              `json:"success"`
	GameState     *engine.GameState `json:"game_state"`
	Message       string            `json:"message"`
	Events        []GameEvent       `json:"events,omitempty"`
	Step          *StepInfo         `json:"step,omitempty"`
	PossibleMoves []string          `json:"possible_moves,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // an engine outcome, or "victory"
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	// Per-step trace for this call only
	Steps []StepInfo `json:"steps,omitempty"`

	Won           bool     `json:"won"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record of one move request
type StepInfo struct {
	Idx     int              `json:"idx"`
	Dir     string           `json:"dir"`
	Outcome engine.Outcome   `json:"outcome"`
	From    engine.Position  `json:"from"`
	To      engine.Position  `json:"to"`
	BoxFrom *engine.Position `json:"box_from,omitempty"`
	BoxTo   *engine.Position `json:"box_to,omitempty"`
	Success bool             `json:"success"`
	Victory bool             `json:"victory,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "push", "blocked", "reset", "victory"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// LevelInfo describes a level in the catalog
type LevelInfo struct {
	ID          string `json:"id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Boxes       int    `json:"boxes"`
	Targets     int    `json:"targets"`
	Source      string `json:"source"` // "builtin" or "file"
	Filename    string `json:"filename,omitempty"`
}
