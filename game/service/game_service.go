package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelID string) (*engine.Level, error)
	SaveLevel(ctx context.Context, level *engine.Level) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level *engine.Level) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, level *engine.Level) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LevelManager handles level loading
type LevelManager interface {
	LoadLevel(id string) (*engine.Level, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.Level
	SaveLevel(level *engine.Level) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         engine.Engine
	Level          *engine.Level
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
