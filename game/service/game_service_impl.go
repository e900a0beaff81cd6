package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	log      logrus.FieldLogger
	mu       sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithLogger sets the logger used for move diagnostics
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *gameServiceImpl) {
		s.log = log
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.Level.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		Level:          sess.Level,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level *engine.Level
	if levelID != "" {
		var err error
		level, err = s.levels.LoadLevel(levelID)
		if err != nil {
			// Point the caller at the levels that do exist
			available, listErr := s.levels.ListLevels()
			if listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, info := range available {
					ids = append(ids, info.ID)
				}
				return nil, fmt.Errorf("level '%s' (available: %v): %w", levelID, ids, err)
			}
			return nil, fmt.Errorf("level '%s': %w", levelID, err)
		}
	} else {
		level = s.levels.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"level":   level.ID,
	}).Info("session created")

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// Move executes a single move for a session. A rejected move is reported
// in the result, not as an error.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	dir, _ := engine.ParseDirection(direction)
	move := sess.Engine.Move(dir)
	state := sess.Engine.GetState()
	events = append(events, moveEvents(move, state)...)
	step := stepInfo(1, direction, move)

	if !move.Accepted() {
		s.log.WithFields(logrus.Fields{
			"session":   sess.ID,
			"direction": direction,
			"outcome":   move.Outcome,
		}).Debug("move rejected")
	}

	return &MoveResult{
		Success:       move.Accepted(),
		GameState:     state,
		Message:       state.Message,
		Events:        events,
		Step:          &step,
		PossibleMoves: directionNames(sess.Engine.GetPossibleMoves()),
	}, nil
}

// BulkMove executes moves in sequence, stopping at the first rejected move
// or when the puzzle is solved
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartPos = sess.Engine.GetPlayerPosition()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, name := range moves {
		dir, _ := engine.ParseDirection(name)
		move := sess.Engine.Move(dir)

		result.Steps = append(result.Steps, stepInfo(i+1, name, move))
		result.Events = append(result.Events, moveEvents(move, sess.Engine.GetState())...)

		if !move.Accepted() {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d (%s) blocked: %s", i+1, name, move.Outcome)
			result.StopReasonCode = string(move.Outcome)
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		if move.Won {
			result.StoppedReason = "puzzle solved"
			result.StopReasonCode = EventVictory
			result.StoppedOnMove = i + 1
			break
		}
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.EndPos = state.PlayerPos
	result.Won = state.Victory
	result.Message = state.Message
	result.PossibleMoves = directionNames(sess.Engine.GetPossibleMoves())

	s.log.WithFields(logrus.Fields{
		"session":  sess.ID,
		"executed": result.MovesExecuted,
		"stop":     result.StopReasonCode,
	}).Debug("bulk move")

	return result, nil
}

// Reset resets a game session to its initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// ListLevels returns the level catalog
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*engine.Level, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel adds a level to the catalog
func (s *gameServiceImpl) SaveLevel(ctx context.Context, level *engine.Level) error {
	return s.levels.SaveLevel(level)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// moveEvents describes a single engine move. state is the snapshot taken
// right after the move.
func moveEvents(move engine.MoveResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	var events []GameEvent

	switch move.Outcome {
	case engine.OutcomeMoved:
		events = append(events, GameEvent{
			Type:      EventMove,
			Message:   fmt.Sprintf("Moved %s to %s", move.Direction, move.To),
			Timestamp: now,
			Position:  move.To,
		})
	case engine.OutcomePushed:
		events = append(events, GameEvent{
			Type:      EventPush,
			Message:   fmt.Sprintf("Pushed box %s from %s to %s", move.Direction, move.BoxFrom, move.BoxTo),
			Timestamp: now,
			Position:  *move.BoxTo,
		})
	default:
		events = append(events, GameEvent{
			Type:      EventBlocked,
			Message:   state.Message,
			Timestamp: now,
			Position:  move.From,
		})
	}

	if move.Accepted() && move.Won {
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   fmt.Sprintf("Solved in %d steps!", move.Steps),
			Timestamp: now,
			Position:  move.To,
		})
	}

	return events
}

func stepInfo(idx int, name string, move engine.MoveResult) StepInfo {
	return StepInfo{
		Idx:     idx,
		Dir:     name,
		Outcome: move.Outcome,
		From:    move.From,
		To:      move.To,
		BoxFrom: move.BoxFrom,
		BoxTo:   move.BoxTo,
		Success: move.Accepted(),
		Victory: move.Accepted() && move.Won,
	}
}

func directionNames(dirs []engine.Direction) []string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, d.String())
	}
	return names
}
