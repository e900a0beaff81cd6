package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
)

var errNotFound = errors.New("not found")

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, level *engine.Level) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Level:          level,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, level *engine.Level) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, level)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errNotFound
}

// MockLevelManager implements service.LevelManager for testing
type MockLevelManager struct {
	levels map[string]*engine.Level
	order  []string
	saved  []*engine.Level
}

func NewMockLevelManager() *MockLevelManager {
	m := &MockLevelManager{levels: make(map[string]*engine.Level)}
	m.add(&engine.Level{
		ID:   "test",
		Name: "Test Level",
		Layout: []string{
			"#######",
			"#     #",
			"# $$@ #",
			"#  .. #",
			"#     #",
			"#######",
		},
	})
	m.add(&engine.Level{
		ID:     "line",
		Name:   "Line",
		Layout: []string{"#@ $.#"},
	})
	return m
}

func (m *MockLevelManager) add(level *engine.Level) {
	m.levels[level.ID] = level
	m.order = append(m.order, level.ID)
}

func (m *MockLevelManager) LoadLevel(id string) (*engine.Level, error) {
	level, exists := m.levels[id]
	if !exists {
		return nil, errNotFound
	}
	return level, nil
}

func (m *MockLevelManager) ListLevels() ([]*service.LevelInfo, error) {
	infos := make([]*service.LevelInfo, 0, len(m.order))
	for _, id := range m.order {
		infos = append(infos, &service.LevelInfo{ID: id, Name: m.levels[id].Name})
	}
	return infos, nil
}

func (m *MockLevelManager) GetDefault() *engine.Level {
	return m.levels["test"]
}

func (m *MockLevelManager) SaveLevel(level *engine.Level) error {
	m.saved = append(m.saved, level)
	m.add(level)
	return nil
}

func newTestService() (service.GameService, *MockSessionManager, *MockLevelManager) {
	sessions := NewMockSessionManager()
	levels := NewMockLevelManager()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return service.NewGameService(sessions, levels, service.WithLogger(log)), sessions, levels
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	t.Run("default level", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected session ID")
		}
		if info.LevelID != "test" {
			t.Errorf("Expected level 'test', got %q", info.LevelID)
		}
		if info.GameState == nil || info.GameState.Steps != 0 {
			t.Errorf("Expected fresh game state, got %+v", info.GameState)
		}
	})

	t.Run("named level", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "line")
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if info.Level.Name != "Line" {
			t.Errorf("Expected Line, got %q", info.Level.Name)
		}
	})

	t.Run("unknown level lists alternatives", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nope")
		if err == nil {
			t.Fatal("Expected error for unknown level")
		}
		if !errors.Is(err, errNotFound) {
			t.Errorf("Expected wrapped lookup error, got %v", err)
		}
		if !strings.Contains(err.Error(), "test") || !strings.Contains(err.Error(), "line") {
			t.Errorf("Expected available levels in error, got %v", err)
		}
	})
}

func TestGameService_GetAndListSessions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx, "")
	svc.CreateSession(ctx, "line")

	info, err := svc.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.ID != created.ID {
		t.Errorf("Expected %s, got %s", created.ID, info.ID)
	}

	if _, err := svc.GetSession(ctx, "missing"); !errors.Is(err, errNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if err := svc.DeleteSession(ctx, created.ID); !errors.Is(err, errNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}

func TestGameService_Move(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "line")

	tests := []struct {
		name      string
		direction string
		success   bool
		outcome   engine.Outcome
		event     string
	}{
		{"wall", "left", false, engine.OutcomeBlockedWall, service.EventBlocked},
		{"unknown direction", "north", false, engine.OutcomeInvalidDirection, service.EventBlocked},
		{"step", "right", true, engine.OutcomeMoved, service.EventMove},
		{"push onto target", "RIGHT", true, engine.OutcomePushed, service.EventPush},
		{"after win", "left", false, engine.OutcomeGameOver, service.EventBlocked},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := svc.Move(ctx, info.ID, test.direction, false)
			if err != nil {
				t.Fatalf("Move failed: %v", err)
			}
			if result.Success != test.success {
				t.Errorf("Expected success=%v, got %v", test.success, result.Success)
			}
			if result.Step == nil || result.Step.Outcome != test.outcome {
				t.Fatalf("Expected outcome %s, got %+v", test.outcome, result.Step)
			}
			if len(result.Events) == 0 || result.Events[0].Type != test.event {
				t.Errorf("Expected first event %s, got %+v", test.event, result.Events)
			}
		})
	}

	state, _ := svc.GetGameState(ctx, info.ID)
	if !state.Victory || state.Steps != 2 {
		t.Errorf("Expected solved game in 2 steps, got %+v", state)
	}
}

func TestGameService_MoveVictoryEvent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "line")

	svc.Move(ctx, info.ID, "right", false)
	result, _ := svc.Move(ctx, info.ID, "right", false)

	if !result.Step.Victory || !result.GameState.Victory {
		t.Fatal("Expected the push to win")
	}
	last := result.Events[len(result.Events)-1]
	if last.Type != service.EventVictory {
		t.Errorf("Expected victory event last, got %s", last.Type)
	}
	if len(result.PossibleMoves) != 0 {
		t.Errorf("Expected no possible moves after a win, got %v", result.PossibleMoves)
	}
}

func TestGameService_MoveWithReset(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "line")

	svc.Move(ctx, info.ID, "right", false)
	result, err := svc.Move(ctx, info.ID, "right", true)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Events[0].Type != service.EventReset {
		t.Errorf("Expected reset event first, got %s", result.Events[0].Type)
	}
	if result.GameState.Steps != 1 || result.GameState.Victory {
		t.Errorf("Expected one step after reset, got %+v", result.GameState)
	}
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()

	t.Run("solves and stops", func(t *testing.T) {
		svc, _, _ := newTestService()
		info, _ := svc.CreateSession(ctx, "")

		moves := []string{"up", "left", "down", "up", "left", "down", "down"}
		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Success || !result.Won {
			t.Fatalf("Expected win, got %+v", result)
		}
		if result.MovesExecuted != 6 || result.StoppedOnMove != 6 {
			t.Errorf("Expected stop after 6 moves, got %d/%d", result.MovesExecuted, result.StoppedOnMove)
		}
		if result.StopReasonCode != service.EventVictory {
			t.Errorf("Expected victory stop code, got %q", result.StopReasonCode)
		}
		if result.RequestedMoves != 7 || len(result.Steps) != 6 {
			t.Errorf("Unexpected counts requested=%d steps=%d", result.RequestedMoves, len(result.Steps))
		}
	})

	t.Run("stops at first rejection", func(t *testing.T) {
		svc, _, _ := newTestService()
		info, _ := svc.CreateSession(ctx, "")

		result, err := svc.BulkMove(ctx, info.ID, []string{"right", "right", "up"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.Success {
			t.Error("Expected failure")
		}
		if result.MovesExecuted != 1 || result.StoppedOnMove != 2 {
			t.Errorf("Expected stop on move 2 after 1 executed, got %d/%d", result.MovesExecuted, result.StoppedOnMove)
		}
		if result.StopReasonCode != string(engine.OutcomeBlockedWall) {
			t.Errorf("Expected blocked_wall, got %q", result.StopReasonCode)
		}
		if result.StartPos != (engine.Position{Row: 2, Col: 4}) || result.EndPos != (engine.Position{Row: 2, Col: 5}) {
			t.Errorf("Unexpected positions %v -> %v", result.StartPos, result.EndPos)
		}
	})

	t.Run("truncates", func(t *testing.T) {
		svc, _, _ := newTestService()
		info, _ := svc.CreateSession(ctx, "")

		moves := make([]string, 0, engine.MaxBulkMoves+10)
		for len(moves) < engine.MaxBulkMoves+10 {
			moves = append(moves, "down", "up")
		}
		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Truncated || result.Limit != engine.MaxBulkMoves {
			t.Errorf("Expected truncation at %d", engine.MaxBulkMoves)
		}
		if result.MovesExecuted != engine.MaxBulkMoves {
			t.Errorf("Expected %d moves, got %d", engine.MaxBulkMoves, result.MovesExecuted)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _, _ := newTestService()
		if _, err := svc.BulkMove(ctx, "missing", []string{"up"}, false); err == nil {
			t.Error("Expected error for unknown session")
		}
	})
}

func TestGameService_Reset(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	svc.BulkMove(ctx, info.ID, []string{"up", "left"}, false)
	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.Steps != 0 || state.Status != engine.StatusPlaying {
		t.Errorf("Unexpected state after reset: %+v", state)
	}
	if state.PlayerPos != info.GameState.PlayerPos {
		t.Errorf("Expected player back at %v, got %v", info.GameState.PlayerPos, state.PlayerPos)
	}

	if _, err := svc.Reset(ctx, "missing"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestGameService_Levels(t *testing.T) {
	svc, _, levels := newTestService()
	ctx := context.Background()

	infos, err := svc.ListLevels(ctx)
	if err != nil {
		t.Fatalf("ListLevels failed: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("Expected 2 levels, got %d", len(infos))
	}

	level := &engine.Level{ID: "new", Name: "New", Layout: []string{"@$."}}
	if err := svc.SaveLevel(ctx, level); err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if len(levels.saved) != 1 {
		t.Error("Expected level manager to receive the level")
	}

	loaded, err := svc.LoadLevel(ctx, "new")
	if err != nil || loaded != level {
		t.Errorf("Expected saved level back, got %v, %v", loaded, err)
	}
}
