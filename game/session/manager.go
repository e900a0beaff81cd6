package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidLevel         = errors.New("invalid level")
	ErrNoSessionID          = errors.New("could not allocate a session id")
)

// maxIDAttempts bounds the search for an unused generated ID.
const maxIDAttempts = 1000

var randRead = rand.Read

// Manager handles game session lifecycle. Sessions live in memory only.
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Create starts a new session on level. An empty id gets a generated
// 4-character one; a supplied id must not collide with a live session.
func (m *Manager) Create(id string, level *engine.Level) (*service.Session, error) {
	if level == nil {
		return nil, ErrInvalidLevel
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case id == "":
		if id, err = m.generateSessionID(); err != nil {
			return nil, err
		}
	case m.sessions[sessionKey(id)] != nil:
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Level:          level,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[sessionKey(id)] = sess
	return sess, nil
}

// Get looks a session up by ID, ignoring case.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(id)
}

func (m *Manager) GetOrCreate(id string, level *engine.Level) (*service.Session, error) {
	sess, err := m.Get(id)
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, level)
	}
	return sess, err
}

// List returns the live sessions in no particular order.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookup(id); err != nil {
		return err
	}
	delete(m.sessions, sessionKey(id))
	return nil
}

// UpdateLastAccessed marks the session as used now, postponing its expiry.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	sess.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge and
// returns how many were dropped.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// lookup must be called with the lock held.
func (m *Manager) lookup(id string) (*service.Session, error) {
	sess, ok := m.sessions[sessionKey(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func sessionKey(id string) string {
	return strings.ToLower(id)
}

// generateSessionID returns an unused random 4-hex-digit ID. Callers must
// hold the write lock.
func (m *Manager) generateSessionID() (string, error) {
	buf := make([]byte, 2)
	for i := 0; i < maxIDAttempts; i++ {
		if _, err := randRead(buf); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoSessionID, err)
		}
		id := hex.EncodeToString(buf)
		if _, taken := m.sessions[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %d attempts collided", ErrNoSessionID, maxIDAttempts)
}
