package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
	"gopkg.in/yaml.v3"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
	ErrReadOnly      = errors.New("level catalog has no directory to save into")
)

const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
)

var levelIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Manager handles level loading and caching. Built-in levels are always
// available; a directory of YAML or JSON files can extend the catalog.
type Manager struct {
	levelDir     string
	builtin      map[string]*engine.Level
	builtinOrder []string
	defaultLevel *engine.Level
	levels       map[string]*engine.Level
	mu           sync.RWMutex
}

// NewManager creates a level manager. An empty levelDir serves only the
// built-in levels.
func NewManager(levelDir string, builtin []engine.Level) (*Manager, error) {
	if levelDir != "" {
		info, err := os.Stat(levelDir)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read level directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("level path is not a directory: %s", levelDir)
		}
	}

	m := &Manager{
		levelDir: levelDir,
		builtin:  make(map[string]*engine.Level),
		levels:   make(map[string]*engine.Level),
	}

	for i := range builtin {
		level := builtin[i]
		if err := checkLevel(&level); err != nil {
			return nil, err
		}
		key := strings.ToLower(level.ID)
		if _, dup := m.builtin[key]; dup {
			return nil, fmt.Errorf("%w: duplicate built-in level %q", ErrInvalidLevel, level.ID)
		}
		m.builtin[key] = &level
		m.builtinOrder = append(m.builtinOrder, key)
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel resolves a level by ID. Built-in IDs win over files with the same
// stem, and a file ID wins over a catalog index. Any other number selects the
// Nth entry of ListLevels, counting from 1.
func (m *Manager) LoadLevel(id string) (*engine.Level, error) {
	id = strings.TrimSpace(id)
	level, err := m.resolve(id)
	if errors.Is(err, ErrLevelNotFound) {
		if n, convErr := strconv.Atoi(id); convErr == nil {
			return m.loadByIndex(n)
		}
	}
	return level, err
}

// resolve looks id up among the built-in levels, the cache and the level
// directory. It never falls back to a catalog index.
func (m *Manager) resolve(id string) (*engine.Level, error) {
	if id == "" {
		return nil, ErrLevelNotFound
	}
	key := strings.ToLower(id)

	m.mu.RLock()
	if level, exists := m.builtin[key]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	if level, exists := m.levels[key]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	if m.levelDir == "" || !levelIDPattern.MatchString(id) {
		return nil, ErrLevelNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[key]; exists {
		return level, nil
	}

	level, err := m.readFromDir(id)
	if err != nil {
		return nil, err
	}

	m.levels[key] = level
	return level, nil
}

func (m *Manager) readFromDir(id string) (*engine.Level, error) {
	for _, ext := range levelExtensions {
		path := filepath.Join(m.levelDir, id+ext)
		level, err := ReadLevelFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidLevel, filepath.Base(path), err)
		}
		level.ID = id
		if err := checkLevel(level); err != nil {
			return nil, err
		}
		return level, nil
	}
	return nil, ErrLevelNotFound
}

func (m *Manager) loadByIndex(n int) (*engine.Level, error) {
	infos, err := m.ListLevels()
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(infos) {
		return nil, ErrLevelNotFound
	}
	return m.resolve(infos[n-1].ID)
}

// ListLevels returns the built-in levels followed by the valid level files,
// sorted by file name. Files that fail to load are skipped.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	m.mu.RLock()
	var infos []*service.LevelInfo
	for _, key := range m.builtinOrder {
		infos = append(infos, describe(m.builtin[key], SourceBuiltin, ""))
	}
	m.mu.RUnlock()

	if m.levelDir == "" {
		return infos, nil
	}

	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !isLevelFile(entry.Name()) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		key := strings.ToLower(id)
		if seen[key] {
			continue
		}
		m.mu.RLock()
		_, shadowed := m.builtin[key]
		m.mu.RUnlock()
		if shadowed {
			continue
		}

		level, err := m.resolve(id)
		if err != nil {
			// Skip invalid levels
			continue
		}
		seen[key] = true
		infos = append(infos, describe(level, SourceFile, entry.Name()))
	}

	return infos, nil
}

func describe(level *engine.Level, source, filename string) *service.LevelInfo {
	info := &service.LevelInfo{
		ID:          level.ID,
		Name:        level.Name,
		Description: level.Description,
		Source:      source,
		Filename:    filename,
	}
	if board, err := engine.NewBoard(level); err == nil {
		info.Rows = board.Rows()
		info.Cols = board.Width()
		info.Boxes = engine.CountBoxes(board)
		info.Targets = len(board.Targets())
	}
	return info
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by ID
func (m *Manager) SetDefault(id string) error {
	level, err := m.LoadLevel(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache drops cached level files so the next lookup reads them again.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.Level)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

func (m *Manager) loadDefaultLevel() error {
	id := DefaultLevelID
	m.mu.RLock()
	if m.defaultLevel != nil {
		id = m.defaultLevel.ID
	}
	m.mu.RUnlock()

	level, err := m.LoadLevel(id)
	if err != nil {
		// Fall back to the first level in the catalog
		infos, listErr := m.ListLevels()
		if listErr != nil {
			return listErr
		}
		if len(infos) == 0 {
			return fmt.Errorf("%w: catalog is empty", ErrLevelNotFound)
		}
		level, err = m.LoadLevel(infos[0].ID)
		if err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.defaultLevel = level
	m.mu.Unlock()
	return nil
}

// SaveLevel writes a level to <dir>/<id>.yaml and caches it.
func (m *Manager) SaveLevel(level *engine.Level) error {
	if level == nil {
		return fmt.Errorf("%w: nil level", ErrInvalidLevel)
	}
	if m.levelDir == "" {
		return ErrReadOnly
	}
	if !levelIDPattern.MatchString(level.ID) {
		return fmt.Errorf("%w: id %q must use letters, digits, '-' or '_'", ErrInvalidLevel, level.ID)
	}
	if _, err := strconv.Atoi(level.ID); err == nil {
		return fmt.Errorf("%w: id %q would shadow a catalog index", ErrInvalidLevel, level.ID)
	}
	if err := checkLevel(level); err != nil {
		return err
	}

	key := strings.ToLower(level.ID)
	m.mu.RLock()
	_, builtin := m.builtin[key]
	m.mu.RUnlock()
	if builtin {
		return fmt.Errorf("%w: %q is a built-in level", ErrInvalidLevel, level.ID)
	}

	data, err := yaml.Marshal(documentFor(level))
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	path := filepath.Join(m.levelDir, level.ID+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	saved := *level
	saved.Layout = append([]string(nil), level.Layout...)

	m.mu.Lock()
	m.levels[key] = &saved
	m.mu.Unlock()

	return nil
}

// checkLevel rejects levels the engine cannot start. Nothing beyond the
// player marker is verified.
func checkLevel(level *engine.Level) error {
	if level.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidLevel)
	}
	if _, err := engine.NewBoard(level); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidLevel, level.ID, err)
	}
	return nil
}
