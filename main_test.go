package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/mcp-training/sokoban/api"
	"github.com/wricardo/mcp-training/sokoban/game/console"
	"github.com/wricardo/mcp-training/sokoban/game/levels"
	"github.com/wricardo/mcp-training/sokoban/transport/mcp"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "sokoban" {
		t.Errorf("Expected app name sokoban, got %s", AppName)
	}
}

func TestConfigureLogging(t *testing.T) {
	log := logrus.New()

	if err := configureLogging(log, true, "json"); err != nil {
		t.Fatalf("configureLogging failed: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %s", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter, got %T", log.Formatter)
	}

	if err := configureLogging(log, false, "text"); err != nil {
		t.Fatalf("configureLogging failed: %v", err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %s", log.GetLevel())
	}

	if err := configureLogging(log, false, "xml"); err == nil {
		t.Error("Expected error for unknown log format")
	}
}

func TestInitializeServices(t *testing.T) {
	t.Run("built-ins", func(t *testing.T) {
		gameService, sessions, manager, err := initializeServices("", "", quietLogger())
		if err != nil {
			t.Fatalf("Failed to initialize services: %v", err)
		}
		if gameService == nil || sessions == nil {
			t.Fatal("Expected services to be initialized")
		}
		if manager.GetDefault().ID != levels.DefaultLevelID {
			t.Errorf("Expected default %s, got %s", levels.DefaultLevelID, manager.GetDefault().ID)
		}

		info, err := gameService.CreateSession(context.Background(), "")
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if sessions.Count() != 1 || info.LevelID != levels.DefaultLevelID {
			t.Errorf("Unexpected session %+v", info)
		}
	})

	t.Run("default level", func(t *testing.T) {
		_, _, manager, err := initializeServices("", "cellar", quietLogger())
		if err != nil {
			t.Fatalf("Failed to initialize services: %v", err)
		}
		if manager.GetDefault().ID != "cellar" {
			t.Errorf("Expected cellar, got %s", manager.GetDefault().ID)
		}
	})

	t.Run("unknown default level", func(t *testing.T) {
		_, _, _, err := initializeServices("", "nowhere", quietLogger())
		if !errors.Is(err, levels.ErrLevelNotFound) {
			t.Errorf("Expected ErrLevelNotFound, got %v", err)
		}
	})

	t.Run("invalid levels dir", func(t *testing.T) {
		if _, _, _, err := initializeServices("/non/existent/path", "", quietLogger()); err == nil {
			t.Error("Expected error for non-existent levels directory")
		}
	})
}

func TestSelectLevel(t *testing.T) {
	manager, err := levels.NewManager("", levels.Builtin())
	if err != nil {
		t.Fatal(err)
	}

	level, err := selectLevel(manager, "")
	if err != nil || level.ID != levels.DefaultLevelID {
		t.Errorf("Expected default level, got %v, %v", level, err)
	}

	level, err = selectLevel(manager, "1")
	if err != nil || level.ID != "yard" {
		t.Errorf("Expected yard by index, got %v, %v", level, err)
	}

	if _, err := selectLevel(manager, "missing"); !errors.Is(err, levels.ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

func TestPrintLevels(t *testing.T) {
	dir := t.TempDir()
	content := "name: Corner\nlayout: |\n  #####\n  #@$.#\n  #####\n"
	if err := os.WriteFile(filepath.Join(dir, "corner.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := levels.NewManager(dir, levels.Builtin())
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	renderer := console.NewRenderer(&out, console.RenderOptions{Glyphs: console.GlyphsASCII, NoColor: true})
	if err := printLevels(&out, manager, true, renderer); err != nil {
		t.Fatalf("printLevels failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"*  3. pillars", "5. corner", "(file)", "# @ $ . # "} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestApp_Play(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		input    string
		expected []string
	}{
		{
			name:     "default command",
			args:     []string{"sokoban", "--glyphs", "ascii", "--no-color"},
			input:    "q\n",
			expected: []string{"Pillars  Steps: 0"},
		},
		{
			name:  "level argument",
			args:  []string{"sokoban", "play", "--glyphs", "ascii", "--no-color", "closet"},
			input: "x\nq\n",
			expected: []string{
				"Closet  Steps: 0",
				"Invalid input. Use W/A/S/D to move, R to reset, Q to quit.",
			},
		},
		{
			name:     "solve pillars",
			args:     []string{"sokoban", "--no-color", "--level", "pillars"},
			input:    "d\ns\ns\na\nd\nw\nw\na\ns\nw\nw\na\na\ns\ns\nd\n",
			expected: []string{"You've won the game in 16 steps!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			app := newApp()
			app.Reader = strings.NewReader(tt.input)
			app.Writer = &out

			if err := app.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			for _, want := range tt.expected {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected %q in output:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestNewHTTPHandler(t *testing.T) {
	gameService, _, _, err := initializeServices("", "", quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	handler := newHTTPHandler(api.NewServer(gameService, nil, quietLogger()), mcp.NewClient("http://127.0.0.1:1"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected API to be mounted at root, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /mcp, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", body))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"result"`) {
		t.Errorf("Expected JSON-RPC result, got %d %s", w.Code, w.Body.String())
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	gameService, sessions, _, err := initializeServices("", "", quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gameService.CreateSession(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessionCleanupRoutine(ctx, sessions, time.Nanosecond, 5*time.Millisecond, quietLogger())

	deadline := time.Now().Add(2 * time.Second)
	for sessions.Count() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected expired session to be removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartInternalAPI(t *testing.T) {
	gameService, _, _, err := initializeServices("", "", quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL, err := startInternalAPI(ctx, gameService, quietLogger())
	if err != nil {
		t.Fatalf("startInternalAPI failed: %v", err)
	}
	if !apiReachable(ctx, baseURL) {
		t.Errorf("Expected internal API at %s to answer", baseURL)
	}
	if apiReachable(ctx, "http://127.0.0.1:1") {
		t.Error("Expected nothing to answer on port 1")
	}
}
