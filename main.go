// Command sokoban plays box-pushing puzzles in the terminal and serves them
// to remote players.
//
// Commands:
//  1. "play" (default) – plays a level interactively on stdin/stdout
//  2. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  3. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  4. "levels" – lists the level catalog
//
// Flags control the levels directory, debug logging, rendering, and optional
// ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/sokoban/api"
	"github.com/wricardo/mcp-training/sokoban/game/console"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/levels"
	"github.com/wricardo/mcp-training/sokoban/game/service"
	"github.com/wricardo/mcp-training/sokoban/game/session"
	"github.com/wricardo/mcp-training/sokoban/transport/mcp"
	"github.com/wricardo/mcp-training/sokoban/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "sokoban"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("error loading .env file")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logrus.Fatal(err)
	}
}

// newApp builds the command tree. Root flags are inherited by every command.
func newApp() *cli.Command {
	return &cli.Command{
		Name:           AppName,
		Usage:          "push every box onto a target",
		Version:        Version,
		DefaultCommand: "play",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("SOKOBAN_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "log format: text or json",
				Sources: cli.EnvVars("SOKOBAN_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "levels-dir",
				Usage:   "directory of YAML/JSON level files added to the built-in levels",
				Sources: cli.EnvVars("SOKOBAN_LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "level id or 1-based catalog index (default: " + levels.DefaultLevelID + ")",
				Sources: cli.EnvVars("SOKOBAN_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "glyphs",
				Value:   "unicode",
				Usage:   "tile glyphs: unicode or ascii",
				Sources: cli.EnvVars("SOKOBAN_GLYPHS"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "disable colors",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "force-color",
				Usage: "emit colors even when stdout is not a terminal",
			},
			&cli.BoolFlag{
				Name:  "notify-blocked",
				Usage: "print a notice when a move is blocked",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := configureLogging(logrus.StandardLogger(), cmd.Bool("debug"), cmd.String("log-format")); err != nil {
				return ctx, cli.Exit(err.Error(), 2)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "play",
				Usage:     "play a level in the terminal",
				ArgsUsage: "[level]",
				Action:    runPlay,
			},
			{
				Name:  "serve",
				Usage: "run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Value: "localhost",
						Usage: "HTTP server host",
					},
					&cli.IntFlag{
						Name:    "port",
						Value:   8080,
						Usage:   "HTTP server port",
						Sources: cli.EnvVars("PORT"),
					},
					&cli.DurationFlag{
						Name:  "session-ttl",
						Value: 24 * time.Hour,
						Usage: "remove sessions not used for this long",
					},
					&cli.BoolFlag{
						Name:    "ngrok",
						Usage:   "enable ngrok tunnel",
						Sources: cli.EnvVars("NGROK_ENABLED"),
					},
					&cli.StringFlag{
						Name:    "ngrok-auth",
						Usage:   "ngrok auth token",
						Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "ngrok-domain",
						Usage:   "custom ngrok domain (optional)",
						Sources: cli.EnvVars("NGROK_DOMAIN"),
					},
				},
				Action: runServe,
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server backed by the REST API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "REST API to proxy to; an internal server is started when it is not reachable",
						Sources: cli.EnvVars("SOKOBAN_API_URL"),
					},
				},
				Action: runMCP,
			},
			{
				Name:   "levels",
				Usage:  "list the level catalog",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "render", Usage: "draw each level"}},
				Action: runLevels,
			},
		},
	}
}

// configureLogging sets the level and formatter of log. Logs always go to
// stderr so stdout stays free for the game and the MCP protocol.
func configureLogging(log *logrus.Logger, debug bool, format string) error {
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}

	switch format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", format)
	}
	return nil
}

// initializeServices wires the level catalog, the session registry and the
// game service.
func initializeServices(levelsDir, defaultLevel string, log logrus.FieldLogger) (service.GameService, *session.Manager, *levels.Manager, error) {
	levelManager, err := levels.NewManager(levelsDir, levels.Builtin())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create level manager: %w", err)
	}

	if defaultLevel != "" {
		if err := levelManager.SetDefault(defaultLevel); err != nil {
			return nil, nil, nil, fmt.Errorf("default level: %w", err)
		}
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, levelManager, service.WithLogger(log))

	return gameService, sessionManager, levelManager, nil
}

// selectLevel resolves the level to play: the positional argument, then the
// --level flag, then the catalog default.
func selectLevel(manager *levels.Manager, id string) (*engine.Level, error) {
	if id == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadLevel(id)
}

func renderOptions(cmd *cli.Command) (console.RenderOptions, error) {
	glyphs, err := console.ParseGlyphSet(cmd.String("glyphs"))
	if err != nil {
		return console.RenderOptions{}, err
	}
	return console.RenderOptions{
		Glyphs:     glyphs,
		NoColor:    cmd.Bool("no-color"),
		ForceColor: cmd.Bool("force-color"),
	}, nil
}

// runPlay plays one level on the terminal until it is solved or the player quits.
func runPlay(ctx context.Context, cmd *cli.Command) error {
	log := logrus.StandardLogger()

	manager, err := levels.NewManager(cmd.String("levels-dir"), levels.Builtin())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	id := cmd.Args().First()
	if id == "" {
		id = cmd.String("level")
	}
	level, err := selectLevel(manager, id)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts, err := renderOptions(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	out := cmd.Root().Writer
	driver := console.NewDriver(eng, cmd.Root().Reader, out,
		console.WithRenderer(console.NewRenderer(out, opts)),
		console.WithLogger(log),
		console.WithBlockedNotice(cmd.Bool("notify-blocked")),
	)

	result, err := driver.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.WithFields(logrus.Fields{
		"level": level.ID,
		"won":   result.Won,
		"steps": result.Steps,
	}).Debug("game finished")
	return nil
}

// runLevels prints the catalog, optionally drawing each level.
func runLevels(ctx context.Context, cmd *cli.Command) error {
	manager, err := levels.NewManager(cmd.String("levels-dir"), levels.Builtin())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts, err := renderOptions(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	out := cmd.Root().Writer
	return printLevels(out, manager, cmd.Bool("render"), console.NewRenderer(out, opts))
}

func printLevels(w io.Writer, manager *levels.Manager, render bool, renderer *console.Renderer) error {
	infos, err := manager.ListLevels()
	if err != nil {
		return err
	}

	defaultID := manager.GetDefault().ID
	for i, info := range infos {
		marker := " "
		if info.ID == defaultID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %2d. %-12s %-20s %2dx%-2d boxes=%d targets=%d (%s)\n",
			marker, i+1, info.ID, info.Name, info.Rows, info.Cols, info.Boxes, info.Targets, info.Source)

		if render {
			level, err := manager.LoadLevel(info.ID)
			if err != nil {
				return err
			}
			board, err := engine.NewBoard(level)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			fmt.Fprint(w, renderer.Render(board))
			fmt.Fprintln(w)
		}
	}
	return nil
}

// newHTTPHandler combines the REST API and the /mcp JSON-RPC endpoint.
func newHTTPHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()

	// Mount API server at root
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	log := logrus.StandardLogger()

	gameService, sessionManager, _, err := initializeServices(cmd.String("levels-dir"), cmd.String("level"), log)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Create WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	go sessionCleanupRoutine(ctx, sessionManager, cmd.Duration("session-ttl"), time.Hour, log)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	apiServer := api.NewServer(gameService, hub, log)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	handler := newHTTPHandler(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.WithFields(logrus.Fields{
			"rest":      fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("HTTP server listening on %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), handler, log)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		cancel()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info("server stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler, log logrus.FieldLogger) {
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.WithField("domain", domain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	ngrokURL := tun.URL()
	log.WithFields(logrus.Fields{
		"rest":      ngrokURL + "/api",
		"websocket": ngrokURL + "/ws?session=<session_id>",
		"mcp":       ngrokURL + "/mcp",
	}).Infof("ngrok tunnel established: %s", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	// Serve HTTP through ngrok tunnel
	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.WithError(err).Error("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl, interval time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.WithField("removed", removed).Info("cleaned up expired sessions")
			}
		}
	}
}

// apiReachable reports whether a REST API answers its health check at baseURL.
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns
// its base URL.
func startInternalAPI(ctx context.Context, gameService service.GameService, log logrus.FieldLogger) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub, log)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("internal HTTP server error")
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	return fmt.Sprintf("http://%s", listener.Addr().String()), nil
}

// runMCP runs an MCP stdio server. It reuses the API at --api-url when one
// answers; otherwise it starts an internal HTTP API and targets that.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	log := logrus.StandardLogger()

	baseURL := cmd.String("api-url")
	if apiReachable(ctx, baseURL) {
		log.WithField("url", baseURL).Info("using external API server for MCP")
	} else {
		gameService, sessionManager, _, err := initializeServices(cmd.String("levels-dir"), cmd.String("level"), log)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		go sessionCleanupRoutine(ctx, sessionManager, 24*time.Hour, time.Hour, log)

		baseURL, err = startInternalAPI(ctx, gameService, log)
		if err != nil {
			return err
		}
		log.WithField("url", baseURL).Info("started internal API server for MCP")
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
