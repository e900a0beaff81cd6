// Package service provides the business logic layer for the Sokoban game.
//
// The service package implements:
//   - Multi-session game management
//   - Level catalog access
//   - Move processing with per-step outcomes
//   - Session lifecycle management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager resolves level IDs to level definitions.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine instance; the service
// serializes access so a single engine is never driven by two requests at once.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := levels.NewManager("levels", levels.Builtin())
//	gameService := service.NewGameService(sessionMgr, levelMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "cellar")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, "up", false)
//
// Moves:
//
// Rejected moves are not errors. They come back with Success=false and the
// engine outcome (blocked_wall, push_blocked_box, ...) in the step info.
// Errors are reserved for unknown sessions and levels.
package service
