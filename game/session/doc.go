// Package session provides session management for the Sokoban game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Each session owns one engine playing one level, so players never share a
// board. Sessions are kept in memory and are gone when the process exits.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive, and generated IDs never collide with a live session.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
//	// Drop sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
