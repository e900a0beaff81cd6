// Package api provides the HTTP REST API for remote Sokoban sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session, body {"level_id": "cellar"} (optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session and notify spectators
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current board snapshot
//   - POST /api/sessions/{id}/move - Body {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - Body {"moves": ["up", "left"], "reset": false}
//   - POST /api/sessions/{id}/reset - Restore the level's initial board
//
// Levels:
//   - GET /api/levels - Level catalog, built-ins first
//   - GET /api/levels/{id} - One level with its layout
//   - POST /api/levels - Save a level to the levels directory
//
// Spectating:
//   - GET /ws?session={id} - WebSocket stream of state_update events
//
// A rejected move is not an HTTP error. The response carries success=false
// and step.outcome names the reason (blocked_wall, push_blocked_box, ...).
//
// Errors are returned as JSON with the matching HTTP status code:
//
//	{
//	  "error": "session ab12: session not found",
//	  "code": 404
//	}
package api
