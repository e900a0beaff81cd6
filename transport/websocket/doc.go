// Package websocket lets spectators watch a Sokoban session live.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each connection gets a read pump and a write pump
// goroutine; the hub goroutine owns the client registry.
//
// Message Protocol:
//
// Spectators connect to /ws?session=<id> and receive JSON messages:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "session_closed"}
//
// A state_update carries the full board snapshot after every move or reset.
// Incoming frames are ignored.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
