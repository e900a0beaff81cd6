// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API served by "sokoban serve", and the JSON response is
// formatted as text for the agent.
//
// MCP Tools:
//   - create_session: Start a game on a level (optional level_id)
//   - list_sessions: List active sessions
//   - get_session: Session details with the current board
//   - game_state: Current board, steps and progress
//   - move: One move, with an optional reset first
//   - bulk_move: A move sequence that stops at the first blocked move
//   - reset_game: Restore the level's initial board
//   - list_levels: The level catalog
//   - describe_cell: Glyph and occupant of one cell
//   - game_instructions: Rules, legend and solving advice
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
