// Package engine provides the core puzzle logic for the Sokoban game.
//
// The engine package implements:
//   - The tile grid model with per-row bounds and a fixed target set
//   - Level text parsing (XSB and block-character glyphs)
//   - Move and single-box push resolution
//   - Win evaluation and the Playing/Won state machine
//
// Core Types:
//
// Board owns the grid, the player position, the target set and the step
// counter. GameEngine applies directional moves to a Board and reports each
// outcome as a MoveResult. GameState is a read-only snapshot for rendering
// and transport.
//
// Usage:
//
//	level := &engine.Level{Name: "tiny", Layout: []string{"#####", "#@$.#", "#####"}}
//	eng, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err) // no player marker
//	}
//
//	result := eng.Move(engine.Right)
//	if result.Won {
//		fmt.Printf("solved in %d steps\n", eng.Steps())
//	}
//
// Game Rules:
//
// The player moves one cell at a time and may push a single box one cell
// forward. Walls, the grid edge and a second box stop a push. The puzzle is
// solved when every target holds a box; after that no further moves are
// accepted until Reset.
package engine
