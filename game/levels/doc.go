// Package levels provides the level catalog for the Sokoban game.
//
// The levels package handles:
//   - The built-in levels shipped with the binary
//   - Loading extra levels from YAML or JSON files
//   - Default level selection
//   - Level discovery and listing
//
// Level Format:
//
// Level files live in a single directory and are named after their ID
// (pillars.yaml, cellar.json). The layout may be written as a text block
// or as a list of rows:
//
//	name: Corner
//	description: Push the box into the corner target
//	layout: |
//	  #####
//	  #@$.#
//	  #####
//
// Both the classic XSB glyphs (# @ + $ * .) and the block glyphs used by the
// terminal renderer (▒ ▲ ◎ ◉ ◽) are accepted.
//
// Usage:
//
//	manager, err := levels.NewManager("levels", levels.Builtin())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("cellar")
//	defaultLevel := manager.GetDefault()
//	infos, err := manager.ListLevels()
//
// Only the presence of a player marker is checked when a level is loaded.
package levels
