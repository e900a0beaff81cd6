package levels

import "github.com/wricardo/mcp-training/sokoban/game/engine"

// DefaultLevelID is the level played when none is requested.
const DefaultLevelID = "pillars"

var builtinLevels = []engine.Level{
	{
		ID:          "yard",
		Name:        "Yard",
		Description: "Six boxes, four targets, plenty of room to get stuck",
		Layout: []string{
			"##########",
			"#   ######",
			"#   # @ ##",
			"# .$ $#  #",
			"#  #     #",
			"# #.*#$  #",
			"# #  #  ##",
			"#   ##* ##",
			"# # $   ##",
			"#       ##",
			"##########",
		},
	},
	{
		ID:          "closet",
		Name:        "Closet",
		Description: "One box, one target, one narrow room",
		Layout: []string{
			"####",
			"# .#",
			"#  ###",
			"#* @ #",
			"#  $ #",
			"#  ###",
			"####",
		},
	},
	{
		ID:          "pillars",
		Name:        "Pillars",
		Description: "A short warm-up around a single pillar",
		Layout: []string{
			"######",
			"#    #",
			"# #@ #",
			"# $* #",
			"# .* #",
			"#    #",
			"######",
		},
	},
	{
		ID:          "cellar",
		Name:        "Cellar",
		Description: "Two boxes along the east wall",
		Layout: []string{
			"  ####",
			"###  ####",
			"#     $ #",
			"# #  #$ #",
			"# . .#@ #",
			"#########",
		},
	},
}

// Builtin returns a fresh copy of the levels shipped with the game.
func Builtin() []engine.Level {
	out := make([]engine.Level, len(builtinLevels))
	for i, level := range builtinLevels {
		out[i] = level
		out[i].Layout = append([]string(nil), level.Layout...)
	}
	return out
}
