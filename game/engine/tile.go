package engine

// Tile is the current occupant of a grid cell. Whether the cell is a target
// is tracked by the Board, not by the tile value.
type Tile int

const (
	Empty Tile = iota
	Wall
	Floor
	Target
	Box
	BoxOnTarget
	Player
)

var tileNames = map[Tile]string{
	Empty:       "empty",
	Wall:        "wall",
	Floor:       "floor",
	Target:      "target",
	Box:         "box",
	BoxOnTarget: "box_on_target",
	Player:      "player",
}

// String returns the snake_case name used in JSON payloads and logs.
func (t Tile) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsBox reports whether the tile holds a box, on a target or not.
func (t Tile) IsBox() bool {
	return t == Box || t == BoxOnTarget
}

// Passable reports whether the player could step into the tile without pushing.
func (t Tile) Passable() bool {
	return t == Floor || t == Target || t == Empty
}

// Glyphs used by the level parser. Both the classic XSB notation and the
// block-character set are accepted.
const (
	GlyphWall           = '#'
	GlyphFloor          = ' '
	GlyphPlayer         = '@'
	GlyphPlayerOnTarget = '+'
	GlyphTarget         = '.'
	GlyphBox            = '$'
	GlyphBoxOnTarget    = '*'

	GlyphBlockWall        = '▒'
	GlyphBlockPlayer      = '▲'
	GlyphBlockTarget      = '◽'
	GlyphBlockBox         = '◎'
	GlyphBlockBoxOnTarget = '◉'
)

// glyphKind is what a level glyph describes: the occupant and whether the
// underlying cell is a target.
type glyphKind struct {
	tile   Tile
	target bool
}

func classifyGlyph(r rune) glyphKind {
	switch r {
	case GlyphWall, GlyphBlockWall:
		return glyphKind{tile: Wall}
	case GlyphFloor, '-', '_':
		return glyphKind{tile: Floor}
	case GlyphPlayer, GlyphBlockPlayer:
		return glyphKind{tile: Player}
	case GlyphPlayerOnTarget:
		return glyphKind{tile: Player, target: true}
	case GlyphTarget, GlyphBlockTarget:
		return glyphKind{tile: Target, target: true}
	case GlyphBox, GlyphBlockBox:
		return glyphKind{tile: Box}
	case GlyphBoxOnTarget, GlyphBlockBoxOnTarget:
		return glyphKind{tile: BoxOnTarget, target: true}
	default:
		return glyphKind{tile: Empty}
	}
}

// xsbGlyph maps a tile back to XSB notation for snapshots.
func xsbGlyph(t Tile, target bool) rune {
	switch t {
	case Wall:
		return GlyphWall
	case Target:
		return GlyphTarget
	case Box:
		return GlyphBox
	case BoxOnTarget:
		return GlyphBoxOnTarget
	case Player:
		if target {
			return GlyphPlayerOnTarget
		}
		return GlyphPlayer
	case Floor:
		return GlyphFloor
	default:
		if target {
			return GlyphTarget
		}
		return GlyphFloor
	}
}
