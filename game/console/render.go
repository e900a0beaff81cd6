package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// GlyphSet selects the characters used to draw tiles
type GlyphSet int

const (
	GlyphsUnicode GlyphSet = iota
	GlyphsASCII
)

// ParseGlyphSet accepts "unicode" and "ascii" (or "xsb").
func ParseGlyphSet(s string) (GlyphSet, error) {
	switch strings.ToLower(s) {
	case "", "unicode":
		return GlyphsUnicode, nil
	case "ascii", "xsb":
		return GlyphsASCII, nil
	default:
		return GlyphsUnicode, fmt.Errorf("unknown glyph set %q (use unicode or ascii)", s)
	}
}

type glyphs struct {
	wall, floor, player, playerOnTarget, target, box, boxOnTarget rune
}

var glyphSets = map[GlyphSet]glyphs{
	GlyphsUnicode: {
		wall:           engine.GlyphBlockWall,
		floor:          engine.GlyphFloor,
		player:         engine.GlyphBlockPlayer,
		playerOnTarget: engine.GlyphBlockPlayer,
		target:         engine.GlyphBlockTarget,
		box:            engine.GlyphBlockBox,
		boxOnTarget:    engine.GlyphBlockBoxOnTarget,
	},
	GlyphsASCII: {
		wall:           engine.GlyphWall,
		floor:          engine.GlyphFloor,
		player:         engine.GlyphPlayer,
		playerOnTarget: engine.GlyphPlayerOnTarget,
		target:         engine.GlyphTarget,
		box:            engine.GlyphBox,
		boxOnTarget:    engine.GlyphBoxOnTarget,
	},
}

// RenderOptions configures a Renderer
type RenderOptions struct {
	Glyphs GlyphSet

	// NoColor disables styling. ForceColor emits ANSI colors even when the
	// output is not a terminal. NoColor wins when both are set.
	NoColor    bool
	ForceColor bool
}

// Renderer draws a board with one styled glyph per cell, each followed by a
// space so the grid keeps a roughly square aspect.
type Renderer struct {
	glyphs glyphs

	player         lipgloss.Style
	playerOnTarget lipgloss.Style
	box            lipgloss.Style
	target         lipgloss.Style
	plain          lipgloss.Style
}

// NewRenderer builds the tile styles for the terminal behind w.
func NewRenderer(w io.Writer, opts RenderOptions) *Renderer {
	lr := lipgloss.NewRenderer(w)
	switch {
	case opts.NoColor:
		lr.SetColorProfile(termenv.Ascii)
	case opts.ForceColor:
		lr.SetColorProfile(termenv.ANSI)
	}

	set, ok := glyphSets[opts.Glyphs]
	if !ok {
		set = glyphSets[GlyphsUnicode]
	}

	blue := lipgloss.Color("4")
	return &Renderer{
		glyphs:         set,
		player:         lr.NewStyle().Foreground(blue),
		playerOnTarget: lr.NewStyle().Foreground(blue).Underline(true),
		box:            lr.NewStyle().Foreground(lipgloss.Color("1")),
		target:         lr.NewStyle().Foreground(lipgloss.Color("5")),
		plain:          lr.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Cell returns the styled glyph for one cell, without the trailing space.
func (r *Renderer) Cell(tile engine.Tile, target bool) string {
	g := r.glyphs
	switch {
	case tile == engine.Player && target:
		return r.playerOnTarget.Render(string(g.playerOnTarget))
	case tile == engine.Player:
		return r.player.Render(string(g.player))
	case tile == engine.Box:
		return r.box.Render(string(g.box))
	case tile == engine.BoxOnTarget:
		return r.target.Render(string(g.boxOnTarget))
	case target:
		return r.target.Render(string(g.target))
	case tile == engine.Wall:
		return r.plain.Render(string(g.wall))
	default:
		return r.plain.Render(string(g.floor))
	}
}

// Render draws the whole board, one line per row.
func (r *Renderer) Render(b *engine.Board) string {
	var sb strings.Builder
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.RowLen(row); col++ {
			tile, _ := b.TileAt(row, col)
			sb.WriteString(r.Cell(tile, b.IsTarget(row, col)))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
