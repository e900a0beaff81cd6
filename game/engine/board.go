package engine

import (
	"errors"
	"sort"
	"strings"
)

// ErrNoPlayer is returned when a level has no player start marker.
var ErrNoPlayer = errors.New("level has no player start")

// Board holds the tile grid, the player position, the fixed target set and
// the step counter of one playthrough.
//
// Rows may differ in length. Accessors are primitive and do not enforce game
// rules; GameEngine is the only writer.
type Board struct {
	grid    [][]Tile
	player  Position
	targets map[Position]struct{}
	steps   int
}

// NewBoard builds the initial board for a level.
func NewBoard(level *Level) (*Board, error) {
	if level == nil {
		return nil, errors.New("level cannot be nil")
	}
	return ParseBoard(level.Layout)
}

// ParseBoard parses layout lines into a board. The first player marker in
// row-major order is the start; further markers are read as floor.
func ParseBoard(lines []string) (*Board, error) {
	b := &Board{
		grid:    make([][]Tile, len(lines)),
		targets: make(map[Position]struct{}),
	}

	found := false
	for r, line := range lines {
		line = strings.TrimRight(line, "\r")
		runes := []rune(line)
		row := make([]Tile, len(runes))
		for c, ch := range runes {
			kind := classifyGlyph(ch)
			pos := Position{Row: r, Col: c}
			if kind.target {
				b.targets[pos] = struct{}{}
			}

			tile := kind.tile
			if tile == Player {
				if found {
					tile = Floor
					if kind.target {
						tile = Target
					}
				} else {
					b.player = pos
					found = true
				}
			}
			row[c] = tile
		}
		b.grid[r] = row
	}

	if !found {
		return nil, ErrNoPlayer
	}
	return b, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return len(b.grid)
}

// RowLen returns the length of row r, or 0 when r is not a row.
func (b *Board) RowLen(r int) int {
	if r < 0 || r >= len(b.grid) {
		return 0
	}
	return len(b.grid[r])
}

// Width returns the length of the longest row.
func (b *Board) Width() int {
	w := 0
	for _, row := range b.grid {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// InBounds reports whether (row, col) is inside the grid, taking each row's
// own length into account.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < len(b.grid) && col >= 0 && col < len(b.grid[row])
}

// TileAt returns the tile at (row, col). ok is false when out of bounds.
func (b *Board) TileAt(row, col int) (tile Tile, ok bool) {
	if !b.InBounds(row, col) {
		return Empty, false
	}
	return b.grid[row][col], true
}

// IsTarget reports membership in the target set.
func (b *Board) IsTarget(row, col int) bool {
	_, ok := b.targets[Position{Row: row, Col: col}]
	return ok
}

// SetTile overwrites a cell. Out of bounds writes are ignored.
func (b *Board) SetTile(row, col int, tile Tile) {
	if !b.InBounds(row, col) {
		return
	}
	b.grid[row][col] = tile
}

// PlayerPosition returns the player's cell.
func (b *Board) PlayerPosition() Position {
	return b.player
}

// IncrementSteps adds one to the step counter.
func (b *Board) IncrementSteps() {
	b.steps++
}

// Steps returns the step counter.
func (b *Board) Steps() int {
	return b.steps
}

// Targets returns the target coordinates in row-major order.
func (b *Board) Targets() []Position {
	targets := make([]Position, 0, len(b.targets))
	for pos := range b.targets {
		targets = append(targets, pos)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].Row != targets[j].Row {
			return targets[i].Row < targets[j].Row
		}
		return targets[i].Col < targets[j].Col
	})
	return targets
}

// AllTargetsFilled reports whether every target holds a box.
func (b *Board) AllTargetsFilled() bool {
	for pos := range b.targets {
		if b.grid[pos.Row][pos.Col] != BoxOnTarget {
			return false
		}
	}
	return true
}

// vacatedTile is what a cell shows once its occupant leaves.
func (b *Board) vacatedTile(pos Position) Tile {
	if b.IsTarget(pos.Row, pos.Col) {
		return Target
	}
	return Floor
}

// boxTile is what a cell shows once a box arrives.
func (b *Board) boxTile(pos Position) Tile {
	if b.IsTarget(pos.Row, pos.Col) {
		return BoxOnTarget
	}
	return Box
}

// movePlayer relocates the player, restoring the vacated cell.
func (b *Board) movePlayer(to Position) {
	from := b.player
	b.grid[from.Row][from.Col] = b.vacatedTile(from)
	b.grid[to.Row][to.Col] = Player
	b.player = to
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	c := &Board{
		grid:    make([][]Tile, len(b.grid)),
		player:  b.player,
		targets: make(map[Position]struct{}, len(b.targets)),
		steps:   b.steps,
	}
	for i, row := range b.grid {
		c.grid[i] = append([]Tile(nil), row...)
	}
	for pos := range b.targets {
		c.targets[pos] = struct{}{}
	}
	return c
}

// Equal reports whether two boards have the same grid, player, targets and steps.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	if b.player != other.player || b.steps != other.steps {
		return false
	}
	if len(b.grid) != len(other.grid) || len(b.targets) != len(other.targets) {
		return false
	}
	for i := range b.grid {
		if len(b.grid[i]) != len(other.grid[i]) {
			return false
		}
		for j := range b.grid[i] {
			if b.grid[i][j] != other.grid[i][j] {
				return false
			}
		}
	}
	for pos := range b.targets {
		if _, ok := other.targets[pos]; !ok {
			return false
		}
	}
	return true
}

// Lines renders the board in XSB notation, one string per row.
func (b *Board) Lines() []string {
	lines := make([]string, len(b.grid))
	for r, row := range b.grid {
		var sb strings.Builder
		for c, tile := range row {
			sb.WriteRune(xsbGlyph(tile, b.IsTarget(r, c)))
		}
		lines[r] = sb.String()
	}
	return lines
}

// String returns Lines joined by newlines.
func (b *Board) String() string {
	return strings.Join(b.Lines(), "\n")
}
