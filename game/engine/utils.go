package engine

// CountTiles counts the cells currently holding the given tile
func CountTiles(b *Board, tile Tile) int {
	count := 0
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.RowLen(r); c++ {
			if t, _ := b.TileAt(r, c); t == tile {
				count++
			}
		}
	}
	return count
}

// CountBoxes counts boxes on and off targets
func CountBoxes(b *Board) int {
	return CountTiles(b, Box) + CountTiles(b, BoxOnTarget)
}

// FindTiles returns the positions holding the given tile in row-major order
func FindTiles(b *Board, tile Tile) []Position {
	var found []Position
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.RowLen(r); c++ {
			if t, _ := b.TileAt(r, c); t == tile {
				found = append(found, Position{Row: r, Col: c})
			}
		}
	}
	return found
}

// blocksBox reports whether a box can never be pushed into pos: outside the
// grid or a wall.
func blocksBox(b *Board, pos Position) bool {
	tile, ok := b.TileAt(pos.Row, pos.Col)
	return !ok || tile == Wall
}

// DeadBoxes returns plain boxes wedged into a corner. Such a box can never
// move again, so a level containing one is unsolvable.
func DeadBoxes(b *Board) []Position {
	var dead []Position
	for _, pos := range FindTiles(b, Box) {
		vertical := blocksBox(b, pos.Add(Up)) || blocksBox(b, pos.Add(Down))
		horizontal := blocksBox(b, pos.Add(Left)) || blocksBox(b, pos.Add(Right))
		if vertical && horizontal {
			dead = append(dead, pos)
		}
	}
	return dead
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}
