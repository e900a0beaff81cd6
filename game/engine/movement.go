package engine

// CanMoveTo reports whether the player could step into pos without pushing.
func (b *Board) CanMoveTo(pos Position) bool {
	tile, ok := b.TileAt(pos.Row, pos.Col)
	return ok && tile.Passable()
}

// resolveMove classifies a move from the player's cell without mutating the
// board. ahead is the cell one step away, beyond the cell two steps away.
func (b *Board) resolveMove(d Direction) (outcome Outcome, ahead, beyond Position) {
	ahead = b.player.Add(d)
	beyond = ahead.Add(d)

	tile, ok := b.TileAt(ahead.Row, ahead.Col)
	if !ok {
		return OutcomeBlockedBoundary, ahead, beyond
	}
	if tile == Wall {
		return OutcomeBlockedWall, ahead, beyond
	}
	if !tile.IsBox() {
		return OutcomeMoved, ahead, beyond
	}

	next, ok := b.TileAt(beyond.Row, beyond.Col)
	switch {
	case !ok:
		return OutcomePushBlockedBoundary, ahead, beyond
	case next == Wall:
		return OutcomePushBlockedWall, ahead, beyond
	case next.IsBox():
		return OutcomePushBlockedBox, ahead, beyond
	}
	return OutcomePushed, ahead, beyond
}

// applyMove resolves and, when legal, applies one step in direction d.
// Rejected moves leave the board untouched.
func (b *Board) applyMove(d Direction) MoveResult {
	result := MoveResult{
		Direction: d,
		From:      b.player,
		To:        b.player,
	}

	outcome, ahead, beyond := b.resolveMove(d)
	result.Outcome = outcome

	switch outcome {
	case OutcomePushed:
		b.grid[beyond.Row][beyond.Col] = b.boxTile(beyond)
		b.grid[ahead.Row][ahead.Col] = b.vacatedTile(ahead)
		b.movePlayer(ahead)
		b.IncrementSteps()

		boxFrom, boxTo := ahead, beyond
		result.BoxFrom = &boxFrom
		result.BoxTo = &boxTo
		result.To = ahead

	case OutcomeMoved:
		b.movePlayer(ahead)
		b.IncrementSteps()
		result.To = ahead
	}

	result.Steps = b.steps
	return result
}
