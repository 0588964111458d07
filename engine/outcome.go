package engine

// ---------------------------------------------------------------------------
// Line detection
// ---------------------------------------------------------------------------

// winPatterns lists the eight three-in-a-row triples over a row-major 3x3
// grid: three rows, three columns, two diagonals. The same table scores a
// sub-board's nine cells and, one level up, the meta-board of nine
// sub-board outcomes.
var winPatterns = [8][3]uint8{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// hasLine reports whether mark owns all three cells of any pattern.
func hasLine(cells [SubBoardCells]Cell, mark Cell) bool {
	for _, pat := range winPatterns {
		if cells[pat[0]] == mark && cells[pat[1]] == mark && cells[pat[2]] == mark {
			return true
		}
	}
	return false
}

// scoreCells returns the outcome of one sub-board's nine cells. X lines are
// checked before O lines, so a board holding both (impossible through legal
// play, reachable only by direct construction) scores as WonX.
func scoreCells(cells [SubBoardCells]Cell) Outcome {
	if hasLine(cells, CellX) {
		return WonX
	}
	if hasLine(cells, CellO) {
		return WonO
	}
	for _, c := range cells {
		if c == CellEmpty {
			return InProgress
		}
	}
	return Drawn
}

// hasMetaLine reports whether won fills all three slots of any pattern.
func hasMetaLine(sub [NumSubBoards]Outcome, won Outcome) bool {
	for _, pat := range winPatterns {
		if sub[pat[0]] == won && sub[pat[1]] == won && sub[pat[2]] == won {
			return true
		}
	}
	return false
}

// scoreMeta returns the overall outcome from the nine sub-board outcomes.
// Drawn sub-boards belong to neither player and can never complete a line;
// the meta-board is drawn once no sub-board remains in progress and neither
// player owns a line. X is checked before O, matching scoreCells.
func scoreMeta(sub [NumSubBoards]Outcome) Outcome {
	if hasMetaLine(sub, WonX) {
		return WonX
	}
	if hasMetaLine(sub, WonO) {
		return WonO
	}
	for _, o := range sub {
		if o == InProgress {
			return InProgress
		}
	}
	return Drawn
}
