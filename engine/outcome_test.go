package engine

import "testing"

// cellsWith builds a sub-board cell array with mark placed at the given
// local cell ids.
func cellsWith(mark Cell, ids ...int) [SubBoardCells]Cell {
	var cells [SubBoardCells]Cell
	for _, id := range ids {
		cells[id] = mark
	}
	return cells
}

// TestScoreCellsEveryLine verifies each of the eight patterns wins for
// either mark.
func TestScoreCellsEveryLine(t *testing.T) {
	lines := [][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}
	for _, line := range lines {
		if got := scoreCells(cellsWith(CellX, line[0], line[1], line[2])); got != WonX {
			t.Errorf("X line %v: outcome = %d, want WonX", line, got)
		}
		if got := scoreCells(cellsWith(CellO, line[0], line[1], line[2])); got != WonO {
			t.Errorf("O line %v: outcome = %d, want WonO", line, got)
		}
	}
}

// TestScoreCellsTieBreak verifies a board holding lines for both players
// scores as WonX, wherever each line sits.
func TestScoreCellsTieBreak(t *testing.T) {
	both := cellsWith(CellX, 0, 1, 2)
	for _, id := range []int{6, 7, 8} {
		both[id] = CellO
	}
	if got := scoreCells(both); got != WonX {
		t.Errorf("X row 0 with O row 2: outcome = %d, want WonX", got)
	}

	swapped := cellsWith(CellO, 0, 1, 2)
	for _, id := range []int{6, 7, 8} {
		swapped[id] = CellX
	}
	if got := scoreCells(swapped); got != WonX {
		t.Errorf("O row 0 with X row 2: outcome = %d, want WonX", got)
	}
}

// TestScoreCellsDraw verifies a full board with no line is Drawn.
func TestScoreCellsDraw(t *testing.T) {
	cells := cellsWith(CellX, 0, 2, 3, 7, 8)
	for _, id := range []int{1, 4, 5, 6} {
		cells[id] = CellO
	}
	if got := scoreCells(cells); got != Drawn {
		t.Errorf("full lineless board: outcome = %d, want Drawn", got)
	}
}

// TestScoreCellsInProgress verifies boards with open cells and no line stay
// InProgress.
func TestScoreCellsInProgress(t *testing.T) {
	if got := scoreCells([SubBoardCells]Cell{}); got != InProgress {
		t.Errorf("empty board: outcome = %d, want InProgress", got)
	}
	partial := cellsWith(CellX, 0, 4)
	partial[8] = CellO
	if got := scoreCells(partial); got != InProgress {
		t.Errorf("partial board: outcome = %d, want InProgress", got)
	}
}

// TestScoreMeta verifies meta-board scoring: won sub-boards form lines,
// drawn sub-boards block them, and X is checked before O.
func TestScoreMeta(t *testing.T) {
	var meta [NumSubBoards]Outcome

	meta = [NumSubBoards]Outcome{WonX, WonX, WonX, WonO, WonO, InProgress, InProgress, InProgress, InProgress}
	if got := scoreMeta(meta); got != WonX {
		t.Errorf("X top row: outcome = %d, want WonX", got)
	}

	meta = [NumSubBoards]Outcome{WonO, InProgress, InProgress, WonO, InProgress, InProgress, WonO, InProgress, InProgress}
	if got := scoreMeta(meta); got != WonO {
		t.Errorf("O left column: outcome = %d, want WonO", got)
	}

	// A drawn sub-board interrupts what would otherwise be a line.
	meta = [NumSubBoards]Outcome{WonX, WonX, Drawn, InProgress, InProgress, InProgress, InProgress, InProgress, InProgress}
	if got := scoreMeta(meta); got != InProgress {
		t.Errorf("blocked row with open boards: outcome = %d, want InProgress", got)
	}

	// No line and nothing in progress: drawn game.
	meta = [NumSubBoards]Outcome{WonX, WonO, WonX, WonO, Drawn, WonX, WonX, WonX, WonO}
	if got := scoreMeta(meta); got != Drawn {
		t.Errorf("decided lineless meta-board: outcome = %d, want Drawn", got)
	}

	// Lines for both players: X wins the tie-break here too.
	meta = [NumSubBoards]Outcome{WonX, WonX, WonX, WonO, WonO, WonO, InProgress, InProgress, InProgress}
	if got := scoreMeta(meta); got != WonX {
		t.Errorf("rows for both players: outcome = %d, want WonX", got)
	}
}
