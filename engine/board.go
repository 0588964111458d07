// Package engine implements the Ultimate Tic-Tac-Toe rules.
//
// This package provides a flat, allocation-free board representation
// suitable for both real-time gameplay (via the server adapter) and
// high-throughput self-play simulation. A Board is a plain value type:
// struct assignment yields a fully independent copy, so every parallel
// rollout can own its board exclusively.
package engine

// Board holds the complete, self-contained state of one game. All fields
// are arrays or scalars (no pointers, no slices), and only the engine
// mutates them; everything callers observe goes through the query methods.
type Board struct {
	cells     [NumCells]Cell        // 9x9 grid, row-major
	sub       [NumSubBoards]Outcome // per-sub-board outcomes
	meta      Outcome               // overall outcome
	turn      Player                // player to move
	forced    uint8                 // forced sub-board id, meaningful only when hasForced
	hasForced bool
	last      Position // last applied move, meaningful only when moves > 0
	moves     uint8    // number of applied moves, at most 81
}

// NewBoard returns a fresh board: every cell empty, every outcome
// InProgress, no forcing constraint, X to move.
func NewBoard() Board {
	return Board{turn: PlayerX}
}

// ---------------------------------------------------------------------------
// Move application
// ---------------------------------------------------------------------------

// ApplyMove occupies pos for the player to move and returns the overall
// outcome after the move.
//
// It fails with ErrGameOver once the overall outcome is terminal, and with
// an *InvalidMoveError when pos is occupied, inside a decided sub-board, or
// outside the forced sub-board. On failure the board is unchanged.
func (b *Board) ApplyMove(pos Position) (Outcome, error) {
	if b.meta != InProgress {
		return b.meta, ErrGameOver
	}
	if err := b.moveError(pos); err != nil {
		return b.meta, err
	}

	b.cells[pos.Index()] = b.turn.Mark()
	b.last = pos
	b.moves++

	// A legal move always lands in an InProgress sub-board, so this is the
	// only transition that sub-board can make.
	sub := pos.SubBoard()
	b.sub[sub] = scoreCells(b.subCells(sub))
	b.meta = scoreMeta(b.sub)

	// The opponent is forced into the sub-board named by the local cell
	// just played. The constraint is lifted immediately when that target
	// is already decided, or when the game ended, so a stored pointer
	// always names a playable sub-board.
	target := pos.Cell()
	b.forced, b.hasForced = uint8(target), true
	if b.meta != InProgress || b.sub[target] != InProgress {
		b.forced, b.hasForced = 0, false
	}

	b.turn = b.turn.Other()
	return b.meta, nil
}

// subCells gathers the nine cells of one sub-board in local cell order.
func (b *Board) subCells(sub int) [SubBoardCells]Cell {
	var out [SubBoardCells]Cell
	base := (sub/3)*27 + (sub%3)*3 // global index of local cell 0
	for cell := 0; cell < SubBoardCells; cell++ {
		out[cell] = b.cells[base+(cell/3)*9+cell%3]
	}
	return out
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Status returns the overall outcome.
func (b *Board) Status() Outcome { return b.meta }

// GameOver reports whether the overall outcome is terminal.
func (b *Board) GameOver() bool { return b.meta != InProgress }

// Winner returns the winning player when the overall outcome is WonX or
// WonO. ok is false while the game runs and on a draw.
func (b *Board) Winner() (Player, bool) {
	switch b.meta {
	case WonX:
		return PlayerX, true
	case WonO:
		return PlayerO, true
	}
	return 0, false
}

// CurrentPlayer returns the player to move.
func (b *Board) CurrentPlayer() Player { return b.turn }

// SubBoards returns the nine sub-board outcomes, indexed by sub-board id.
func (b *Board) SubBoards() [NumSubBoards]Outcome { return b.sub }

// ForcedSubBoard returns the sub-board the next move must land in. ok is
// false before the first move and whenever the constraint is lifted, in
// which case any cell of any InProgress sub-board is playable.
func (b *Board) ForcedSubBoard() (int, bool) {
	if !b.hasForced {
		return 0, false
	}
	return int(b.forced), true
}

// LastMove returns the most recently applied move. ok is false on a fresh
// board.
func (b *Board) LastMove() (Position, bool) {
	if b.moves == 0 {
		return Position{}, false
	}
	return b.last, true
}

// MoveCount returns the number of moves applied so far.
func (b *Board) MoveCount() int { return int(b.moves) }

// CellAt returns the content of the cell at pos.
func (b *Board) CellAt(pos Position) Cell { return b.cells[pos.Index()] }

// Matrix returns the 9x9 grid, row-major. The returned array is a copy;
// mutating it never touches the board.
func (b *Board) Matrix() [9][9]Cell {
	var m [9][9]Cell
	for i, c := range b.cells {
		m[i/9][i%9] = c
	}
	return m
}

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

// Snapshot is a complete copy of a board's state. Because Board is a flat
// value type, saving and restoring are plain struct copies.
type Snapshot Board

// Save returns a snapshot of the current state.
func (b *Board) Save() Snapshot {
	return Snapshot(*b)
}

// Restore replaces the board's state with a previously saved snapshot.
func (b *Board) Restore(s Snapshot) {
	*b = Board(s)
}

// Clone returns an independent copy of the board. Moves applied to the
// clone never affect the original, and vice versa.
func (b *Board) Clone() Board {
	return *b
}
