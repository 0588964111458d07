package engine

import "fmt"

// moveError returns nil when pos is legal in the current state, or an
// *InvalidMoveError naming the first violated rule. Overall game-over is
// the caller's concern; ApplyMove reports it as ErrGameOver before looking
// at pos.
func (b *Board) moveError(pos Position) error {
	sub := pos.SubBoard()
	if b.sub[sub] != InProgress {
		return &InvalidMoveError{Pos: pos, Reason: "sub-board is decided"}
	}
	if b.hasForced && sub != int(b.forced) {
		return &InvalidMoveError{Pos: pos, Reason: fmt.Sprintf("play is forced to sub-board %d", b.forced)}
	}
	if b.cells[pos.Index()] != CellEmpty {
		return &InvalidMoveError{Pos: pos, Reason: "cell is occupied"}
	}
	return nil
}

// IsLegal reports whether pos is a member of the current legal-move set.
func (b *Board) IsLegal(pos Position) bool {
	return b.meta == InProgress && b.moveError(pos) == nil
}

// LegalMoves returns every legal move in ascending global-index order:
// the empty cells of the forced sub-board while a forcing constraint is
// set, otherwise the empty cells of every InProgress sub-board. A fresh
// board has all 81, a finished game has none.
func (b *Board) LegalMoves() []Position {
	if b.meta != InProgress {
		return nil
	}
	var out []Position
	for idx := 0; idx < NumCells; idx++ {
		pos := Position{idx: uint8(idx)}
		if b.moveError(pos) == nil {
			out = append(out, pos)
		}
	}
	return out
}

// LegalMask returns one bool per global index, true where a move is legal.
// The fixed-size shape suits callers that need a dense action mask over
// all 81 cells.
func (b *Board) LegalMask() [NumCells]bool {
	var mask [NumCells]bool
	if b.meta != InProgress {
		return mask
	}
	for idx := 0; idx < NumCells; idx++ {
		if b.moveError(Position{idx: uint8(idx)}) == nil {
			mask[idx] = true
		}
	}
	return mask
}
