package engine

import (
	"testing"
)

// TestLegalMovesInitialOrder verifies a fresh board lists all 81 cells in
// ascending global-index order.
func TestLegalMovesInitialOrder(t *testing.T) {
	b := NewBoard()
	moves := b.LegalMoves()
	if len(moves) != NumCells {
		t.Fatalf("len(LegalMoves) = %d, want %d", len(moves), NumCells)
	}
	for i, m := range moves {
		if m.Index() != i {
			t.Fatalf("moves[%d].Index() = %d, want %d", i, m.Index(), i)
		}
	}
}

// TestLegalMovesAscending verifies the listing stays strictly ascending
// mid-game.
func TestLegalMovesAscending(t *testing.T) {
	b := NewBoard()
	playMoves(t, &b, drawSubZero)

	moves := b.LegalMoves()
	for i := 1; i < len(moves); i++ {
		if moves[i-1].Index() >= moves[i].Index() {
			t.Fatalf("moves[%d] = %d, moves[%d] = %d: not ascending",
				i-1, moves[i-1].Index(), i, moves[i].Index())
		}
	}
}

// TestLegalMaskMatchesList verifies the dense mask and the move list agree
// at several game depths.
func TestLegalMaskMatchesList(t *testing.T) {
	for _, depth := range []int{0, 1, 8, 16, len(drawSubZero)} {
		b := NewBoard()
		playMoves(t, &b, drawSubZero[:depth])

		mask := b.LegalMask()
		legal := make(map[int]bool)
		for _, m := range b.LegalMoves() {
			legal[m.Index()] = true
		}
		for idx := 0; idx < NumCells; idx++ {
			if mask[idx] != legal[idx] {
				t.Errorf("depth %d: mask[%d] = %v, list membership = %v", depth, idx, mask[idx], legal[idx])
			}
		}
	}
}

// TestIsLegalAgreesWithList verifies IsLegal matches list membership for
// every cell.
func TestIsLegalAgreesWithList(t *testing.T) {
	b := NewBoard()
	playMoves(t, &b, xTopRowWin[:7])

	legal := make(map[int]bool)
	for _, m := range b.LegalMoves() {
		legal[m.Index()] = true
	}
	for idx := 0; idx < NumCells; idx++ {
		if got := b.IsLegal(mustPos(t, idx)); got != legal[idx] {
			t.Errorf("IsLegal(%d) = %v, list membership = %v", idx, got, legal[idx])
		}
	}
}

// TestLegalMovesTerminal verifies a finished game offers no moves in any
// shape.
func TestLegalMovesTerminal(t *testing.T) {
	b := NewBoard()
	playMoves(t, &b, xTopRowWin)

	if moves := b.LegalMoves(); len(moves) != 0 {
		t.Errorf("len(LegalMoves) = %d, want 0", len(moves))
	}
	for idx, ok := range b.LegalMask() {
		if ok {
			t.Errorf("LegalMask[%d] = true after game over", idx)
		}
	}
	if b.IsLegal(mustPos(t, 0)) {
		t.Error("IsLegal(0) = true after game over")
	}
}

// TestLegalMovesFreeChoiceSpansSubBoards verifies a lifted constraint
// offers moves in more than one sub-board.
func TestLegalMovesFreeChoiceSpansSubBoards(t *testing.T) {
	b := NewBoard()
	playMoves(t, &b, drawSubZero)

	if _, ok := b.ForcedSubBoard(); ok {
		t.Fatal("ForcedSubBoard ok = true, want free choice")
	}
	seen := make(map[int]bool)
	for _, m := range b.LegalMoves() {
		seen[m.SubBoard()] = true
	}
	if len(seen) < 2 {
		t.Errorf("free choice spans %d sub-boards, want several", len(seen))
	}
	if seen[0] {
		t.Error("free choice includes the drawn sub-board 0")
	}
}
