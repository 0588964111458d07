package agent

import (
	"math/rand/v2"
	"testing"

	"github.com/2lu3/games/engine"
)

func mustPos(t *testing.T, index int) engine.Position {
	t.Helper()
	pos, err := engine.NewPosition(index)
	if err != nil {
		t.Fatalf("NewPosition(%d): %v", index, err)
	}
	return pos
}

// TestEncodeStateInitial verifies the one-hot layout of a fresh board:
// every cell empty, every sub-board in progress, free choice, X to move.
func TestEncodeStateInitial(t *testing.T) {
	b := engine.NewBoard()
	var out [InputDim]float32
	EncodeState(&b, &out)

	for i := 0; i < engine.NumCells; i++ {
		if out[i*CellDim] != 1.0 {
			t.Fatalf("cell %d: expected empty one-hot at %d", i, i*CellDim)
		}
	}
	metaOffset := engine.NumCells * CellDim
	for j := 0; j < engine.NumSubBoards; j++ {
		if out[metaOffset+j*OutcomeDim] != 1.0 {
			t.Errorf("sub-board %d: expected in-progress one-hot", j)
		}
	}
	forcedOffset := metaOffset + engine.NumSubBoards*OutcomeDim
	if out[forcedOffset] != 1.0 {
		t.Errorf("expected free-choice one-hot at %d, got %f", forcedOffset, out[forcedOffset])
	}
	if out[forcedOffset+ForcedDim] != 1.0 {
		t.Errorf("expected X-to-move one-hot")
	}
}

// TestEncodeStateAfterMove verifies the blocks that change when X plays
// the center cell of the center sub-board.
func TestEncodeStateAfterMove(t *testing.T) {
	b := engine.NewBoard()
	if _, err := b.ApplyMove(mustPos(t, 40)); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	var out [InputDim]float32
	EncodeState(&b, &out)

	if out[40*CellDim+1] != 1.0 {
		t.Errorf("cell 40: expected X one-hot")
	}
	if out[40*CellDim] != 0.0 {
		t.Errorf("cell 40: empty slot should be cleared")
	}
	forcedOffset := engine.NumCells*CellDim + engine.NumSubBoards*OutcomeDim
	if out[forcedOffset+1+4] != 1.0 {
		t.Errorf("forcing block should point at sub-board 4")
	}
	if out[forcedOffset] != 0.0 {
		t.Errorf("free-choice slot should be cleared while forced")
	}
	if out[forcedOffset+ForcedDim+1] != 1.0 {
		t.Errorf("O should be to move")
	}
}

// TestEncodeStateOneHotInvariant checks that every block stays exactly
// one-hot through a random game: the vector always sums to 81+9+1+1.
func TestEncodeStateOneHotInvariant(t *testing.T) {
	b := engine.NewBoard()
	rng := rand.New(rand.NewPCG(11, 17))
	var out [InputDim]float32
	want := float32(engine.NumCells + engine.NumSubBoards + 2)

	for !b.GameOver() {
		moves := b.LegalMoves()
		if _, err := b.ApplyMove(moves[rng.IntN(len(moves))]); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
		EncodeState(&b, &out)
		var sum float32
		for i, v := range out {
			if v != 0.0 && v != 1.0 {
				t.Fatalf("feature %d: non-binary value %f", i, v)
			}
			sum += v
		}
		if sum != want {
			t.Fatalf("after %d moves: expected %v active features, got %v", b.MoveCount(), want, sum)
		}
	}
}

// TestEncodeStateBufferReuse verifies a reused buffer carries nothing
// over from the previous encoding.
func TestEncodeStateBufferReuse(t *testing.T) {
	b := engine.NewBoard()
	var out [InputDim]float32
	EncodeState(&b, &out)

	if _, err := b.ApplyMove(mustPos(t, 0)); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	EncodeState(&b, &out)
	if out[0] != 0.0 || out[1] != 1.0 {
		t.Errorf("reused buffer should encode the new state: out[0]=%f out[1]=%f", out[0], out[1])
	}
}
