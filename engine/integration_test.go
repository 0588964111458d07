//go:build integration

package engine

// integration_test.go — Full-game soak tests for the rules engine.
//
// These tests use only the public API: NewBoard, ApplyMove, LegalMoves,
// Status, Save/Restore, Clone.
//
// Run: cd engine && go test -tags integration -run TestIntegration -v

import (
	"math/rand/v2"
	"testing"
)

// pickFirst returns the smallest-index legal move (deterministic choice).
func pickFirst(moves []Position) (Position, bool) {
	if len(moves) == 0 {
		return Position{}, false
	}
	return moves[0], true
}

// pickRand returns a uniformly random legal move.
func pickRand(moves []Position, rng *rand.Rand) (Position, bool) {
	if len(moves) == 0 {
		return Position{}, false
	}
	return moves[rng.IntN(len(moves))], true
}

// ---------------------------------------------------------------------------
// TestIntegrationRandomGamesTerminate: random-move games always terminate
// within 81 moves with a coherent terminal state.
// ---------------------------------------------------------------------------

func TestIntegrationRandomGamesTerminate(t *testing.T) {
	const numGames = 5000

	var wonX, wonO, drawn, subDraws int
	for gameIdx := 0; gameIdx < numGames; gameIdx++ {
		rng := rand.New(rand.NewPCG(uint64(gameIdx), 999))
		b := NewBoard()

		steps := 0
		for !b.GameOver() {
			if steps > NumCells {
				t.Fatalf("game %d did not terminate after %d moves", gameIdx, NumCells)
			}
			pos, ok := pickRand(b.LegalMoves(), rng)
			if !ok {
				t.Fatalf("game %d step %d: no legal moves in a running game", gameIdx, steps)
			}
			if _, err := b.ApplyMove(pos); err != nil {
				t.Fatalf("game %d step %d: ApplyMove(%s): %v", gameIdx, steps, pos, err)
			}
			steps++
		}

		if b.MoveCount() != steps {
			t.Fatalf("game %d: MoveCount = %d, applied %d", gameIdx, b.MoveCount(), steps)
		}
		switch b.Status() {
		case WonX:
			wonX++
		case WonO:
			wonO++
		case Drawn:
			drawn++
		default:
			t.Fatalf("game %d: terminal status %d", gameIdx, b.Status())
		}
		for _, o := range b.SubBoards() {
			if o == Drawn {
				subDraws++
			}
		}
	}

	if wonX == 0 || wonO == 0 {
		t.Errorf("outcomes across %d games: X %d, O %d, drawn %d; both players should win sometimes",
			numGames, wonX, wonO, drawn)
	}
	if subDraws == 0 {
		t.Errorf("no drawn sub-board across %d games", numGames)
	}
}

// ---------------------------------------------------------------------------
// TestIntegrationDeterministicReplay: replaying a recorded move sequence
// reproduces the same legal-move sets and the same outcome.
// ---------------------------------------------------------------------------

func TestIntegrationDeterministicReplay(t *testing.T) {
	const numGames = 200

	for gameIdx := 0; gameIdx < numGames; gameIdx++ {
		var record []Position
		var masks [][NumCells]bool
		var final Outcome
		{
			b := NewBoard()
			rng := rand.New(rand.NewPCG(uint64(gameIdx)*13+7, 1))
			for !b.GameOver() {
				masks = append(masks, b.LegalMask())
				pos, ok := pickRand(b.LegalMoves(), rng)
				if !ok {
					break
				}
				record = append(record, pos)
				if _, err := b.ApplyMove(pos); err != nil {
					t.Fatalf("game %d: recording: %v", gameIdx, err)
				}
			}
			final = b.Status()
		}

		{
			b := NewBoard()
			for step, pos := range record {
				if b.LegalMask() != masks[step] {
					t.Fatalf("game %d step %d: legal mask mismatch on replay", gameIdx, step)
				}
				if _, err := b.ApplyMove(pos); err != nil {
					t.Fatalf("game %d step %d: replaying %s: %v", gameIdx, step, pos, err)
				}
			}
			if b.Status() != final {
				t.Fatalf("game %d: replay status = %d, want %d", gameIdx, b.Status(), final)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestIntegrationUndoAtEveryNode: Save then Apply then Restore at each step
// returns the exact prior state.
// ---------------------------------------------------------------------------

func TestIntegrationUndoAtEveryNode(t *testing.T) {
	const numGames = 200

	for gameIdx := 0; gameIdx < numGames; gameIdx++ {
		b := NewBoard()
		rng := rand.New(rand.NewPCG(uint64(gameIdx), 1234))

		for !b.GameOver() {
			pos, ok := pickRand(b.LegalMoves(), rng)
			if !ok {
				break
			}

			before := b
			snapshot := b.Save()
			if _, err := b.ApplyMove(pos); err != nil {
				t.Fatalf("game %d: ApplyMove(%s): %v", gameIdx, pos, err)
			}
			b.Restore(snapshot)
			if b != before {
				t.Fatalf("game %d: board differs after save/apply/restore at move %d", gameIdx, before.MoveCount())
			}

			if _, err := b.ApplyMove(pos); err != nil {
				t.Fatalf("game %d: re-applying %s after restore: %v", gameIdx, pos, err)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestIntegrationFirstMovePolicy: always taking the smallest-index legal
// move is a valid (if dull) strategy and terminates.
// ---------------------------------------------------------------------------

func TestIntegrationFirstMovePolicy(t *testing.T) {
	b := NewBoard()
	for steps := 0; !b.GameOver(); steps++ {
		if steps > NumCells {
			t.Fatalf("first-move policy did not terminate after %d moves", NumCells)
		}
		pos, ok := pickFirst(b.LegalMoves())
		if !ok {
			t.Fatalf("step %d: no legal moves in a running game", steps)
		}
		if _, err := b.ApplyMove(pos); err != nil {
			t.Fatalf("step %d: ApplyMove(%s): %v", steps, pos, err)
		}
	}
	if !b.Status().Terminal() {
		t.Fatalf("Status = %d after game over", b.Status())
	}
}
