// Package agent provides baseline move-selection agents.
package agent

import (
	"fmt"
	"math/rand/v2"

	"github.com/2lu3/games/engine"
)

// RandomAgent selects uniformly among the legal moves. It is the baseline
// opponent for evaluation runs and the automatic seat in live matches.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandom returns a RandomAgent with its own generator derived from
// seed. Two agents built from the same seed pick identical moves.
func NewRandom(seed uint64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewPCG(seed, seed*0x9e3779b97f4a7c15+1))}
}

// NewRandomWithRand returns a RandomAgent using the supplied generator.
// The generator must not be shared with other goroutines.
func NewRandomWithRand(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{rng: rng}
}

// SelectAction returns a uniformly random legal move for the player to
// move on b.
func (a *RandomAgent) SelectAction(b *engine.Board) (engine.Position, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return engine.Position{}, fmt.Errorf("no legal moves available")
	}
	return moves[a.rng.IntN(len(moves))], nil
}

// ActionProbs returns the agent's move distribution indexed by global cell
// index: uniform over the legal moves, zero elsewhere. A terminal board
// yields the all-zero distribution.
func (a *RandomAgent) ActionProbs(b *engine.Board) [engine.NumCells]float64 {
	var probs [engine.NumCells]float64
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return probs
	}
	p := 1.0 / float64(len(moves))
	for _, m := range moves {
		probs[m.Index()] = p
	}
	return probs
}
