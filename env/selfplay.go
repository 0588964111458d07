package env

import (
	"fmt"
	"math/rand/v2"

	"github.com/2lu3/games/engine"
)

// Policy selects a move for the side to play on b. Implementations may use
// rng for stochastic choices; deterministic policies ignore it.
type Policy func(b *engine.Board, rng *rand.Rand) (engine.Position, error)

// RandomPolicy picks uniformly among the legal moves.
func RandomPolicy(b *engine.Board, rng *rand.Rand) (engine.Position, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return engine.Position{}, fmt.Errorf("no legal moves available")
	}
	return moves[rng.IntN(len(moves))], nil
}

// SelfPlayEnv presents the two-player game as a single-agent episode: the
// embedded opponent policy moves automatically, the reward is zero-sum
// from the agent's perspective, and observations can be flipped so an
// O-playing agent still sees its own marks as X.
type SelfPlayEnv struct {
	env      *Env
	piece    engine.Player
	opponent Policy
	flip     bool
	rng      *rand.Rand
}

// NewSelfPlay wraps e for an agent playing piece. A nil opponent falls
// back to RandomPolicy. flip enables X/O swapping of observations when the
// agent plays O. rng drives the opponent policy and must not be shared
// with other goroutines.
func NewSelfPlay(e *Env, piece engine.Player, opponent Policy, flip bool, rng *rand.Rand) *SelfPlayEnv {
	if opponent == nil {
		opponent = RandomPolicy
	}
	return &SelfPlayEnv{env: e, piece: piece, opponent: opponent, flip: flip, rng: rng}
}

// Reset starts a new episode and, when the agent plays O, advances play by
// one opponent move so the returned observation has the agent to act.
func (s *SelfPlayEnv) Reset() (Observation, Info, error) {
	obs, info := s.env.Reset()
	if s.env.Board().CurrentPlayer() != s.piece {
		res, err := s.opponentMove()
		if err != nil {
			return Observation{}, Info{}, err
		}
		obs, info = res.Obs, res.Info
	}
	return s.flipObs(obs), info, nil
}

// Step plays the agent's move, then exactly one opponent move while the
// game continues. The returned reward is the agent's own reward minus the
// opponent's, so a loss delivered by the opponent's reply scores -1.
func (s *SelfPlayEnv) Step(action int) (StepResult, error) {
	if s.env.Board().CurrentPlayer() != s.piece {
		return StepResult{}, fmt.Errorf("not the agent's turn")
	}
	res, err := s.env.Step(action)
	if err != nil {
		return StepResult{}, err
	}

	if !res.Terminated && s.env.Board().CurrentPlayer() != s.piece {
		agentReward := res.Reward
		oppRes, err := s.opponentMove()
		if err != nil {
			return StepResult{}, err
		}
		oppRes.Reward = agentReward - oppRes.Reward
		res = oppRes
	}

	res.Obs = s.flipObs(res.Obs)
	return res, nil
}

// Board exposes the wrapped environment's board.
func (s *SelfPlayEnv) Board() *engine.Board {
	return s.env.Board()
}

// opponentMove asks the opponent policy for a move and applies it.
func (s *SelfPlayEnv) opponentMove() (StepResult, error) {
	pos, err := s.opponent(s.env.Board(), s.rng)
	if err != nil {
		return StepResult{}, fmt.Errorf("opponent policy: %w", err)
	}
	res, err := s.env.Step(pos.Index())
	if err != nil {
		return StepResult{}, fmt.Errorf("opponent move: %w", err)
	}
	return res, nil
}

// flipObs swaps X and O marks in the observation when flipping is enabled
// and the agent plays O, so the agent always sees itself as X.
func (s *SelfPlayEnv) flipObs(obs Observation) Observation {
	if !s.flip || s.piece != engine.PlayerO {
		return obs
	}
	for r := range obs.Board {
		for c := range obs.Board[r] {
			switch obs.Board[r][c] {
			case engine.CellX:
				obs.Board[r][c] = engine.CellO
			case engine.CellO:
				obs.Board[r][c] = engine.CellX
			}
		}
	}
	return obs
}
