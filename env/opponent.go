package env

import (
	"fmt"

	"github.com/2lu3/games/engine"
)

// MovePicker selects a move for the side to play on a board. Agents such
// as agent.RandomAgent satisfy it.
type MovePicker interface {
	SelectAction(b *engine.Board) (engine.Position, error)
}

// OpponentEnv pits the caller, always playing X, against a fixed opponent
// that always plays O. Each Step is the caller's move followed by the
// opponent's reply while the game continues, and the reward is always
// reported from X's perspective.
type OpponentEnv struct {
	env      *Env
	opponent MovePicker
}

// NewOpponent wraps e so the caller plays X against opponent.
func NewOpponent(e *Env, opponent MovePicker) *OpponentEnv {
	return &OpponentEnv{env: e, opponent: opponent}
}

// Reset starts a new episode with the caller to move.
func (o *OpponentEnv) Reset() (Observation, Info) {
	return o.env.Reset()
}

// Step plays the caller's move as X, then one opponent move as O while
// the game continues. The reward is from X's perspective: 1 for an X win,
// -1 for an O win, 0 otherwise.
func (o *OpponentEnv) Step(action int) (StepResult, error) {
	if p := o.env.Board().CurrentPlayer(); p != engine.PlayerX {
		return StepResult{}, fmt.Errorf("not X's turn")
	}
	res, err := o.env.Step(action)
	if err != nil {
		return StepResult{}, err
	}

	if !res.Terminated {
		pos, err := o.opponent.SelectAction(o.env.Board())
		if err != nil {
			return StepResult{}, fmt.Errorf("opponent agent: %w", err)
		}
		res, err = o.env.Step(pos.Index())
		if err != nil {
			return StepResult{}, fmt.Errorf("opponent move: %w", err)
		}
	}

	res.Reward = o.rewardForX()
	return res, nil
}

// Board exposes the wrapped environment's board.
func (o *OpponentEnv) Board() *engine.Board {
	return o.env.Board()
}

// rewardForX converts the current outcome into X's perspective.
func (o *OpponentEnv) rewardForX() float64 {
	w, ok := o.env.Board().Winner()
	if !ok {
		return 0
	}
	if w == engine.PlayerX {
		return 1
	}
	return -1
}
