// Package env wraps the rules engine in an episode-oriented interface:
// Reset starts a fresh game, Step applies one move and reports the
// observation, reward, and termination flag for it. The package owns no
// rule logic; every legality decision comes from the engine.
package env

import (
	"github.com/2lu3/games/engine"
)

// Observation is what an acting agent sees after each step: the raw 9x9
// grid and a dense legality mask over the 81 global cell indices.
type Observation struct {
	Board      [9][9]engine.Cell
	ActionMask [engine.NumCells]bool
}

// Info carries auxiliary state alongside each observation.
type Info struct {
	MetaBoard     [engine.NumSubBoards]engine.Outcome
	CurrentPlayer engine.Player
	LegalMoves    []engine.Position
	GameOver      bool
	Winner        engine.Player // meaningful only when HasWinner
	HasWinner     bool
	LastMove      engine.Position // meaningful only when HasLastMove
	HasLastMove   bool
}

// StepResult bundles everything one Step call produces.
type StepResult struct {
	Obs        Observation
	Reward     float64
	Terminated bool
	Truncated  bool
	Info       Info
}

// Env is a single-board environment. It is not safe for concurrent use;
// run one Env per goroutine.
type Env struct {
	board engine.Board
}

// New returns an environment holding a fresh board, X to move.
func New() *Env {
	return &Env{board: engine.NewBoard()}
}

// Reset discards the current episode and starts a new one, returning the
// initial observation.
func (e *Env) Reset() (Observation, Info) {
	e.board = engine.NewBoard()
	return e.observation(), e.info()
}

// Step applies the move at global index action for the player to move.
// The reward is from that player's perspective: 1 for winning on this
// move, 0 otherwise. Truncated is always false; episodes only end through
// the game's own outcome.
//
// Engine errors propagate unchanged: ErrOutOfRange for a bad index,
// *InvalidMoveError for an illegal move, ErrGameOver after the game ends.
// The episode state is untouched on error.
func (e *Env) Step(action int) (StepResult, error) {
	pos, err := engine.NewPosition(action)
	if err != nil {
		return StepResult{}, err
	}
	mover := e.board.CurrentPlayer()
	status, err := e.board.ApplyMove(pos)
	if err != nil {
		return StepResult{}, err
	}

	res := StepResult{
		Obs:        e.observation(),
		Terminated: status.Terminal(),
		Info:       e.info(),
	}
	if w, ok := e.board.Winner(); ok {
		if w == mover {
			res.Reward = 1
		} else {
			res.Reward = -1
		}
	}
	return res, nil
}

// Board exposes the underlying board for wrappers, agents, and rendering.
// The pointer stays valid across Reset and always reflects the current
// episode.
func (e *Env) Board() *engine.Board {
	return &e.board
}

func (e *Env) observation() Observation {
	return Observation{
		Board:      e.board.Matrix(),
		ActionMask: e.board.LegalMask(),
	}
}

func (e *Env) info() Info {
	in := Info{
		MetaBoard:     e.board.SubBoards(),
		CurrentPlayer: e.board.CurrentPlayer(),
		LegalMoves:    e.board.LegalMoves(),
		GameOver:      e.board.GameOver(),
	}
	if w, ok := e.board.Winner(); ok {
		in.Winner, in.HasWinner = w, true
	}
	if m, ok := e.board.LastMove(); ok {
		in.LastMove, in.HasLastMove = m, true
	}
	return in
}
