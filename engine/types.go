package engine

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Board dimensions
// ---------------------------------------------------------------------------

const (
	NumCells      = 81 // cells in the composite 9x9 grid
	NumSubBoards  = 9  // sub-boards in the 3x3 meta arrangement
	SubBoardCells = 9  // cells per sub-board
)

// ---------------------------------------------------------------------------
// Cells and players
// ---------------------------------------------------------------------------

// Cell is the content of one square of the 9x9 grid. CellX and CellO share
// their numeric values with PlayerX and PlayerO, so a player's mark is a
// direct Cell conversion of the player.
type Cell uint8

const (
	CellEmpty Cell = iota // 0
	CellX                 // 1
	CellO                 // 2
)

// Player identifies one of the two players. X always moves first.
type Player uint8

const (
	PlayerX Player = 1
	PlayerO Player = 2
)

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Mark returns the cell content this player places.
func (p Player) Mark() Cell { return Cell(p) }

// ---------------------------------------------------------------------------
// Outcomes
// ---------------------------------------------------------------------------

// Outcome is the result state of one sub-board or of the game as a whole.
// An outcome moves away from InProgress at most once and never changes
// again after that.
type Outcome uint8

const (
	InProgress Outcome = iota // 0
	WonX                      // 1
	WonO                      // 2
	Drawn                     // 3
)

// Terminal reports whether the outcome is final.
func (o Outcome) Terminal() bool { return o != InProgress }

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// ErrGameOver is returned by ApplyMove once the overall outcome is
	// terminal, regardless of the attempted position.
	ErrGameOver = errors.New("game is already over")

	// ErrOutOfRange is returned by the Position constructors for indices
	// outside the board.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidMove is the errors.Is target for every *InvalidMoveError.
	ErrInvalidMove = errors.New("invalid move")
)

// InvalidMoveError reports a well-formed Position that is not legal in the
// current state: the cell is occupied, the sub-board is decided, or play is
// forced into a different sub-board.
type InvalidMoveError struct {
	Pos    Position
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move at %s: %s", e.Pos, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidMove) match any InvalidMoveError.
func (e *InvalidMoveError) Is(target error) bool { return target == ErrInvalidMove }
