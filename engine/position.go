package engine

import "fmt"

// Position identifies one of the 81 cells of the composite board. It is a
// small value type: a constructed Position is always well-formed, and two
// positions are equal exactly when their global indices are equal.
//
// The three coordinate systems are interchangeable:
//
//	global index  0..80, row-major over the 9x9 grid
//	(row, col)    both 0..8
//	(sub, cell)   sub-board id and local cell id, both 0..8, each
//	              row-major over its own 3x3 grid
//
// For a given sub-board id s and local cell id c:
//
//	row = (s/3)*3 + c/3
//	col = (s%3)*3 + c%3
type Position struct {
	idx uint8
}

// NewPosition constructs a Position from a global index in [0, 80].
func NewPosition(index int) (Position, error) {
	if index < 0 || index >= NumCells {
		return Position{}, fmt.Errorf("%w: global index %d", ErrOutOfRange, index)
	}
	return Position{idx: uint8(index)}, nil
}

// NewSubPosition constructs a Position from a sub-board id and a local cell
// id, both in [0, 8].
func NewSubPosition(sub, cell int) (Position, error) {
	if sub < 0 || sub >= NumSubBoards {
		return Position{}, fmt.Errorf("%w: sub-board id %d", ErrOutOfRange, sub)
	}
	if cell < 0 || cell >= SubBoardCells {
		return Position{}, fmt.Errorf("%w: local cell id %d", ErrOutOfRange, cell)
	}
	row := (sub/3)*3 + cell/3
	col := (sub%3)*3 + cell%3
	return Position{idx: uint8(row*9 + col)}, nil
}

// Index returns the global index in [0, 80].
func (p Position) Index() int { return int(p.idx) }

// Row returns the row within the 9x9 grid.
func (p Position) Row() int { return int(p.idx) / 9 }

// Col returns the column within the 9x9 grid.
func (p Position) Col() int { return int(p.idx) % 9 }

// SubBoard returns the sub-board id in [0, 8].
func (p Position) SubBoard() int { return (p.Row()/3)*3 + p.Col()/3 }

// Cell returns the local cell id within the sub-board, in [0, 8].
func (p Position) Cell() int { return (p.Row()%3)*3 + p.Col()%3 }

func (p Position) String() string {
	return fmt.Sprintf("index %d (sub-board %d, cell %d)", p.Index(), p.SubBoard(), p.Cell())
}
