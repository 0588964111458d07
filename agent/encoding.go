package agent

import (
	"github.com/2lu3/games/engine"
)

// Feature vector dimensions. The layout is one-hot blocks in a fixed
// order: cell contents, sub-board outcomes, the forcing pointer, and the
// side to move.
const (
	CellDim    = 3 // empty, X, O
	OutcomeDim = 4 // in progress, X won, O won, drawn
	ForcedDim  = engine.NumSubBoards + 1
	TurnDim    = 2

	InputDim = engine.NumCells*CellDim + engine.NumSubBoards*OutcomeDim + ForcedDim + TurnDim // 291
)

// EncodeState writes the one-hot feature vector for b into out. The
// buffer is caller-owned and zeroed internally, so batch encoders can
// reuse one array across calls without allocating.
func EncodeState(b *engine.Board, out *[InputDim]float32) {
	*out = [InputDim]float32{}

	offset := 0

	// Cells: 81 slots x 3-dim one-hot = 243.
	m := b.Matrix()
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			out[offset+int(m[r][c])] = 1.0
			offset += CellDim
		}
	}
	// offset = 243

	// Sub-board outcomes: 9 slots x 4-dim one-hot = 36.
	for _, o := range b.SubBoards() {
		out[offset+int(o)] = 1.0
		offset += OutcomeDim
	}
	// offset = 279

	// Forcing pointer: index 0 = free choice, 1..9 = forced sub-board.
	if forced, ok := b.ForcedSubBoard(); ok {
		out[offset+1+forced] = 1.0
	} else {
		out[offset] = 1.0
	}
	offset += ForcedDim
	// offset = 289

	// Side to move.
	if b.CurrentPlayer() == engine.PlayerO {
		out[offset+1] = 1.0
	} else {
		out[offset] = 1.0
	}
}
