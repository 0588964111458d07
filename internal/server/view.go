package server

import (
	"fmt"

	"github.com/2lu3/games/engine"
)

// MatchState is the full JSON view of a match, safe to hand to any client:
// it contains nothing a player could not see on the table.
type MatchState struct {
	ID             string          `json:"id"`
	Mode           string          `json:"mode"` // "pvp" or "agent"
	Board          [9][9]string    `json:"board"`
	MetaBoard      [9]string       `json:"meta_board"`
	Status         string          `json:"status"`
	CurrentPlayer  string          `json:"current_player"`
	ForcedSubBoard *int            `json:"forced_sub_board"` // null when the player has free choice
	LegalMoves     []int           `json:"legal_moves"`
	MoveCount      int             `json:"move_count"`
	Winner         string          `json:"winner,omitempty"`
	Seats          map[string]bool `json:"seats"` // seat -> claimed
}

// MoveView is the JSON view of one applied or attempted move.
type MoveView struct {
	Index    int `json:"index"`
	SubBoard int `json:"sub_board"`
	Cell     int `json:"cell"`
}

// engineCellToString converts a board cell to its wire mark.
func engineCellToString(c engine.Cell) string {
	switch c {
	case engine.CellX:
		return "X"
	case engine.CellO:
		return "O"
	default:
		return ""
	}
}

// engineOutcomeToString converts an outcome to its wire label.
func engineOutcomeToString(o engine.Outcome) string {
	switch o {
	case engine.WonX:
		return "x_won"
	case engine.WonO:
		return "o_won"
	case engine.Drawn:
		return "drawn"
	default:
		return "in_progress"
	}
}

// engineSeatToString converts a player to its seat name.
func engineSeatToString(p engine.Player) string {
	if p == engine.PlayerO {
		return "O"
	}
	return "X"
}

// seatToPlayer converts a seat name to the engine player it controls.
func seatToPlayer(seat string) (engine.Player, error) {
	switch seat {
	case "X":
		return engine.PlayerX, nil
	case "O":
		return engine.PlayerO, nil
	default:
		return 0, fmt.Errorf("unknown seat %q", seat)
	}
}

// moveView builds the wire view of a position.
func moveView(pos engine.Position) *MoveView {
	return &MoveView{Index: pos.Index(), SubBoard: pos.SubBoard(), Cell: pos.Cell()}
}

// boardView converts the engine state of b into a MatchState with the
// given identity fields. Callers own any locking around b.
func boardView(b *engine.Board, id, mode string, seats map[string]bool) *MatchState {
	st := &MatchState{
		ID:            id,
		Mode:          mode,
		Status:        engineOutcomeToString(b.Status()),
		CurrentPlayer: engineSeatToString(b.CurrentPlayer()),
		MoveCount:     b.MoveCount(),
		Seats:         map[string]bool{"X": seats["X"], "O": seats["O"]},
	}
	for r, row := range b.Matrix() {
		for c, cell := range row {
			st.Board[r][c] = engineCellToString(cell)
		}
	}
	for i, o := range b.SubBoards() {
		st.MetaBoard[i] = engineOutcomeToString(o)
	}
	if forced, ok := b.ForcedSubBoard(); ok {
		st.ForcedSubBoard = &forced
	}
	st.LegalMoves = make([]int, 0, len(b.LegalMoves()))
	for _, m := range b.LegalMoves() {
		st.LegalMoves = append(st.LegalMoves, m.Index())
	}
	if w, ok := b.Winner(); ok {
		st.Winner = engineSeatToString(w)
	}
	return st
}
