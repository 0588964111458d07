package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/2lu3/games/agent"
	"github.com/2lu3/games/engine"
	"github.com/2lu3/games/internal/cache"
	"github.com/2lu3/games/internal/database"
)

// Match modes.
const (
	ModePvP   = "pvp"   // two human seats
	ModeAgent = "agent" // human plays X, a random agent holds O
)

// MatchEventType labels events broadcast to match subscribers.
type MatchEventType string

const (
	MatchEventPlayerJoined MatchEventType = "player_joined" // a seat was claimed
	MatchEventState        MatchEventType = "game_state"    // full state push
	MatchEventMoveApplied  MatchEventType = "move_applied"  // a legal move landed
	MatchEventInvalidMove  MatchEventType = "invalid_move"  // a move was rejected
	MatchEventGameOver     MatchEventType = "game_over"     // match reached a terminal state
)

// MatchEvent is one message on a match's event stream.
type MatchEvent struct {
	Type  MatchEventType `json:"type"`
	Seat  string         `json:"seat,omitempty"`
	Move  *MoveView      `json:"move,omitempty"`
	Error string         `json:"error,omitempty"`
	State *MatchState    `json:"state,omitempty"`
}

var (
	ErrSeatTaken   = errors.New("seat is already taken")
	ErrUnknownSeat = errors.New("unknown seat")
	ErrNotYourTurn = errors.New("not your turn")
)

// Match is one live game between two seats. All state transitions happen
// under mu; events are emitted via BroadcastFn while the lock is held, so
// the callback must never block.
type Match struct {
	ID   uuid.UUID
	Mode string

	mu    sync.Mutex
	board engine.Board
	seats map[string]bool
	agent *agent.RandomAgent

	startedAt   time.Time
	history     []int // applied cell indexes in play order
	actionIndex int

	// BroadcastFn delivers events to every subscriber; BroadcastToSeatFn
	// targets one seat. Nil callbacks mean no listeners; when only
	// BroadcastFn is set, seat-targeted events fall back to it.
	BroadcastFn       func(ev MatchEvent)
	BroadcastToSeatFn func(seat string, ev MatchEvent)

	log *logrus.Logger
}

// NewMatch creates a match in the given mode. In agent mode seat O is
// claimed by a seeded random agent and the human plays X.
func NewMatch(log *logrus.Logger, mode string, seed uint64) *Match {
	m := &Match{
		ID:        uuid.New(),
		Mode:      mode,
		board:     engine.NewBoard(),
		seats:     map[string]bool{"X": false, "O": false},
		startedAt: time.Now(),
		log:       log,
	}
	if mode == ModeAgent {
		m.agent = agent.NewRandom(seed)
		m.seats["O"] = true
	}
	return m
}

// Join claims the given seat. The seat stays claimed for the rest of the
// match; there is no leave.
func (m *Match) Join(seat string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	taken, ok := m.seats[seat]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeat, seat)
	}
	if taken {
		return ErrSeatTaken
	}
	m.seats[seat] = true

	m.log.WithFields(logrus.Fields{"match": m.ID, "seat": seat}).Info("seat joined")
	m.logAction(seat, "seat_joined", nil)
	m.broadcast(MatchEvent{Type: MatchEventPlayerJoined, Seat: seat})
	m.broadcast(MatchEvent{Type: MatchEventState, State: m.stateLocked()})
	return nil
}

// ApplyMove plays the cell at index for the given seat. On success the
// move (and in agent mode the agent's reply) is broadcast, followed by a
// state push; rejected moves produce an invalid_move event and an error.
func (m *Match) ApplyMove(seat string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	player, err := seatToPlayer(seat)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownSeat, seat)
	}
	if m.board.Status() == engine.InProgress && m.board.CurrentPlayer() != player {
		m.rejectLocked(seat, ErrNotYourTurn)
		return ErrNotYourTurn
	}
	pos, err := engine.NewPosition(index)
	if err != nil {
		m.rejectLocked(seat, err)
		return err
	}
	if _, err := m.board.ApplyMove(pos); err != nil {
		m.rejectLocked(seat, err)
		return err
	}
	m.history = append(m.history, pos.Index())
	m.log.WithFields(logrus.Fields{"match": m.ID, "seat": seat, "index": index}).Info("move applied")
	m.logAction(seat, "move_applied", movePayload(pos))
	m.broadcast(MatchEvent{Type: MatchEventMoveApplied, Seat: seat, Move: moveView(pos)})

	if err := m.agentReplyLocked(); err != nil {
		return err
	}

	m.broadcast(MatchEvent{Type: MatchEventState, State: m.stateLocked()})
	if m.board.GameOver() {
		st := m.stateLocked()
		m.log.WithFields(logrus.Fields{"match": m.ID, "status": st.Status}).Info("match over")
		m.logAction("", "game_over", map[string]interface{}{"status": st.Status, "winner": st.Winner})
		m.broadcast(MatchEvent{Type: MatchEventGameOver, State: st})
		m.persistFinalMatchLocked(st)
	}
	return nil
}

// agentReplyLocked lets the agent answer for seat O when it holds that
// seat and the game is still running. Callers hold mu.
func (m *Match) agentReplyLocked() error {
	if m.agent == nil || m.board.GameOver() || m.board.CurrentPlayer() != engine.PlayerO {
		return nil
	}
	pos, err := m.agent.SelectAction(&m.board)
	if err != nil {
		return fmt.Errorf("agent move: %w", err)
	}
	if _, err := m.board.ApplyMove(pos); err != nil {
		return fmt.Errorf("agent move: %w", err)
	}
	m.history = append(m.history, pos.Index())
	m.log.WithFields(logrus.Fields{"match": m.ID, "seat": "O", "index": pos.Index()}).Info("agent replied")
	m.logAction("O", "move_applied", movePayload(pos))
	m.broadcast(MatchEvent{Type: MatchEventMoveApplied, Seat: "O", Move: moveView(pos)})
	return nil
}

// State returns the current JSON view of the match.
func (m *Match) State() *MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Match) stateLocked() *MatchState {
	return boardView(&m.board, m.ID.String(), m.Mode, m.seats)
}

func (m *Match) rejectLocked(seat string, err error) {
	m.log.WithFields(logrus.Fields{"match": m.ID, "seat": seat, "error": err}).Warn("move rejected")
	m.sendToSeat(seat, MatchEvent{Type: MatchEventInvalidMove, Seat: seat, Error: err.Error()})
}

func (m *Match) broadcast(ev MatchEvent) {
	if m.BroadcastFn != nil {
		m.BroadcastFn(ev)
	}
}

func (m *Match) sendToSeat(seat string, ev MatchEvent) {
	if m.BroadcastToSeatFn != nil {
		m.BroadcastToSeatFn(seat, ev)
		return
	}
	m.broadcast(ev)
}

func movePayload(pos engine.Position) map[string]interface{} {
	return map[string]interface{}{
		"index":     pos.Index(),
		"sub_board": pos.SubBoard(),
		"cell":      pos.Cell(),
	}
}

// logAction queues an action record for the external historian.
// Callers hold mu; the publish itself runs off the lock.
func (m *Match) logAction(seat, actionType string, payload map[string]interface{}) {
	m.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := cache.MatchActionRecord{
		MatchID:       m.ID,
		ActionIndex:   m.actionIndex,
		Seat:          seat,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.MatchActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishMatchAction(ctx, rec); err != nil {
			m.log.WithFields(logrus.Fields{"match": m.ID, "action": rec.ActionType, "error": err}).Warn("failed to publish action record")
		}
	}(rec)
}

// persistFinalMatchLocked saves the finished match to the database.
// Callers hold mu; the write itself runs off the lock.
func (m *Match) persistFinalMatchLocked(st *MatchState) {
	if database.DB == nil {
		return
	}
	rec := database.FinalMatchRecord{
		Mode:       m.Mode,
		Status:     st.Status,
		Winner:     st.Winner,
		MoveCount:  st.MoveCount,
		Moves:      append([]int(nil), m.history...),
		StartedAt:  m.startedAt,
		FinishedAt: time.Now(),
	}
	go func(rec database.FinalMatchRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreFinalMatchInDB(ctx, m.ID, rec); err != nil {
			m.log.WithFields(logrus.Fields{"match": m.ID, "error": err}).Warn("failed to persist final match state")
		}
	}(rec)
}
