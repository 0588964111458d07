package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
)

// wsCommand is the only message clients send: play a cell.
type wsCommand struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// wsClient is one connected subscriber. Seat is empty for spectators.
type wsClient struct {
	seat string
	send chan MatchEvent
}

// enqueue hands an event to the client's write pump without blocking.
// Events for clients that cannot keep up are dropped; the next full
// state push resynchronizes them.
func (c *wsClient) enqueue(ev MatchEvent) {
	select {
	case c.send <- ev:
	default:
	}
}

// hub fans match events out to every connected client of one match.
type hub struct {
	mu    sync.Mutex
	conns map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{conns: make(map[*wsClient]struct{})}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// broadcast enqueues ev for every subscriber.
func (h *hub) broadcast(ev MatchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.enqueue(ev)
	}
}

// sendToSeat enqueues ev only for subscribers holding the given seat.
func (h *hub) sendToSeat(seat string, ev MatchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if c.seat == seat {
			c.enqueue(ev)
		}
	}
}

// handleMatchWS upgrades the connection and streams match events. A valid
// seat token in the query string makes the connection playable; without
// one the client is a read-only spectator.
func (s *Server) handleMatchWS(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matchFromRequest(w, r)
	if !ok {
		return
	}

	seat := ""
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := s.issuer.Verify(token)
		if err != nil || claims.MatchID != m.ID {
			s.errorResponse(w, http.StatusUnauthorized, "invalid seat token")
			return
		}
		seat = claims.Seat
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		s.log.WithFields(logrus.Fields{"match": m.ID, "error": err}).Warn("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	cl := &wsClient{seat: seat, send: make(chan MatchEvent, 16)}
	h := s.hubFor(m.ID)
	h.add(cl)
	defer h.remove(cl)

	// New subscribers start from a full state push.
	cl.enqueue(MatchEvent{Type: MatchEventState, State: m.State()})

	ctx := r.Context()
	go s.writePump(ctx, conn, cl)
	s.readLoop(ctx, conn, m, cl)
	conn.Close(websocket.StatusNormalClosure, "")
}

// writePump drains the client's event channel onto the wire.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, cl *wsClient) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-cl.send:
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}

// readLoop processes client commands until the connection drops. Move
// rejections come back on the event stream, so command errors never end
// the connection.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, m *Match, cl *wsClient) {
	for {
		var cmd wsCommand
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			return
		}
		switch cmd.Type {
		case "move":
			if cl.seat == "" {
				cl.enqueue(MatchEvent{Type: MatchEventInvalidMove, Error: "spectators cannot move"})
				continue
			}
			// Errors surface to the seat as invalid_move events.
			_ = m.ApplyMove(cl.seat, cmd.Index)
		default:
			cl.enqueue(MatchEvent{Type: MatchEventInvalidMove, Error: fmt.Sprintf("unknown command type %q", cmd.Type)})
		}
	}
}
