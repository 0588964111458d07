package server

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/2lu3/games/engine"
	"github.com/2lu3/games/internal/auth"
)

// Server owns the match registry and the HTTP/WebSocket surface.
type Server struct {
	log    *logrus.Logger
	cfg    Config
	store  *Store
	issuer auth.Issuer

	mu   sync.Mutex
	hubs map[uuid.UUID]*hub
}

func New(log *logrus.Logger, cfg Config) *Server {
	return &Server{
		log:    log,
		cfg:    cfg,
		store:  NewStore(),
		issuer: auth.Issuer{Secret: []byte(cfg.TokenSecret), TTL: cfg.TokenTTL},
		hubs:   make(map[uuid.UUID]*hub),
	}
}

// Router builds the HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/matches", s.handleCreateMatch)
	r.Route("/matches/{id}", func(r chi.Router) {
		r.Get("/", s.handleMatchState)
		r.Post("/join", s.handleJoinMatch)
		r.Post("/moves", s.handleMove)
		r.Get("/ws", s.handleMatchWS)
	})
	return r
}

type createMatchRequest struct {
	Mode string `json:"mode"` // "pvp" (default) or "agent"
	Seed uint64 `json:"seed"` // agent rng seed; 0 picks one
}

type createMatchResponse struct {
	ID    string      `json:"id"`
	Mode  string      `json:"mode"`
	Seat  string      `json:"seat"`
	Token string      `json:"token"`
	State *MatchState `json:"state"`
}

type joinMatchRequest struct {
	Seat string `json:"seat"` // optional; defaults to the open seat
}

type joinMatchResponse struct {
	Seat  string      `json:"seat"`
	Token string      `json:"token"`
	State *MatchState `json:"state"`
}

type moveRequest struct {
	Index int `json:"index"`
}

type errorBody struct {
	Error string `json:"error"`
}

// handleCreateMatch creates a match and seats the creator as X.
func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = ModePvP
	}
	if mode != ModePvP && mode != ModeAgent {
		s.errorResponse(w, http.StatusBadRequest, "mode must be \"pvp\" or \"agent\"")
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	m := NewMatch(s.log, mode, seed)
	h := s.hubFor(m.ID)
	m.BroadcastFn = h.broadcast
	m.BroadcastToSeatFn = h.sendToSeat
	s.store.Add(m)

	if err := m.Join("X"); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "seat creator")
		return
	}
	token, err := s.issuer.Issue(m.ID, "X")
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "issue seat token")
		return
	}
	s.writeJSON(w, http.StatusCreated, createMatchResponse{
		ID:    m.ID.String(),
		Mode:  mode,
		Seat:  "X",
		Token: token,
		State: m.State(),
	})
}

// handleJoinMatch claims the open seat (or an explicitly requested one)
// and returns its token.
func (s *Server) handleJoinMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matchFromRequest(w, r)
	if !ok {
		return
	}
	var req joinMatchRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	seat := req.Seat
	if seat == "" {
		var open bool
		if seat, open = openSeat(m.State().Seats); !open {
			s.errorResponse(w, http.StatusConflict, "match is full")
			return
		}
	}
	if err := m.Join(seat); err != nil {
		switch {
		case errors.Is(err, ErrSeatTaken):
			s.errorResponse(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrUnknownSeat):
			s.errorResponse(w, http.StatusBadRequest, err.Error())
		default:
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	token, err := s.issuer.Issue(m.ID, seat)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "issue seat token")
		return
	}
	s.writeJSON(w, http.StatusOK, joinMatchResponse{Seat: seat, Token: token, State: m.State()})
}

// handleMove applies one move for the seat named by the bearer token.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matchFromRequest(w, r)
	if !ok {
		return
	}
	seat, err := s.seatFromRequest(r, m.ID)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := m.ApplyMove(seat, req.Index); err != nil {
		s.errorResponse(w, moveErrorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, m.State())
}

// handleMatchState returns the public JSON view. No token required;
// spectators may poll.
func (s *Server) handleMatchState(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matchFromRequest(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, m.State())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// moveErrorStatus maps engine and match errors onto HTTP status codes.
func moveErrorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownSeat):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrInvalidMove),
		errors.Is(err, ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// openSeat picks the seat to hand a joiner: O first, since the creator
// holds X.
func openSeat(seats map[string]bool) (string, bool) {
	for _, seat := range []string{"O", "X"} {
		if !seats[seat] {
			return seat, true
		}
	}
	return "", false
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// at its zero value.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// seatFromRequest authenticates the request's seat token against the
// given match.
func (s *Server) seatFromRequest(r *http.Request, matchID uuid.UUID) (string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", errors.New("missing seat token")
	}
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return "", errors.New("invalid seat token")
	}
	if claims.MatchID != matchID {
		return "", errors.New("token is for another match")
	}
	return claims.Seat, nil
}

// matchFromRequest resolves the {id} route parameter. A missing or
// malformed id reads as not found.
func (s *Server) matchFromRequest(w http.ResponseWriter, r *http.Request) (*Match, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "match not found")
		return nil, false
	}
	m, ok := s.store.Get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "match not found")
		return nil, false
	}
	return m, true
}

// hubFor returns the event hub for a match, creating it on first use.
func (s *Server) hubFor(id uuid.UUID) *hub {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hubs[id]
	if !ok {
		h = newHub()
		s.hubs[id] = h
	}
	return h
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithField("error", err).Warn("write response")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg})
}
