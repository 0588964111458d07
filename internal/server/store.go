package server

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the in-memory registry of live matches.
type Store struct {
	mu      sync.RWMutex
	matches map[uuid.UUID]*Match
}

func NewStore() *Store {
	return &Store{matches: make(map[uuid.UUID]*Match)}
}

func (s *Store) Add(m *Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = m
}

func (s *Store) Get(id uuid.UUID) (*Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	return m, ok
}

func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}
