package game

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions holds the running games of a server, keyed by game ID.
type Sessions struct {
	mu     sync.RWMutex
	games  map[uuid.UUID]*Controller
	create func() (*Controller, error)
}

// NewSessions returns an empty registry. create builds each new game.
func NewSessions(create func() (*Controller, error)) *Sessions {
	return &Sessions{
		games:  make(map[uuid.UUID]*Controller),
		create: create,
	}
}

// Create starts and registers a new game.
func (s *Sessions) Create() (*Controller, error) {
	c, err := s.create()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[c.ID()] = c
	return c, nil
}

func (s *Sessions) Get(id uuid.UUID) (*Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.games[id]
	return c, ok
}

// Delete removes a game and reports whether it existed.
func (s *Sessions) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.games[id]
	delete(s.games, id)
	return ok
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
