package mapping

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions gives every session its own Registry so that concurrent views
// never share mapping state.
type Sessions[F any] struct {
	mu       sync.RWMutex
	sessions map[string]*Registry[F]
	opts     []Option
}

// NewSessions returns an empty session table. opts apply to every registry
// it opens.
func NewSessions[F any](opts ...Option) *Sessions[F] {
	return &Sessions[F]{
		sessions: make(map[string]*Registry[F]),
		opts:     opts,
	}
}

// Open creates a registry under a fresh session id.
func (s *Sessions[F]) Open() (string, *Registry[F]) {
	id := uuid.NewString()
	reg := NewRegistry[F](s.opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = reg
	return id, reg
}

func (s *Sessions[F]) Get(id string) (*Registry[F], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.sessions[id]
	return reg, ok
}

// Close drops the session. Closing an unknown id is a no-op.
func (s *Sessions[F]) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Sessions[F]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
