// Package session provides dialog.SessionStore implementations: a
// process-local map for single-instance deployments and a Redis-backed
// store that survives restarts.
package session

import (
	"context"
	"sync"

	"homestock/internal/dialog"
)

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*dialog.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*dialog.Session)}
}

func (s *MemoryStore) Get(_ context.Context, owner int64) (*dialog.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[owner], nil
}

func (s *MemoryStore) Put(_ context.Context, sess *dialog.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Owner] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, owner)
	return nil
}
