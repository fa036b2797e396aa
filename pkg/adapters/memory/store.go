package memory

import (
	"context"
	"sync"

	"github.com/aretw0/espalier/pkg/session"
)

// Store implements session.Store in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*session.Session
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*session.Session),
	}
}

// Save persists the session in memory.
func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	// Copy to ensure isolation, similar to serialization
	copied := sess.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = copied
	return nil
}

// Load retrieves the session from memory.
func (s *Store) Load(ctx context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, session.ErrNotFound
	}

	// Copy on read so the caller can't mutate store state directly by pointer
	return sess.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the IDs of stored sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
