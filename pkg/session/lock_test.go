package session

import (
	"context"
	"fmt"
	"testing"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, s *Session) error { return nil }
func (m *MockStore) Load(ctx context.Context, id string) (*Session, error) {
	return nil, ErrNotFound
}
func (m *MockStore) Delete(ctx context.Context, id string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)  { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	// Create and delete many sessions, then verify the lock map does not
	// accumulate entries.
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, New(id, "mod3", "R0"))
		_ = mgr.Delete(ctx, id)
	}

	lockCount := len(mgr.locks)
	t.Logf("Sessions Created: %d, Locks Remaining: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
