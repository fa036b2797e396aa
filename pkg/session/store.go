package session

import (
	"context"
	"time"
)

// Store defines the interface for persisting sessions.
// This allows for durable execution, enabling stop-and-resume workflows.
type Store interface {
	// Save persists the session under its ID, overwriting any previous value.
	Save(ctx context.Context, s *Session) error

	// Load retrieves the session for the given ID.
	// Returns ErrNotFound if the session does not exist.
	Load(ctx context.Context, id string) (*Session, error)

	// Delete removes the session for the given ID. Deleting a session that
	// does not exist is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all persisted sessions.
	List(ctx context.Context) ([]string, error)
}

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// Locker defines the interface for distributed concurrency control.
// It allows the Manager to coordinate access across multiple replicas.
type Locker interface {
	// Lock attempts to acquire a distributed lock for the given key.
	// It blocks until the lock is acquired or the context is canceled; the
	// TTL bounds how long a crashed holder can leave the key locked.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
