package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/espalier/pkg/session"
)

// lockRecord tracks the current holder of a key.
type lockRecord struct {
	token  string
	expiry time.Time
}

// Locker implements session.Locker for a single process. It honors the same
// semantics as the distributed variant: TTL-bounded holds and release by
// token, so a stale unlock can never free a lock someone else re-acquired.
type Locker struct {
	mu   sync.Mutex
	held map[string]lockRecord
}

// NewLocker creates a new in-process locker.
func NewLocker() *Locker {
	return &Locker{
		held: make(map[string]lockRecord),
	}
}

// Lock acquires the lock for key, polling until it is free, the context is
// canceled, or the current hold expires.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (session.UnlockFunc, error) {
	token := uuid.NewString()

	for {
		if l.tryAcquire(key, token, ttl) {
			return func(ctx context.Context) error {
				l.mu.Lock()
				defer l.mu.Unlock()
				if rec, ok := l.held[key]; ok && rec.token == token {
					delete(l.held, key)
				}
				return nil
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (l *Locker) tryAcquire(key, token string, ttl time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.held[key]; ok && time.Now().Before(rec.expiry) {
		return false
	}
	l.held[key] = lockRecord{token: token, expiry: time.Now().Add(ttl)}
	return true
}
