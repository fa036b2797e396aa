package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/adapters/redis"
)

func TestLocker_AcquireRelease(t *testing.T) {
	mr, client := newTestClient(t)

	locker := redis.NewLocker(client, "espalier:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "sess-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("espalier:lock:sess-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("espalier:lock:sess-1"))

	// Reacquire after release succeeds immediately.
	unlock, err = locker.Lock(ctx, "sess-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_Contention(t *testing.T) {
	_, client := newTestClient(t)

	locker := redis.NewLocker(client, "espalier:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "busy", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	blockedCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(blockedCtx, "busy", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_StaleUnlockIsSafe(t *testing.T) {
	mr, client := newTestClient(t)

	locker := redis.NewLocker(client, "espalier:")
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	// Expire the hold as if the holder crashed, then take over.
	mr.FastForward(2 * time.Second)

	unlock, err := locker.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)

	// The stale unlock must leave the new hold in place.
	require.NoError(t, staleUnlock(ctx))
	assert.True(t, mr.Exists("espalier:lock:k"), "takeover lock must survive a stale release")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("espalier:lock:k"))
}

func TestLocker_IndependentKeys(t *testing.T) {
	_, client := newTestClient(t)

	locker := redis.NewLocker(client, "espalier:")
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "a", time.Minute)
	require.NoError(t, err)

	unlockB, err := locker.Lock(ctx, "b", time.Minute)
	require.NoError(t, err, "different keys must not contend")

	require.NoError(t, unlockA(ctx))
	require.NoError(t, unlockB(ctx))
}
