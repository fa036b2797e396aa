package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/adapters/memory"
)

func TestLocker_AcquireRelease(t *testing.T) {
	t.Parallel()

	locker := memory.NewLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	// Free again, so a second acquire succeeds immediately.
	unlock, err = locker.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_BlocksUntilReleased(t *testing.T) {
	t.Parallel()

	locker := memory.NewLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := locker.Lock(ctx, "k", time.Minute)
		assert.NoError(t, err)
		close(acquired)
		_ = second(ctx)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, unlock(ctx))

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestLocker_ContextCancel(t *testing.T) {
	t.Parallel()

	locker := memory.NewLocker()
	unlock, err := locker.Lock(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_ExpiryAllowsTakeover(t *testing.T) {
	t.Parallel()

	locker := memory.NewLocker()
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)

	// The hold expires without being released, as after a crash.
	time.Sleep(30 * time.Millisecond)

	unlock, err := locker.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)

	// The stale holder's unlock must not free the new hold.
	require.NoError(t, staleUnlock(ctx))

	blockedCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "k", time.Minute)
	assert.Error(t, err, "lock must still be held by the takeover")

	require.NoError(t, unlock(ctx))
}

func TestLocker_IndependentKeys(t *testing.T) {
	t.Parallel()

	locker := memory.NewLocker()
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "a", time.Minute)
	require.NoError(t, err)

	unlockB, err := locker.Lock(ctx, "b", time.Minute)
	require.NoError(t, err, "different keys must not contend")

	require.NoError(t, unlockA(ctx))
	require.NoError(t, unlockB(ctx))
}
