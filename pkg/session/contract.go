package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store
// implementation adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	id := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sess := New(id, "mod3", "R0")
		sess.Advance("R1")

		err := store.Save(ctx, sess)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.ID, loaded.ID)
		assert.Equal(t, sess.Machine, loaded.Machine)
		assert.Equal(t, sess.Current, loaded.Current)
		assert.Equal(t, sess.Steps, loaded.Steps)
		// Serialization may round timestamps; equality within a second is enough.
		assert.WithinDuration(t, sess.CreatedAt, loaded.CreatedAt, time.Second)
		assert.WithinDuration(t, sess.UpdatedAt, loaded.UpdatedAt, time.Second)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Current = "mutated"

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", string(again.Current), "mutating a loaded session must not affect the store")
	})

	t.Run("Overwrite", func(t *testing.T) {
		sess := New(id, "mod3", "R0")
		sess.Advance("R1")
		sess.Advance("R0")
		require.NoError(t, store.Save(ctx, sess))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Steps)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, New(id, "mod3", "R0")))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "Load after Delete should return ErrNotFound")
	})

	t.Run("Delete Non-Existent", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "non-existent-"+id), "Delete must be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, New(id1, "mod3", "R0"))
		_ = store.Save(ctx, New(id2, "mod3", "R0"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
