package webhook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedStatus(t *testing.T, store *MemoryStatusStore, txID string) string {
	t.Helper()
	status, found, err := store.Get(context.Background(), txID)
	require.NoError(t, err)
	require.True(t, found)
	return status
}

func TestReconciler_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("first paid is applied and confirmed once", func(t *testing.T) {
		store := NewMemoryStatusStore()
		r := NewReconciler(store)

		first, err := r.Apply(ctx, "t1", "paid")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, first.Result)
		assert.True(t, first.Confirmed)

		second, err := r.Apply(ctx, "t1", "paid")
		require.NoError(t, err)
		assert.Equal(t, ResultIgnoredDuplicate, second.Result)
		assert.False(t, second.Confirmed)

		assert.Equal(t, "paid", storedStatus(t, store, "t1"))
	})

	t.Run("pending then paid progresses", func(t *testing.T) {
		store := NewMemoryStatusStore()
		r := NewReconciler(store)

		pending, err := r.Apply(ctx, "t1", "pending")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, pending.Result)
		assert.False(t, pending.Confirmed)

		paid, err := r.Apply(ctx, "t1", "paid")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, paid.Result)
		assert.True(t, paid.Confirmed)
		assert.Equal(t, "pending", paid.PriorStatus)
	})

	t.Run("authorized is confirmed", func(t *testing.T) {
		r := NewReconciler(NewMemoryStatusStore())
		out, err := r.Apply(ctx, "t9", "authorized")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, out.Result)
		assert.True(t, out.Confirmed)
	})

	t.Run("declined is terminal but not confirmed", func(t *testing.T) {
		r := NewReconciler(NewMemoryStatusStore())
		out, err := r.Apply(ctx, "t1", "declined")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, out.Result)
		assert.False(t, out.Confirmed)
	})

	t.Run("regression from terminal state is ignored", func(t *testing.T) {
		store := NewMemoryStatusStore()
		r := NewReconciler(store)

		_, err := r.Apply(ctx, "t1", "paid")
		require.NoError(t, err)

		out, err := r.Apply(ctx, "t1", "pending")
		require.NoError(t, err)
		assert.Equal(t, ResultIgnoredRegression, out.Result)
		assert.Equal(t, "paid", out.PriorStatus)
		assert.False(t, out.Confirmed)

		assert.Equal(t, "paid", storedStatus(t, store, "t1"))
	})

	t.Run("terminal to different terminal is ignored", func(t *testing.T) {
		store := NewMemoryStatusStore()
		r := NewReconciler(store)

		_, err := r.Apply(ctx, "t1", "declined")
		require.NoError(t, err)

		out, err := r.Apply(ctx, "t1", "paid")
		require.NoError(t, err)
		assert.Equal(t, ResultIgnoredRegression, out.Result)
		assert.Equal(t, "declined", storedStatus(t, store, "t1"))
	})

	t.Run("unknown status is stored verbatim and not terminal", func(t *testing.T) {
		store := NewMemoryStatusStore()
		r := NewReconciler(store)

		out, err := r.Apply(ctx, "t1", "in_manual_review")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, out.Result)
		assert.Equal(t, "in_manual_review", storedStatus(t, store, "t1"))

		// An unrecognized status must not block later progress.
		later, err := r.Apply(ctx, "t1", "paid")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, later.Result)
		assert.True(t, later.Confirmed)
	})

	t.Run("transactions are independent", func(t *testing.T) {
		store := NewMemoryStatusStore()
		r := NewReconciler(store)

		_, err := r.Apply(ctx, "t1", "paid")
		require.NoError(t, err)

		out, err := r.Apply(ctx, "t2", "pending")
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, out.Result)
		assert.Equal(t, "paid", storedStatus(t, store, "t1"))
		assert.Equal(t, "pending", storedStatus(t, store, "t2"))
	})
}
