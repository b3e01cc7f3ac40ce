package shopping

import (
	"context"
	"testing"

	"meal-grocer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMarkRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.SetPurchased(ctx, "house-1", "item-a", true))
	require.NoError(t, repo.SetPurchased(ctx, "house-1", "item-b", true))
	require.NoError(t, repo.SetPurchased(ctx, "house-2", "item-a", true))

	ids, err := repo.PurchasedIDs(ctx, "house-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"item-a": true, "item-b": true}, ids)

	t.Run("Unmark", func(t *testing.T) {
		require.NoError(t, repo.SetPurchased(ctx, "house-1", "item-b", false))
		ids, err := repo.PurchasedIDs(ctx, "house-1")
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"item-a": true}, ids)
	})

	t.Run("Clear", func(t *testing.T) {
		n, err := repo.Clear(ctx, "house-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		ids, err := repo.PurchasedIDs(ctx, "house-1")
		require.NoError(t, err)
		assert.Empty(t, ids)

		other, err := repo.PurchasedIDs(ctx, "house-2")
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}
