package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestMemoryCarts_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCarts()

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	cart := models.NewCart("s1")
	cart.Set(models.KindProduct, "p1", 2)
	cart.Set(models.KindDeal, "d1", 1)
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity(models.KindProduct, "p1"))
	assert.Equal(t, 1, got.Quantity(models.KindDeal, "d1"))
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, "s1"))
	assert.ErrorIs(t, store.Delete(ctx, "s1"), ErrNotFound)
}

func TestMemoryCarts_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCarts()

	cart := models.NewCart("s1")
	cart.Set(models.KindProduct, "p1", 1)
	require.NoError(t, store.Save(ctx, cart))

	// mutations after save must not leak into the store
	cart.Set(models.KindProduct, "p1", 9)
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	got.Set(models.KindProduct, "p2", 3)

	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Quantity(models.KindProduct, "p1"))
	assert.Equal(t, 0, again.Quantity(models.KindProduct, "p2"))
}
