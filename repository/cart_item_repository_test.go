package repository

import (
	"context"
	"testing"

	"gameportal/models"
	"gameportal/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemRepository_Lifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewCartItemRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("cart_user")
	require.NoError(t, userRepo.Create(ctx, user))

	priced := testutil.CreateTestCartItem(user.ID, "game-priced", "14.99")
	free := testutil.CreateTestCartItem(user.ID, "game-free", "")
	require.NoError(t, repo.Create(ctx, priced))
	require.NoError(t, repo.Create(ctx, free))

	t.Run("price round trips including null", func(t *testing.T) {
		items, err := repo.GetByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)

		byID := map[string]*models.CartItem{}
		for _, item := range items {
			byID[item.GameID] = item
		}
		require.True(t, byID["game-priced"].Price.Valid)
		assert.True(t, byID["game-priced"].Price.Decimal.Equal(decimal.RequireFromString("14.99")))
		assert.False(t, byID["game-free"].Price.Valid)
	})

	t.Run("duplicate game rejected", func(t *testing.T) {
		dup := testutil.CreateTestCartItem(user.ID, "game-priced", "9.99")
		err := repo.Create(ctx, dup)
		assert.Error(t, err)
	})

	t.Run("count and targeted delete", func(t *testing.T) {
		count, err := repo.CountByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		require.NoError(t, repo.DeleteByUserAndGame(ctx, user.ID, "game-free"))

		found, err := repo.GetByUserAndGame(ctx, user.ID, "game-free")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("clear all", func(t *testing.T) {
		require.NoError(t, repo.DeleteAllByUser(ctx, user.ID))

		count, err := repo.CountByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestLibraryItemRepository_OwnershipIsUnique(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewLibraryItemRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("library_user")
	require.NoError(t, userRepo.Create(ctx, user))

	item := &models.LibraryItem{
		UserID:         user.ID,
		GameID:         "game-owned",
		Name:           "game-owned",
		PurchasedPrice: "RM 12.50 + 300 Orbs",
	}
	require.NoError(t, repo.Create(ctx, item))
	assert.NotZero(t, item.ID)

	owned, err := repo.Exists(ctx, user.ID, "game-owned")
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = repo.Exists(ctx, user.ID, "game-other")
	require.NoError(t, err)
	assert.False(t, owned)

	dup := &models.LibraryItem{UserID: user.ID, GameID: "game-owned", Name: "game-owned", PurchasedPrice: "Free"}
	assert.Error(t, repo.Create(ctx, dup))

	items, err := repo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "RM 12.50 + 300 Orbs", items[0].PurchasedPrice)
}
