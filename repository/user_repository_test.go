package repository

import (
	"context"
	"testing"

	"gameportal/models"
	"gameportal/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("alice")
	err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.UID, found.UID)
		assert.Equal(t, "alice", found.Username)
		assert.Equal(t, int64(1000), found.Orbs)
	})

	t.Run("get by email", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("missing user is nil", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := testutil.CreateTestUser("alice2")
		dup.Email = "alice@example.com"
		err := repo.Create(ctx, dup)
		assert.Error(t, err)
	})
}

func TestUserRepository_OrbsMovement(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUserWithOrbs("bob", 500)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("add orbs", func(t *testing.T) {
		err := repo.AddOrbs(ctx, user.ID, 250)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(750), found.Orbs)
	})

	t.Run("deduct orbs", func(t *testing.T) {
		err := repo.DeductOrbs(ctx, user.ID, 300)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(450), found.Orbs)
	})

	t.Run("overdraw rejected and balance untouched", func(t *testing.T) {
		err := repo.DeductOrbs(ctx, user.ID, 10000)
		assert.Error(t, err)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(450), found.Orbs)
	})
}

func TestUserRepository_UpdateProfileAndStatus(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("carol")
	require.NoError(t, repo.Create(ctx, user))

	avatar := "https://cdn.example.com/carol.png"
	require.NoError(t, repo.UpdateProfile(ctx, user.ID, "carol_rebranded", &avatar))
	require.NoError(t, repo.UpdateStatus(ctx, user.ID, models.UserStatusDoNotDisturb))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol_rebranded", found.Username)
	require.NotNil(t, found.AvatarURL)
	assert.Equal(t, avatar, *found.AvatarURL)
	assert.Equal(t, models.UserStatusDoNotDisturb, found.Status)
}

func TestUserRepository_GetByIDs(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	a := testutil.CreateTestUser("dan")
	b := testutil.CreateTestUser("erin")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	users, err := repo.GetByIDs(ctx, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
