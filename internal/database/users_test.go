package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

func TestUsersRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateUser and GetUser round-trip", func(t *testing.T) {
		testDB.TruncateAll(t)

		age := 42
		user := &models.User{
			Phone:        "+919000000001",
			Name:         "Rajesh Kumar",
			Age:          &age,
			Location:     "Sangli, MH",
			FarmSize:     decimal.NewFromFloat(2.5),
			PrimaryCrops: []string{"rice", "cotton"},
			Language:     "mr",
			IsOnboarded:  true,
		}
		require.NoError(t, testDB.CreateUser(user))
		require.NotEmpty(t, user.ID)

		got, err := testDB.GetUser(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rajesh Kumar", got.Name)
		require.NotNil(t, got.Age)
		assert.Equal(t, 42, *got.Age)
		assert.True(t, decimal.NewFromFloat(2.5).Equal(got.FarmSize))
		assert.Equal(t, []string{"rice", "cotton"}, got.PrimaryCrops)
		assert.True(t, got.IsOnboarded)
	})

	t.Run("CreateUser with only a phone leaves optionals empty", func(t *testing.T) {
		testDB.TruncateAll(t)

		user := &models.User{Phone: "+919000000002"}
		require.NoError(t, testDB.CreateUser(user))

		got, err := testDB.GetUser(user.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Name)
		assert.Nil(t, got.Age)
		assert.True(t, got.FarmSize.IsZero())
		assert.Nil(t, got.PrimaryCrops)
	})

	t.Run("GetUserByPhone finds the user", func(t *testing.T) {
		testDB.TruncateAll(t)

		user := &models.User{Phone: "+919000000003", Name: "Sita Devi"}
		require.NoError(t, testDB.CreateUser(user))

		got, err := testDB.GetUserByPhone("+919000000003")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		testDB.TruncateAll(t)

		_, err := testDB.GetUser("00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = testDB.GetUserByPhone("+910000000000")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateUser persists changes", func(t *testing.T) {
		testDB.TruncateAll(t)

		user := &models.User{Phone: "+919000000004"}
		require.NoError(t, testDB.CreateUser(user))

		user.Name = "Onboarded Farmer"
		user.IsOnboarded = true
		user.PrimaryCrops = []string{"wheat"}
		require.NoError(t, testDB.UpdateUser(user))

		got, err := testDB.GetUser(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Onboarded Farmer", got.Name)
		assert.True(t, got.IsOnboarded)
		assert.Equal(t, []string{"wheat"}, got.PrimaryCrops)
	})

	t.Run("UpdateUser on missing id returns ErrNotFound", func(t *testing.T) {
		testDB.TruncateAll(t)

		ghost := &models.User{ID: "00000000-0000-0000-0000-000000000000", Phone: "+911234567890"}
		assert.ErrorIs(t, testDB.UpdateUser(ghost), storage.ErrNotFound)
	})
}
