package database

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

func TestPriceAlertsRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	// Helper to create a user for foreign key references
	createTestUser := func(t *testing.T, phone string) *models.User {
		user := &models.User{Phone: phone, Name: "Test Farmer", IsOnboarded: true}
		err := testDB.CreateUser(user)
		require.NoError(t, err)
		return user
	}

	newAlert := func(userID, commodity string, target int64, alertType string) *models.PriceAlert {
		return &models.PriceAlert{
			UserID:      userID,
			Commodity:   commodity,
			Market:      "Delhi Market",
			TargetPrice: decimal.NewFromInt(target),
			AlertType:   alertType,
			IsActive:    true,
		}
	}

	t.Run("CreatePriceAlert assigns id and default unit", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, "+919000000001")

		alert := newAlert(user.ID, "Rice", 4000, models.AlertTypeAbove)
		err := testDB.CreatePriceAlert(alert)
		require.NoError(t, err)
		assert.NotEmpty(t, alert.ID)
		assert.Equal(t, models.DefaultPriceUnit, alert.PriceUnit)
		assert.False(t, alert.CreatedAt.IsZero())
	})

	t.Run("GetPriceAlert retrieves the alert", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, "+919000000002")

		alert := newAlert(user.ID, "Wheat", 3000, models.AlertTypeBelow)
		require.NoError(t, testDB.CreatePriceAlert(alert))

		retrieved, err := testDB.GetPriceAlert(alert.ID)
		require.NoError(t, err)
		assert.Equal(t, "Wheat", retrieved.Commodity)
		assert.Equal(t, models.AlertTypeBelow, retrieved.AlertType)
		assert.True(t, decimal.NewFromInt(3000).Equal(retrieved.TargetPrice))
		assert.Nil(t, retrieved.LastTriggered)
	})

	t.Run("GetPriceAlert on missing id returns ErrNotFound", func(t *testing.T) {
		testDB.TruncateAll(t)

		_, err := testDB.GetPriceAlert("00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetPriceAlertsByUser returns only that user's alerts newest first", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, "+919000000003")
		other := createTestUser(t, "+919000000004")

		require.NoError(t, testDB.CreatePriceAlert(newAlert(user.ID, "Rice", 4000, models.AlertTypeAbove)))
		require.NoError(t, testDB.CreatePriceAlert(newAlert(user.ID, "Wheat", 3000, models.AlertTypeAbove)))
		require.NoError(t, testDB.CreatePriceAlert(newAlert(other.ID, "Onion", 2000, models.AlertTypeBelow)))

		alerts, err := testDB.GetPriceAlertsByUser(user.ID)
		require.NoError(t, err)
		assert.Len(t, alerts, 2)
	})

	t.Run("GetActivePriceAlerts excludes inactive alerts", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, "+919000000005")

		active := newAlert(user.ID, "Rice", 4000, models.AlertTypeAbove)
		require.NoError(t, testDB.CreatePriceAlert(active))

		inactive := newAlert(user.ID, "Wheat", 3000, models.AlertTypeAbove)
		inactive.IsActive = false
		require.NoError(t, testDB.CreatePriceAlert(inactive))

		alerts, err := testDB.GetActivePriceAlerts()
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, active.ID, alerts[0].ID)
	})

	t.Run("UpdatePriceAlert applies partial update", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, "+919000000006")

		alert := newAlert(user.ID, "Rice", 4000, models.AlertTypeAbove)
		require.NoError(t, testDB.CreatePriceAlert(alert))

		off := false
		target := decimal.NewFromInt(4200)
		updated, err := testDB.UpdatePriceAlert(alert.ID, &models.PriceAlertUpdate{
			IsActive:    &off,
			TargetPrice: &target,
		})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.True(t, target.Equal(updated.TargetPrice))
		assert.Equal(t, "Rice", updated.Commodity)
	})

	t.Run("UpdatePriceAlert records last triggered time", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, "+919000000007")

		alert := newAlert(user.ID, "Rice", 4000, models.AlertTypeAbove)
		require.NoError(t, testDB.CreatePriceAlert(alert))

		ts := time.Now().UTC().Truncate(time.Second)
		updated, err := testDB.UpdatePriceAlert(alert.ID, &models.PriceAlertUpdate{LastTriggered: &ts})
		require.NoError(t, err)
		require.NotNil(t, updated.LastTriggered)
		assert.WithinDuration(t, ts, *updated.LastTriggered, time.Second)
	})

	t.Run("UpdatePriceAlert on missing id returns ErrNotFound", func(t *testing.T) {
		testDB.TruncateAll(t)

		off := false
		_, err := testDB.UpdatePriceAlert("00000000-0000-0000-0000-000000000000", &models.PriceAlertUpdate{IsActive: &off})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeletePriceAlert removes the alert", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, "+919000000008")

		alert := newAlert(user.ID, "Rice", 4000, models.AlertTypeAbove)
		require.NoError(t, testDB.CreatePriceAlert(alert))

		require.NoError(t, testDB.DeletePriceAlert(alert.ID))
		_, err := testDB.GetPriceAlert(alert.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, testDB.DeletePriceAlert(alert.ID), storage.ErrNotFound)
	})
}
