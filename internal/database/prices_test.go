package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

func TestMandiPricesRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	newPrice := func(market, commodity string, modal int64, reportDate time.Time) *models.MandiPrice {
		m := decimal.NewFromInt(modal)
		return &models.MandiPrice{
			ID:         uuid.NewString(),
			Market:     market,
			State:      "Maharashtra",
			Commodity:  commodity,
			ModalPrice: &m,
			PriceUnit:  models.DefaultPriceUnit,
			ReportDate: reportDate,
		}
	}

	t.Run("SaveMandiPrices and read back by market", func(t *testing.T) {
		testDB.TruncateAll(t)

		now := time.Now()
		require.NoError(t, testDB.SaveMandiPrices([]*models.MandiPrice{
			newPrice("Sangli Market", "Rice", 3200, now),
			newPrice("Sangli Market", "Wheat", 2850, now),
			newPrice("Pune Market", "Onion", 2100, now),
		}))

		prices, err := testDB.GetMandiPrices("Sangli Market", "")
		require.NoError(t, err)
		assert.Len(t, prices, 2)
	})

	t.Run("market filter matches substrings case-insensitively", func(t *testing.T) {
		testDB.TruncateAll(t)

		require.NoError(t, testDB.SaveMandiPrices([]*models.MandiPrice{
			newPrice("Sangli Market", "Rice", 3200, time.Now()),
		}))

		prices, err := testDB.GetMandiPrices("sangli", "")
		require.NoError(t, err)
		assert.Len(t, prices, 1)
	})

	t.Run("date filter keeps the requested day only", func(t *testing.T) {
		testDB.TruncateAll(t)

		now := time.Now()
		require.NoError(t, testDB.SaveMandiPrices([]*models.MandiPrice{
			newPrice("Sangli Market", "Rice", 3200, now),
			newPrice("Sangli Market", "Rice", 3100, now.Add(-48*time.Hour)),
		}))

		prices, err := testDB.GetMandiPrices("Sangli Market", now.Format("2006-01-02"))
		require.NoError(t, err)
		require.Len(t, prices, 1)
		assert.True(t, decimal.NewFromInt(3200).Equal(*prices[0].ModalPrice))
	})

	t.Run("invalid date is rejected", func(t *testing.T) {
		_, err := testDB.GetMandiPrices("", "30-08-2026")
		assert.ErrorIs(t, err, storage.ErrInvalidInput)
	})

	t.Run("duplicate ids are ignored on save", func(t *testing.T) {
		testDB.TruncateAll(t)

		row := newPrice("Sangli Market", "Rice", 3200, time.Now())
		require.NoError(t, testDB.SaveMandiPrices([]*models.MandiPrice{row}))
		require.NoError(t, testDB.SaveMandiPrices([]*models.MandiPrice{row}))

		prices, err := testDB.GetMandiPrices("Sangli Market", "")
		require.NoError(t, err)
		assert.Len(t, prices, 1)
	})

	t.Run("null price fields survive the round-trip", func(t *testing.T) {
		testDB.TruncateAll(t)

		max := decimal.NewFromInt(320)
		row := &models.MandiPrice{
			ID:         uuid.NewString(),
			Market:     "Sangli Market",
			State:      "Maharashtra",
			Commodity:  "Sugarcane",
			MaxPrice:   &max,
			PriceUnit:  models.DefaultPriceUnit,
			ReportDate: time.Now(),
		}
		require.NoError(t, testDB.SaveMandiPrices([]*models.MandiPrice{row}))

		prices, err := testDB.GetMandiPrices("Sangli Market", "")
		require.NoError(t, err)
		require.Len(t, prices, 1)
		assert.Nil(t, prices[0].MinPrice)
		assert.Nil(t, prices[0].ModalPrice)
		require.NotNil(t, prices[0].MaxPrice)
		assert.True(t, max.Equal(*prices[0].MaxPrice))
	})
}
