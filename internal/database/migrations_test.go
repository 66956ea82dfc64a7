package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("all tables exist", func(t *testing.T) {
		tables := []string{
			"users",
			"disease_reports",
			"mandi_prices",
			"community_posts",
			"marketplace_items",
			"price_alerts",
			"produce_listings",
			"bids",
			"logistics_orders",
		}

		for _, table := range tables {
			var exists bool
			err := testDB.GetRawConn().QueryRow(
				`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
				table,
			).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "table %s should exist", table)
		}
	})

	t.Run("alert type is constrained", func(t *testing.T) {
		var userID string
		err := testDB.GetRawConn().QueryRow(
			`INSERT INTO users (phone) VALUES ('+919000000099') RETURNING id`,
		).Scan(&userID)
		require.NoError(t, err)

		_, err = testDB.GetRawConn().Exec(
			`INSERT INTO price_alerts (user_id, commodity, market, target_price, alert_type)
			 VALUES ($1, 'Rice', 'Delhi Market', 4000, 'sideways')`,
			userID,
		)
		assert.Error(t, err)
	})

	t.Run("target price must be positive", func(t *testing.T) {
		var userID string
		err := testDB.GetRawConn().QueryRow(
			`INSERT INTO users (phone) VALUES ('+919000000098') RETURNING id`,
		).Scan(&userID)
		require.NoError(t, err)

		_, err = testDB.GetRawConn().Exec(
			`INSERT INTO price_alerts (user_id, commodity, market, target_price, alert_type)
			 VALUES ($1, 'Rice', 'Delhi Market', 0, 'above')`,
			userID,
		)
		assert.Error(t, err)
	})
}
