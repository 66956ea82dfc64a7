package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

const alertColumns = `id, user_id, commodity, market, target_price, price_unit, alert_type, is_active, last_triggered, created_at`

// CreatePriceAlert inserts a new price alert and fills in the generated id.
func (db *DB) CreatePriceAlert(alert *models.PriceAlert) error {
	if alert.PriceUnit == "" {
		alert.PriceUnit = models.DefaultPriceUnit
	}
	query := `
		INSERT INTO price_alerts (user_id, commodity, market, target_price, price_unit, alert_type, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		alert.UserID, alert.Commodity, alert.Market, alert.TargetPrice.String(),
		alert.PriceUnit, alert.AlertType, alert.IsActive, now,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to create price alert: %w", err)
	}
	alert.CreatedAt = now
	return nil
}

// GetPriceAlert retrieves a price alert by id.
func (db *DB) GetPriceAlert(id string) (*models.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE id = $1`
	var a models.PriceAlert
	var targetPrice string
	var lastTriggered sql.NullTime

	err := db.conn.QueryRow(query, id).Scan(
		&a.ID, &a.UserID, &a.Commodity, &a.Market, &targetPrice,
		&a.PriceUnit, &a.AlertType, &a.IsActive, &lastTriggered, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("price alert %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price alert: %w", err)
	}

	a.TargetPrice, _ = decimal.NewFromString(targetPrice)
	if lastTriggered.Valid {
		a.LastTriggered = &lastTriggered.Time
	}
	return &a, nil
}

// GetPriceAlertsByUser retrieves a user's alerts, newest first.
func (db *DB) GetPriceAlertsByUser(userID string) ([]*models.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE user_id = $1 ORDER BY created_at DESC`
	return db.scanPriceAlerts(db.conn.Query(query, userID))
}

// GetActivePriceAlerts retrieves all active alerts across all users.
func (db *DB) GetActivePriceAlerts() ([]*models.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE is_active = true ORDER BY created_at ASC`
	return db.scanPriceAlerts(db.conn.Query(query))
}

func (db *DB) scanPriceAlerts(rows *sql.Rows, err error) ([]*models.PriceAlert, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query price alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.PriceAlert
	for rows.Next() {
		var a models.PriceAlert
		var targetPrice string
		var lastTriggered sql.NullTime

		err := rows.Scan(
			&a.ID, &a.UserID, &a.Commodity, &a.Market, &targetPrice,
			&a.PriceUnit, &a.AlertType, &a.IsActive, &lastTriggered, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price alert: %w", err)
		}

		a.TargetPrice, _ = decimal.NewFromString(targetPrice)
		if lastTriggered.Valid {
			a.LastTriggered = &lastTriggered.Time
		}
		alerts = append(alerts, &a)
	}

	return alerts, nil
}

// UpdatePriceAlert applies a partial update and returns the updated alert.
func (db *DB) UpdatePriceAlert(id string, upd *models.PriceAlertUpdate) (*models.PriceAlert, error) {
	sets := make([]string, 0, 7)
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Commodity != nil {
		add("commodity", *upd.Commodity)
	}
	if upd.Market != nil {
		add("market", *upd.Market)
	}
	if upd.TargetPrice != nil {
		add("target_price", upd.TargetPrice.String())
	}
	if upd.PriceUnit != nil {
		add("price_unit", *upd.PriceUnit)
	}
	if upd.AlertType != nil {
		add("alert_type", *upd.AlertType)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if upd.LastTriggered != nil {
		add("last_triggered", *upd.LastTriggered)
	}

	if len(sets) == 0 {
		return db.GetPriceAlert(id)
	}

	query := `UPDATE price_alerts SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	result, err := db.conn.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update price alert: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, fmt.Errorf("price alert %s: %w", id, storage.ErrNotFound)
	}
	return db.GetPriceAlert(id)
}

// DeletePriceAlert removes a price alert by id.
func (db *DB) DeletePriceAlert(id string) error {
	result, err := db.conn.Exec(`DELETE FROM price_alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete price alert: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("price alert %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
