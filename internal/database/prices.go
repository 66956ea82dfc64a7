package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

const priceColumns = `id, market, state, commodity, variety, grade, min_price, max_price, modal_price, price_unit, report_date, created_at`

// GetMandiPrices retrieves price rows, optionally filtered by market
// (substring, case-insensitive) and report date (exact calendar day,
// formatted 2006-01-02). Newest report first.
func (db *DB) GetMandiPrices(market, date string) ([]*models.MandiPrice, error) {
	query := `SELECT ` + priceColumns + ` FROM mandi_prices`
	var conditions []string
	var args []interface{}

	if market != "" {
		args = append(args, "%"+market+"%")
		conditions = append(conditions, fmt.Sprintf("market ILIKE $%d", len(args)))
	}
	if date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, storage.ErrInvalidInput)
		}
		args = append(args, day)
		conditions = append(conditions, fmt.Sprintf("report_date::date = $%d::date", len(args)))
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY report_date DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mandi prices: %w", err)
	}
	defer rows.Close()

	var prices []*models.MandiPrice
	for rows.Next() {
		var p models.MandiPrice
		var variety, grade sql.NullString
		var minPrice, maxPrice, modalPrice sql.NullString

		err := rows.Scan(
			&p.ID, &p.Market, &p.State, &p.Commodity, &variety, &grade,
			&minPrice, &maxPrice, &modalPrice, &p.PriceUnit, &p.ReportDate, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mandi price: %w", err)
		}

		if variety.Valid {
			p.Variety = variety.String
		}
		if grade.Valid {
			p.Grade = grade.String
		}
		p.MinPrice = parseNullDecimal(minPrice)
		p.MaxPrice = parseNullDecimal(maxPrice)
		p.ModalPrice = parseNullDecimal(modalPrice)
		prices = append(prices, &p)
	}

	return prices, nil
}

// SaveMandiPrices inserts a batch of price snapshot rows.
func (db *DB) SaveMandiPrices(prices []*models.MandiPrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO mandi_prices (id, market, state, commodity, variety, grade, min_price, max_price, modal_price, price_unit, report_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, p := range prices {
		_, err := stmt.Exec(
			p.ID, p.Market, p.State, p.Commodity, nullString(p.Variety), nullString(p.Grade),
			decimalString(p.MinPrice), decimalString(p.MaxPrice), decimalString(p.ModalPrice),
			p.PriceUnit, p.ReportDate, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mandi price for %s: %w", p.Commodity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func parseNullDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func decimalString(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}
