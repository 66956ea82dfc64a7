package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
)

// GetMarketplaceItems retrieves active items, optionally filtered by category.
func (db *DB) GetMarketplaceItems(category string) ([]*models.MarketplaceItem, error) {
	query := `
		SELECT id, seller_id, title, description, category, price, price_unit,
		       quantity, quantity_unit, images, location, contact_info, is_active, created_at
		FROM marketplace_items
		WHERE is_active = true
	`
	var args []interface{}
	if category != "" && category != "all" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query marketplace items: %w", err)
	}
	defer rows.Close()

	var items []*models.MarketplaceItem
	for rows.Next() {
		var it models.MarketplaceItem
		var description, priceUnit, quantityUnit, location, contactInfo sql.NullString
		var price string
		var quantity sql.NullString
		var images []byte

		err := rows.Scan(
			&it.ID, &it.SellerID, &it.Title, &description, &it.Category, &price, &priceUnit,
			&quantity, &quantityUnit, &images, &location, &contactInfo, &it.IsActive, &it.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marketplace item: %w", err)
		}

		it.Price, _ = decimal.NewFromString(price)
		if description.Valid {
			it.Description = description.String
		}
		if priceUnit.Valid {
			it.PriceUnit = priceUnit.String
		}
		if quantity.Valid {
			it.Quantity, _ = decimal.NewFromString(quantity.String)
		}
		if quantityUnit.Valid {
			it.QuantityUnit = quantityUnit.String
		}
		if location.Valid {
			it.Location = location.String
		}
		if contactInfo.Valid {
			it.ContactInfo = contactInfo.String
		}
		if it.Images, err = unmarshalJSON(images); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}

	return items, nil
}

// CreateMarketplaceItem inserts a new item and fills in the id.
func (db *DB) CreateMarketplaceItem(item *models.MarketplaceItem) error {
	query := `
		INSERT INTO marketplace_items (seller_id, title, description, category, price, price_unit,
		                               quantity, quantity_unit, images, location, contact_info, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	images, err := marshalJSON(item.Images)
	if err != nil {
		return err
	}
	now := time.Now()
	err = db.conn.QueryRow(query,
		item.SellerID, item.Title, nullString(item.Description), item.Category,
		item.Price.String(), nullString(item.PriceUnit), nullDecimal(item.Quantity),
		nullString(item.QuantityUnit), images, nullString(item.Location),
		nullString(item.ContactInfo), item.IsActive, now,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create marketplace item: %w", err)
	}
	item.CreatedAt = now
	return nil
}
