package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

const listingColumns = `id, farmer_id, commodity, variety, quantity, quantity_unit, ask_price, price_unit, location, status, created_at`

// CreateProduceListing inserts a new listing and fills in the id.
func (db *DB) CreateProduceListing(listing *models.ProduceListing) error {
	if listing.Status == "" {
		listing.Status = models.ListingStatusOpen
	}
	query := `
		INSERT INTO produce_listings (farmer_id, commodity, variety, quantity, quantity_unit, ask_price, price_unit, location, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		listing.FarmerID, listing.Commodity, nullString(listing.Variety),
		listing.Quantity.String(), listing.QuantityUnit, listing.AskPrice.String(),
		listing.PriceUnit, nullString(listing.Location), listing.Status, now,
	).Scan(&listing.ID)
	if err != nil {
		return fmt.Errorf("failed to create produce listing: %w", err)
	}
	listing.CreatedAt = now
	return nil
}

// GetProduceListing retrieves a listing by id.
func (db *DB) GetProduceListing(id string) (*models.ProduceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM produce_listings WHERE id = $1`
	row := db.conn.QueryRow(query, id)

	l, err := scanProduceListing(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("produce listing %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get produce listing: %w", err)
	}
	return l, nil
}

// GetProduceListings retrieves listings, optionally filtered by status.
func (db *DB) GetProduceListings(status string) ([]*models.ProduceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM produce_listings`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query produce listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.ProduceListing
	for rows.Next() {
		l, err := scanProduceListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan produce listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func scanProduceListing(scan func(dest ...interface{}) error) (*models.ProduceListing, error) {
	var l models.ProduceListing
	var variety, location sql.NullString
	var quantity, askPrice string

	err := scan(
		&l.ID, &l.FarmerID, &l.Commodity, &variety, &quantity, &l.QuantityUnit,
		&askPrice, &l.PriceUnit, &location, &l.Status, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Quantity, _ = decimal.NewFromString(quantity)
	l.AskPrice, _ = decimal.NewFromString(askPrice)
	if variety.Valid {
		l.Variety = variety.String
	}
	if location.Valid {
		l.Location = location.String
	}
	return &l, nil
}

// CreateBid inserts a new bid on a listing and fills in the id.
func (db *DB) CreateBid(bid *models.Bid) error {
	if bid.Status == "" {
		bid.Status = models.BidStatusPending
	}
	query := `
		INSERT INTO bids (listing_id, buyer_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		bid.ListingID, bid.BuyerID, bid.Amount.String(), bid.Status, now,
	).Scan(&bid.ID)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	bid.CreatedAt = now
	return nil
}

// GetBidsForListing retrieves bids on a listing, highest amount first.
func (db *DB) GetBidsForListing(listingID string) ([]*models.Bid, error) {
	query := `
		SELECT id, listing_id, buyer_id, amount, status, created_at
		FROM bids
		WHERE listing_id = $1
		ORDER BY amount DESC
	`
	rows, err := db.conn.Query(query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		var b models.Bid
		var amount string
		if err := rows.Scan(&b.ID, &b.ListingID, &b.BuyerID, &amount, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		b.Amount, _ = decimal.NewFromString(amount)
		bids = append(bids, &b)
	}
	return bids, nil
}

// AcceptBid marks a bid accepted and its listing sold, in one transaction.
func (db *DB) AcceptBid(id string) (*models.Bid, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var b models.Bid
	var amount string
	err = tx.QueryRow(`
		UPDATE bids SET status = $2 WHERE id = $1
		RETURNING id, listing_id, buyer_id, amount, status, created_at
	`, id, models.BidStatusAccepted).Scan(&b.ID, &b.ListingID, &b.BuyerID, &amount, &b.Status, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bid %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept bid: %w", err)
	}
	b.Amount, _ = decimal.NewFromString(amount)

	if _, err := tx.Exec(`UPDATE produce_listings SET status = $2 WHERE id = $1`,
		b.ListingID, models.ListingStatusSold); err != nil {
		return nil, fmt.Errorf("failed to mark listing sold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &b, nil
}

// CreateLogisticsOrder inserts a new transport order and fills in the id.
func (db *DB) CreateLogisticsOrder(order *models.LogisticsOrder) error {
	if order.Status == "" {
		order.Status = models.OrderStatusRequested
	}
	query := `
		INSERT INTO logistics_orders (listing_id, user_id, pickup_location, drop_location, vehicle_type, status, scheduled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		nullString(order.ListingID), order.UserID, order.PickupLocation, order.DropLocation,
		nullString(order.VehicleType), order.Status, order.ScheduledAt, now,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create logistics order: %w", err)
	}
	order.CreatedAt = now
	return nil
}

// GetLogisticsOrdersByUser retrieves a user's transport orders, newest first.
func (db *DB) GetLogisticsOrdersByUser(userID string) ([]*models.LogisticsOrder, error) {
	query := `
		SELECT id, listing_id, user_id, pickup_location, drop_location, vehicle_type, status, scheduled_at, created_at
		FROM logistics_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query logistics orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.LogisticsOrder
	for rows.Next() {
		var o models.LogisticsOrder
		var listingID, vehicleType sql.NullString
		var scheduledAt sql.NullTime

		err := rows.Scan(
			&o.ID, &listingID, &o.UserID, &o.PickupLocation, &o.DropLocation,
			&vehicleType, &o.Status, &scheduledAt, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan logistics order: %w", err)
		}

		if listingID.Valid {
			o.ListingID = listingID.String
		}
		if vehicleType.Valid {
			o.VehicleType = vehicleType.String
		}
		if scheduledAt.Valid {
			o.ScheduledAt = &scheduledAt.Time
		}
		orders = append(orders, &o)
	}
	return orders, nil
}
