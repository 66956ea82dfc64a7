package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produce listing status constants
const (
	ListingStatusOpen      = "open"
	ListingStatusSold      = "sold"
	ListingStatusCancelled = "cancelled"
)

// Bid status constants
const (
	BidStatusPending  = "pending"
	BidStatusAccepted = "accepted"
	BidStatusRejected = "rejected"
)

// Logistics order status constants
const (
	OrderStatusRequested = "requested"
	OrderStatusInTransit = "in_transit"
	OrderStatusDelivered = "delivered"
)

// ProduceListing is a lot of produce a farmer has put up for bidding.
type ProduceListing struct {
	ID           string          `json:"id"`
	FarmerID     string          `json:"farmer_id"`
	Commodity    string          `json:"commodity"`
	Variety      string          `json:"variety,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	QuantityUnit string          `json:"quantity_unit"`
	AskPrice     decimal.Decimal `json:"ask_price"`
	PriceUnit    string          `json:"price_unit"`
	Location     string          `json:"location,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Bid is a buyer's offer on a produce listing.
type Bid struct {
	ID        string          `json:"id"`
	ListingID string          `json:"listing_id"`
	BuyerID   string          `json:"buyer_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// LogisticsOrder is a transport request for a sold lot.
type LogisticsOrder struct {
	ID             string     `json:"id"`
	ListingID      string     `json:"listing_id,omitempty"`
	UserID         string     `json:"user_id"`
	PickupLocation string     `json:"pickup_location"`
	DropLocation   string     `json:"drop_location"`
	VehicleType    string     `json:"vehicle_type,omitempty"`
	Status         string     `json:"status"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
