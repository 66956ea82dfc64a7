package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Marketplace category constants
const (
	CategorySeeds       = "seeds"
	CategoryFertilizers = "fertilizers"
	CategoryTools       = "tools"
	CategoryProduce     = "produce"
)

// MarketplaceItem is a listing on the buy/sell marketplace.
type MarketplaceItem struct {
	ID           string          `json:"id"`
	SellerID     string          `json:"seller_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	PriceUnit    string          `json:"price_unit"`
	Quantity     decimal.Decimal `json:"quantity,omitempty"`
	QuantityUnit string          `json:"quantity_unit,omitempty"`
	Images       []string        `json:"images,omitempty"`
	Location     string          `json:"location,omitempty"`
	ContactInfo  string          `json:"contact_info,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}
