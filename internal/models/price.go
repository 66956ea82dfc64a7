package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MandiPrice is one commodity price row reported for a market. Each fetch of
// the feed produces fresh rows; rows are immutable once created.
type MandiPrice struct {
	ID         string           `json:"id"`
	Market     string           `json:"market"`
	State      string           `json:"state"`
	Commodity  string           `json:"commodity"`
	Variety    string           `json:"variety,omitempty"`
	Grade      string           `json:"grade,omitempty"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
	ModalPrice *decimal.Decimal `json:"modal_price,omitempty"`
	PriceUnit  string           `json:"price_unit"`
	ReportDate time.Time        `json:"report_date"`
	CreatedAt  time.Time        `json:"created_at"`
}
