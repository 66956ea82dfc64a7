package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert direction constants
const (
	AlertTypeAbove = "above"
	AlertTypeBelow = "below"
)

// DefaultPriceUnit is applied when an alert is created without one.
const DefaultPriceUnit = "per quintal"

// PriceAlert represents a user's standing request to be notified when a
// commodity's price in a given mandi crosses a target.
type PriceAlert struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Commodity     string          `json:"commodity"`
	Market        string          `json:"market"`
	TargetPrice   decimal.Decimal `json:"target_price"`
	PriceUnit     string          `json:"price_unit"`
	AlertType     string          `json:"alert_type"`
	IsActive      bool            `json:"is_active"`
	LastTriggered *time.Time      `json:"last_triggered,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PriceAlertUpdate carries a partial update; nil fields are left untouched.
type PriceAlertUpdate struct {
	Commodity     *string          `json:"commodity,omitempty"`
	Market        *string          `json:"market,omitempty"`
	TargetPrice   *decimal.Decimal `json:"target_price,omitempty"`
	PriceUnit     *string          `json:"price_unit,omitempty"`
	AlertType     *string          `json:"alert_type,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	LastTriggered *time.Time       `json:"last_triggered,omitempty"`
}

// AlertEvent is published to Kafka whenever an alert fires.
type AlertEvent struct {
	EventType    string          `json:"event_type"`
	Alert        *PriceAlert     `json:"alert,omitempty"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Timestamp    time.Time       `json:"timestamp"`
}
