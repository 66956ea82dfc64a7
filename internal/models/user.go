package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a farmer account. Phone is the login identity; the rest is
// filled in during onboarding.
type User struct {
	ID           string          `json:"id"`
	Phone        string          `json:"phone"`
	Name         string          `json:"name,omitempty"`
	Age          *int            `json:"age,omitempty"`
	Location     string          `json:"location,omitempty"`
	FarmSize     decimal.Decimal `json:"farm_size,omitempty"`
	PrimaryCrops []string        `json:"primary_crops,omitempty"`
	Language     string          `json:"language,omitempty"`
	IsOnboarded  bool            `json:"is_onboarded"`
	CreatedAt    time.Time       `json:"created_at"`
}
