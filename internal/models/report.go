package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity constants for disease reports
const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

// DiseaseReport records one crop-disease diagnosis returned by the vision
// model for an uploaded image.
type DiseaseReport struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	ImagePath    string          `json:"image_path"`
	CropType     string          `json:"crop_type,omitempty"`
	DiseaseName  string          `json:"disease_name"`
	Severity     string          `json:"severity,omitempty"`
	Confidence   decimal.Decimal `json:"confidence,omitempty"`
	Symptoms     string          `json:"symptoms,omitempty"`
	Treatment    string          `json:"treatment,omitempty"`
	IsMockResult bool            `json:"is_mock_result"`
	CreatedAt    time.Time       `json:"created_at"`
}
