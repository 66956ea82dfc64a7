package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

const reportColumns = `id, user_id, image_path, crop_type, disease_name, severity, confidence, symptoms, treatment, is_mock_result, created_at`

// CreateDiseaseReport inserts a new disease report and fills in the id.
func (db *DB) CreateDiseaseReport(report *models.DiseaseReport) error {
	query := `
		INSERT INTO disease_reports (user_id, image_path, crop_type, disease_name, severity, confidence, symptoms, treatment, is_mock_result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		report.UserID, report.ImagePath, nullString(report.CropType), report.DiseaseName,
		nullString(report.Severity), nullDecimal(report.Confidence),
		nullString(report.Symptoms), nullString(report.Treatment), report.IsMockResult, now,
	).Scan(&report.ID)
	if err != nil {
		return fmt.Errorf("failed to create disease report: %w", err)
	}
	report.CreatedAt = now
	return nil
}

// GetDiseaseReport retrieves a disease report by id.
func (db *DB) GetDiseaseReport(id string) (*models.DiseaseReport, error) {
	query := `SELECT ` + reportColumns + ` FROM disease_reports WHERE id = $1`
	row := db.conn.QueryRow(query, id)

	r, err := scanDiseaseReport(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("disease report %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get disease report: %w", err)
	}
	return r, nil
}

// GetRecentDiseaseReports retrieves a user's most recent reports.
func (db *DB) GetRecentDiseaseReports(userID string, limit int) ([]*models.DiseaseReport, error) {
	query := `SELECT ` + reportColumns + ` FROM disease_reports WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := db.conn.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query disease reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.DiseaseReport
	for rows.Next() {
		r, err := scanDiseaseReport(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan disease report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func scanDiseaseReport(scan func(dest ...interface{}) error) (*models.DiseaseReport, error) {
	var r models.DiseaseReport
	var cropType, severity, symptoms, treatment sql.NullString
	var confidence sql.NullString

	err := scan(
		&r.ID, &r.UserID, &r.ImagePath, &cropType, &r.DiseaseName, &severity,
		&confidence, &symptoms, &treatment, &r.IsMockResult, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cropType.Valid {
		r.CropType = cropType.String
	}
	if severity.Valid {
		r.Severity = severity.String
	}
	if confidence.Valid {
		r.Confidence, _ = decimal.NewFromString(confidence.String)
	}
	if symptoms.Valid {
		r.Symptoms = symptoms.String
	}
	if treatment.Valid {
		r.Treatment = treatment.String
	}
	return &r, nil
}
