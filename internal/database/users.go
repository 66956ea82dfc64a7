package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

const userColumns = `id, phone, name, age, location, farm_size, primary_crops, language, is_onboarded, created_at`

// GetUser retrieves a user by id.
func (db *DB) GetUser(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return db.scanUser(db.conn.QueryRow(query, id), id)
}

// GetUserByPhone retrieves a user by phone number.
func (db *DB) GetUserByPhone(phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return db.scanUser(db.conn.QueryRow(query, phone), phone)
}

func (db *DB) scanUser(row *sql.Row, key string) (*models.User, error) {
	var u models.User
	var name, location, language sql.NullString
	var age sql.NullInt64
	var farmSize sql.NullString
	var crops []byte

	err := row.Scan(
		&u.ID, &u.Phone, &name, &age, &location, &farmSize, &crops,
		&language, &u.IsOnboarded, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if name.Valid {
		u.Name = name.String
	}
	if age.Valid {
		n := int(age.Int64)
		u.Age = &n
	}
	if location.Valid {
		u.Location = location.String
	}
	if farmSize.Valid {
		u.FarmSize, _ = decimal.NewFromString(farmSize.String)
	}
	if language.Valid {
		u.Language = language.String
	}
	if u.PrimaryCrops, err = unmarshalJSON(crops); err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a new user and fills in the generated id.
func (db *DB) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (phone, name, age, location, farm_size, primary_crops, language, is_onboarded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	crops, err := marshalJSON(user.PrimaryCrops)
	if err != nil {
		return err
	}
	now := time.Now()
	err = db.conn.QueryRow(query,
		user.Phone, nullString(user.Name), user.Age, nullString(user.Location),
		nullDecimal(user.FarmSize), crops, nullString(user.Language), user.IsOnboarded, now,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	return nil
}

// UpdateUser updates an existing user by id.
func (db *DB) UpdateUser(user *models.User) error {
	query := `
		UPDATE users SET
			phone = $2, name = $3, age = $4, location = $5, farm_size = $6,
			primary_crops = $7, language = $8, is_onboarded = $9
		WHERE id = $1
	`
	crops, err := marshalJSON(user.PrimaryCrops)
	if err != nil {
		return err
	}
	result, err := db.conn.Exec(query,
		user.ID, user.Phone, nullString(user.Name), user.Age, nullString(user.Location),
		nullDecimal(user.FarmSize), crops, nullString(user.Language), user.IsOnboarded,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrNotFound)
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullDecimal(d decimal.Decimal) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
