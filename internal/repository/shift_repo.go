// Package repository implements the database access layer for The Reporter.
// This file handles shift rows: creation and the joined listing reads the
// dashboard uses.
package repository

import (
	"context"
	"errors"

	"github.com/bojo500/the-reporter/internal/database"
	"github.com/bojo500/the-reporter/internal/models"
	"github.com/jackc/pgx/v5"
)

// ShiftRepository handles shift-related database operations.
// Shifts are insert-only; nothing updates a shift after creation.
type ShiftRepository struct{}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{}
}

// Create inserts a new shift and populates ID and timestamps.
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	query := `
		INSERT INTO shifts (shift, section, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	return database.DB.QueryRow(ctx, query,
		string(shift.Shift), string(shift.Section), shift.UserID,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
}

// FindByID retrieves a single shift without joins.
func (r *ShiftRepository) FindByID(ctx context.Context, id int) (*models.Shift, error) {
	query := `SELECT id, shift, section, user_id, created_at, updated_at FROM shifts WHERE id = $1`

	var shift models.Shift
	err := database.DB.QueryRow(ctx, query, id).Scan(
		&shift.ID, &shift.Shift, &shift.Section, &shift.UserID,
		&shift.CreatedAt, &shift.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &shift, nil
}

// ListAll retrieves all shifts with their owning user joined, newest first.
// The join never selects password_hash.
func (r *ShiftRepository) ListAll(ctx context.Context) ([]models.Shift, error) {
	query := `
		SELECT s.id, s.shift, s.section, s.user_id, s.created_at, s.updated_at,
		       u.id, u.name, u.email, u.is_verified
		FROM shifts s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC
	`

	rows, err := database.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var shift models.Shift
		var user models.User
		err := rows.Scan(
			&shift.ID, &shift.Shift, &shift.Section, &shift.UserID,
			&shift.CreatedAt, &shift.UpdatedAt,
			&user.ID, &user.Name, &user.Email, &user.IsVerified,
		)
		if err != nil {
			return nil, err
		}
		shift.User = &user
		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}

// ListByUser retrieves all shifts opened by one user, newest first.
func (r *ShiftRepository) ListByUser(ctx context.Context, userID int) ([]models.Shift, error) {
	query := `
		SELECT id, shift, section, user_id, created_at, updated_at
		FROM shifts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := database.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var shift models.Shift
		err := rows.Scan(
			&shift.ID, &shift.Shift, &shift.Section, &shift.UserID,
			&shift.CreatedAt, &shift.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}
