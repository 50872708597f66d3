// Package repository implements the database access layer for The Reporter.
// This file handles user account management, authentication queries, and
// user CRUD operations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojo500/the-reporter/internal/database"
	"github.com/bojo500/the-reporter/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup matches no row.
// Services translate it into the NotFound/BadRequest taxonomy as context
// demands.
var ErrNotFound = errors.New("record not found")

// userColumns is the canonical select list; scanUser must stay in the same
// order.
const userColumns = `id, name, first_name, last_name, email, password_hash, phone_number, is_verified, section, created_at, updated_at, deleted_at`

// UserRepository handles user-related database operations.
type UserRepository struct{}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// scanUser reads one user row. Nullable columns go through temporaries so
// mock and real pools scan identically.
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var section *string

	err := row.Scan(
		&user.ID, &user.Name, &user.FirstName, &user.LastName,
		&user.Email, &user.PasswordHash, &user.PhoneNumber,
		&user.IsVerified, &section, &user.CreatedAt, &user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if section != nil {
		s := models.Section(*section)
		user.Section = &s
	}

	return &user, nil
}

// FindByEmail retrieves a user by email address, including the password
// hash. Used for login validation; callers must sanitize before returning
// the record to a client.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(database.DB.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindByID retrieves a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(database.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ListAll retrieves all users ordered by creation date, newest first.
// The password hash is still scanned (single canonical column list); the
// service layer strips it before anything leaves the process.
func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns)

	rows, err := database.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// Create inserts a new user. The password must be bcrypt-hashed before
// calling this method. Populates ID and timestamps from the database.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, first_name, last_name, email, password_hash, phone_number, section)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	var section *string
	if user.Section != nil {
		s := string(*user.Section)
		section = &s
	}

	return database.DB.QueryRow(ctx, query,
		user.Name, user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.PhoneNumber, section,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// Update persists profile fields for an existing user.
// password_hash is deliberately absent from the statement: profile updates
// can never change credentials.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, first_name = $2, last_name = $3, email = $4,
		    phone_number = $5, section = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	var section *string
	if user.Section != nil {
		s := string(*user.Section)
		section = &s
	}

	err := database.DB.QueryRow(ctx, query,
		user.Name, user.FirstName, user.LastName, user.Email,
		user.PhoneNumber, section, user.ID,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// UpdatePhoneNumber sets only the phone number for a user.
func (r *UserRepository) UpdatePhoneNumber(ctx context.Context, userID int, phone string) error {
	query := `UPDATE users SET phone_number = $1, updated_at = NOW() WHERE id = $2`

	tag, err := database.DB.Exec(ctx, query, phone, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVerified marks a user's email as verified. Verifying an already
// verified user is a no-op, which keeps the verification flow idempotent.
func (r *UserRepository) SetVerified(ctx context.Context, userID int) error {
	query := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`

	tag, err := database.DB.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user by ID. ON DELETE CASCADE removes the user's shifts
// and reports with it.
func (r *UserRepository) Delete(ctx context.Context, userID int) error {
	query := `DELETE FROM users WHERE id = $1`

	tag, err := database.DB.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
