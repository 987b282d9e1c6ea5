package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock/internal/domain"
)

// GetByEmail retrieves a user by email.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.scanUser(d.sql.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, email, password_hash, created_at, updated_at FROM users WHERE email = $1",
		email,
	))
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.scanUser(d.sql.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, email, password_hash, created_at, updated_at FROM users WHERE id = $1",
		id,
	))
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*domain.User, error) {
	now := time.Now().UTC()
	u, err := d.scanUser(d.sql.QueryRowContext(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING id, first_name, last_name, email, password_hash, created_at, updated_at`,
		firstName, lastName, email, passwordHash, now,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (d *DB) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
