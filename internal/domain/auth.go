// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User represents an owner account that manages employees.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error)
}
