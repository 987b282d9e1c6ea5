package domain

import (
	"context"
	"time"
)

// WorkPlace represents a physical location employees are assigned to.
// It is referenced, not owned, by employees: a workplace with employees
// attached cannot be deleted.
type WorkPlace struct {
	ID      int64
	Title   string
	Address string
}

// Employee represents a tracked worker. Employees authenticate with a
// personal token rather than a user login; only the token's digest is
// stored.
type Employee struct {
	ID          int64
	FullName    string
	Email       string
	PhoneNumber string
	IsActive    bool
	TokenDigest string
	UserID      int64
	WorkPlaceID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkPlaceRepository defines the port for workplace persistence.
type WorkPlaceRepository interface {
	Create(ctx context.Context, title, address string) (*WorkPlace, error)
	GetByID(ctx context.Context, id int64) (*WorkPlace, error)
	List(ctx context.Context) ([]WorkPlace, error)
	// Delete removes a workplace. It fails with ErrConflict while any
	// employee still references it.
	Delete(ctx context.Context, id int64) error
}

// EmployeeRepository defines the port for employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (*Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	GetByTokenDigest(ctx context.Context, digest string) (*Employee, error)
	ListByUser(ctx context.Context, userID int64) ([]Employee, error)
	UpdateTokenDigest(ctx context.Context, id int64, digest string) error
	// Delete removes an employee owned by userID, cascading its work days
	// and sessions. Returns false when no such employee exists.
	Delete(ctx context.Context, userID, id int64) (bool, error)
}
