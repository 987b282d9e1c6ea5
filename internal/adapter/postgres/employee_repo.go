package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock/internal/domain"
)

const employeeColumns = "id, full_name, email, phone_number, is_active, token_digest, user_id, workplace_id, created_at, updated_at"

// EmployeeRepo implements employee repository operations on DB.
type EmployeeRepo struct {
	db *DB
}

// NewEmployeeRepo wraps a DB as an EmployeeRepository.
func NewEmployeeRepo(db *DB) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

// Create creates a new employee.
func (r *EmployeeRepo) Create(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	now := time.Now().UTC()
	created, err := scanEmployee(r.db.sql.QueryRowContext(ctx,
		`INSERT INTO employees (full_name, email, phone_number, is_active, token_digest, user_id, workplace_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING `+employeeColumns,
		e.FullName, e.Email, e.PhoneNumber, e.IsActive, e.TokenDigest, e.UserID, e.WorkPlaceID, now,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return created, nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return scanEmployee(r.db.sql.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = $1", id,
	))
}

// GetByTokenDigest retrieves an employee by its personal token digest.
func (r *EmployeeRepo) GetByTokenDigest(ctx context.Context, digest string) (*domain.Employee, error) {
	return scanEmployee(r.db.sql.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE token_digest = $1", digest,
	))
}

// ListByUser returns all employees owned by userID.
func (r *EmployeeRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Employee, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.Email, &e.PhoneNumber, &e.IsActive, &e.TokenDigest, &e.UserID, &e.WorkPlaceID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateTokenDigest replaces the stored token digest, revoking the
// previous personal token.
func (r *EmployeeRepo) UpdateTokenDigest(ctx context.Context, id int64, digest string) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE employees SET token_digest = $2, updated_at = $3 WHERE id = $1",
		id, digest, time.Now().UTC())
	return mapErr(err)
}

// Delete removes an employee owned by userID; work days and sessions go
// with it through the FK cascade.
func (r *EmployeeRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"DELETE FROM employees WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanEmployee(row *sql.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(&e.ID, &e.FullName, &e.Email, &e.PhoneNumber, &e.IsActive, &e.TokenDigest, &e.UserID, &e.WorkPlaceID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
