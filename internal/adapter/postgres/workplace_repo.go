package postgres

import (
	"context"
	"database/sql"
	"errors"

	"timeclock/internal/domain"
)

// WorkPlaceRepo implements workplace repository operations on DB.
type WorkPlaceRepo struct {
	db *DB
}

// NewWorkPlaceRepo wraps a DB as a WorkPlaceRepository.
func NewWorkPlaceRepo(db *DB) *WorkPlaceRepo {
	return &WorkPlaceRepo{db: db}
}

// Create creates a new workplace.
func (r *WorkPlaceRepo) Create(ctx context.Context, title, address string) (*domain.WorkPlace, error) {
	var wp domain.WorkPlace
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO workplaces (title, address) VALUES ($1, $2) RETURNING id, title, address",
		title, address,
	).Scan(&wp.ID, &wp.Title, &wp.Address)
	if err != nil {
		return nil, mapErr(err)
	}
	return &wp, nil
}

// GetByID retrieves a workplace by ID.
func (r *WorkPlaceRepo) GetByID(ctx context.Context, id int64) (*domain.WorkPlace, error) {
	var wp domain.WorkPlace
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, title, address FROM workplaces WHERE id = $1", id,
	).Scan(&wp.ID, &wp.Title, &wp.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wp, nil
}

// List returns all workplaces.
func (r *WorkPlaceRepo) List(ctx context.Context) ([]domain.WorkPlace, error) {
	rows, err := r.db.sql.QueryContext(ctx, "SELECT id, title, address FROM workplaces ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WorkPlace
	for rows.Next() {
		var wp domain.WorkPlace
		if err := rows.Scan(&wp.ID, &wp.Title, &wp.Address); err != nil {
			return nil, err
		}
		out = append(out, wp)
	}
	return out, rows.Err()
}

// Delete removes a workplace. The RESTRICT foreign key turns deletion of
// a workplace with employees into ErrConflict.
func (r *WorkPlaceRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM workplaces WHERE id = $1", id)
	return mapErr(err)
}
