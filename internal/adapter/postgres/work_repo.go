package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timeclock/internal/domain"
)

// WorkDayRepo implements work day repository operations on DB.
type WorkDayRepo struct {
	db *DB
}

// NewWorkDayRepo wraps a DB as a WorkDayRepository.
func NewWorkDayRepo(db *DB) *WorkDayRepo {
	return &WorkDayRepo{db: db}
}

// GetOrCreate resolves the work day for (employee, day), inserting a zero
// row if absent. ON CONFLICT DO NOTHING makes concurrent creates for the
// same pair collapse onto one row.
func (r *WorkDayRepo) GetOrCreate(ctx context.Context, employeeID int64, day string) (*domain.WorkDay, error) {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO work_days (employee_id, day, total_seconds) VALUES ($1, $2, 0) ON CONFLICT (employee_id, day) DO NOTHING",
		employeeID, day)
	if err != nil {
		return nil, mapErr(err)
	}
	return r.GetByDay(ctx, employeeID, day)
}

// GetByDay returns the work day for (employee, day), or nil if none.
func (r *WorkDayRepo) GetByDay(ctx context.Context, employeeID int64, day string) (*domain.WorkDay, error) {
	var (
		wd      domain.WorkDay
		seconds int64
	)
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, employee_id, to_char(day, 'YYYY-MM-DD'), total_seconds FROM work_days WHERE employee_id = $1 AND day = $2",
		employeeID, day,
	).Scan(&wd.ID, &wd.EmployeeID, &wd.Day, &seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	wd.Total = time.Duration(seconds) * time.Second
	return &wd, nil
}

// AddDuration atomically increments the accumulated total, so concurrent
// session closes on the same day never lose updates.
func (r *WorkDayRepo) AddDuration(ctx context.Context, workDayID int64, delta time.Duration) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE work_days SET total_seconds = total_seconds + $2 WHERE id = $1",
		workDayID, int64(delta/time.Second))
	return err
}

// SumOver returns accumulated totals keyed by day for [from, to].
func (r *WorkDayRepo) SumOver(ctx context.Context, employeeID int64, from, to string) (map[string]time.Duration, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT to_char(day, 'YYYY-MM-DD'), total_seconds FROM work_days WHERE employee_id = $1 AND day >= $2::date AND day <= $3::date",
		employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Duration)
	for rows.Next() {
		var (
			day     string
			seconds int64
		)
		if err := rows.Scan(&day, &seconds); err != nil {
			return nil, err
		}
		out[day] = time.Duration(seconds) * time.Second
	}
	return out, rows.Err()
}

// WorkSessionRepo implements work session repository operations on DB.
type WorkSessionRepo struct {
	db *DB
}

// NewWorkSessionRepo wraps a DB as a WorkSessionRepository.
func NewWorkSessionRepo(db *DB) *WorkSessionRepo {
	return &WorkSessionRepo{db: db}
}

// CreateOpen inserts a new open session. The partial unique index on open
// sessions makes the second of two racing inserts fail with ErrConflict.
func (r *WorkSessionRepo) CreateOpen(ctx context.Context, workDayID int64, startedAt time.Time) (int64, error) {
	var id int64
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO work_sessions (work_day_id, started_at) VALUES ($1, $2) RETURNING id",
		workDayID, startedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

// OpenForDay returns the open session for a work day, or nil if none.
func (r *WorkSessionRepo) OpenForDay(ctx context.Context, workDayID int64) (*domain.WorkSession, error) {
	var s domain.WorkSession
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, work_day_id, started_at FROM work_sessions WHERE work_day_id = $1 AND ended_at IS NULL",
		workDayID,
	).Scan(&s.ID, &s.WorkDayID, &s.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Close sets the end timestamp and credits delta to the owning work day
// in a single transaction. Guarding the UPDATE on ended_at IS NULL makes
// the second of two racing closes fail with ErrInvalidState instead of
// crediting the day twice.
func (r *WorkSessionRepo) Close(ctx context.Context, id int64, endedAt time.Time, delta time.Duration) error {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var workDayID int64
	err = tx.QueryRowContext(ctx,
		"UPDATE work_sessions SET ended_at = $2 WHERE id = $1 AND ended_at IS NULL RETURNING work_day_id",
		id, endedAt.UTC(),
	).Scan(&workDayID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("session %d: %w", id, domain.ErrInvalidState)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE work_days SET total_seconds = total_seconds + $2 WHERE id = $1",
		workDayID, int64(delta/time.Second)); err != nil {
		return err
	}
	return tx.Commit()
}
