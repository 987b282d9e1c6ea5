// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timeclock/internal/domain"

	"github.com/lib/pq"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL);`,
		`CREATE TABLE IF NOT EXISTS workplaces (
			id BIGSERIAL PRIMARY KEY,
			title TEXT UNIQUE NOT NULL,
			address TEXT UNIQUE NOT NULL);`,
		`CREATE TABLE IF NOT EXISTS employees (
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone_number TEXT UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			token_digest TEXT UNIQUE NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			workplace_id BIGINT NOT NULL REFERENCES workplaces(id) ON DELETE RESTRICT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL);`,
		"CREATE INDEX IF NOT EXISTS idx_employees_user_id ON employees(user_id);",
		`CREATE TABLE IF NOT EXISTS work_days (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			day DATE NOT NULL,
			total_seconds BIGINT NOT NULL DEFAULT 0 CHECK (total_seconds >= 0),
			UNIQUE (employee_id, day));`,
		`CREATE TABLE IF NOT EXISTS work_sessions (
			id BIGSERIAL PRIMARY KEY,
			work_day_id BIGINT NOT NULL REFERENCES work_days(id) ON DELETE CASCADE,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ);`,
		// At most one open session per work day, enforced under races.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_work_sessions_open ON work_sessions(work_day_id) WHERE ended_at IS NULL;",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// mapErr translates pq constraint violations into the domain taxonomy.
func mapErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation", "foreign_key_violation":
			return fmt.Errorf("%s: %w", pqErr.Constraint, domain.ErrConflict)
		}
	}
	return err
}
