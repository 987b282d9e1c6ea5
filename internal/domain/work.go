package domain

import (
	"context"
	"time"
)

// WorkDay is the aggregate duration bucket for one employee on one
// calendar date. Exactly one row exists per (employee, day) pair; it is
// created lazily on the first session start of the day.
type WorkDay struct {
	ID         int64
	EmployeeID int64
	Day        string // DayFormat
	Total      time.Duration
}

// WorkSession is one continuous start/end interval contributing to a
// WorkDay's total. A nil EndedAt means the session is still open; at most
// one open session may exist per work day.
type WorkSession struct {
	ID        int64
	WorkDayID int64
	StartedAt time.Time
	EndedAt   *time.Time
}

// WorkDayRepository defines the port for work day persistence.
type WorkDayRepository interface {
	// GetOrCreate returns the work day for (employee, day), creating it
	// with a zero total if absent. Concurrent calls for the same pair must
	// resolve to the same row.
	GetOrCreate(ctx context.Context, employeeID int64, day string) (*WorkDay, error)
	// GetByDay returns the work day for (employee, day), or nil if none.
	GetByDay(ctx context.Context, employeeID int64, day string) (*WorkDay, error)
	// AddDuration adds delta to the accumulated total. The increment is
	// atomic at the store so concurrent closes never lose updates.
	AddDuration(ctx context.Context, workDayID int64, delta time.Duration) error
	// SumOver returns accumulated totals keyed by day for the inclusive
	// range [from, to]. Days without a work day row are absent.
	SumOver(ctx context.Context, employeeID int64, from, to string) (map[string]time.Duration, error)
}

// WorkSessionRepository defines the port for work session persistence.
type WorkSessionRepository interface {
	// CreateOpen inserts a new open session. It fails with ErrConflict if
	// the work day already has an open session, including under races.
	CreateOpen(ctx context.Context, workDayID int64, startedAt time.Time) (int64, error)
	// OpenForDay returns the open session for a work day, or nil if none.
	OpenForDay(ctx context.Context, workDayID int64) (*WorkSession, error)
	// Close sets the end timestamp and credits delta to the owning work
	// day's total in one atomic step. It fails with ErrInvalidState if the
	// session is no longer open, so racing closes credit the day once.
	Close(ctx context.Context, id int64, endedAt time.Time, delta time.Duration) error
}
