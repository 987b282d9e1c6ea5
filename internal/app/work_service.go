package app

import (
	"context"
	"fmt"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/metrics"
)

// WorkService is the work session state machine: it opens and closes
// sessions and feeds closed durations into the day aggregate.
type WorkService struct {
	employees *EmployeeService
	days      domain.WorkDayRepository
	sessions  domain.WorkSessionRepository
	clock     Clock
}

// NewWorkService creates a new work session service.
func NewWorkService(employees *EmployeeService, days domain.WorkDayRepository, sessions domain.WorkSessionRepository, clock Clock) *WorkService {
	return &WorkService{employees: employees, days: days, sessions: sessions, clock: clock}
}

// StartWork opens a new session for the employee identified by token and
// returns the session id. "Today" is the server's local calendar date.
// A second start on a day with an open session fails with ErrConflict;
// the store enforces this under concurrent calls as well.
func (s *WorkService) StartWork(ctx context.Context, token string) (int64, error) {
	emp, err := s.employees.ResolveByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	day := now.In(time.Local).Format(domain.DayFormat)

	wd, err := s.days.GetOrCreate(ctx, emp.ID, day)
	if err != nil {
		return 0, err
	}
	id, err := s.sessions.CreateOpen(ctx, wd.ID, now.UTC())
	if err != nil {
		return 0, err
	}
	metrics.SessionsStarted.Inc()
	return id, nil
}

// EndWork closes the employee's open session, credits the elapsed
// duration to the day's total and returns the elapsed time formatted
// HH:MM. Close and credit are one store-level step, so a failure leaves
// both untouched and a double submit credits the day once.
// Elapsed time clamps to zero if the clock appears to move backward.
func (s *WorkService) EndWork(ctx context.Context, token string) (string, error) {
	emp, err := s.employees.ResolveByToken(ctx, token)
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	day := now.In(time.Local).Format(domain.DayFormat)

	wd, err := s.days.GetByDay(ctx, emp.ID, day)
	if err != nil {
		return "", err
	}
	if wd == nil {
		return "", fmt.Errorf("no work day started today: %w", domain.ErrInvalidState)
	}
	open, err := s.sessions.OpenForDay(ctx, wd.ID)
	if err != nil {
		return "", err
	}
	if open == nil {
		return "", fmt.Errorf("no active session: %w", domain.ErrInvalidState)
	}

	endedAt := now.UTC()
	elapsed := endedAt.Sub(open.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if err := s.sessions.Close(ctx, open.ID, endedAt, elapsed); err != nil {
		return "", err
	}
	metrics.SessionsEnded.Inc()
	metrics.SessionDuration.Observe(elapsed.Seconds())
	return domain.FormatHHMM(elapsed), nil
}
