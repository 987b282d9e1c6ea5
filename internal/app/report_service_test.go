package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"timeclock/internal/app"
	"timeclock/internal/domain"
)

func reportFixture(totals map[string]time.Duration) (*app.ReportService, *app.TestClock) {
	repo := &mockEmployeeRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.Employee, error) {
			if id == 3 {
				return &domain.Employee{ID: 3, UserID: 1, FullName: "Taras Shevchenko", IsActive: true}, nil
			}
			return nil, nil
		},
		listByUserFn: func(_ context.Context, userID int64) ([]domain.Employee, error) {
			if userID == 1 {
				return []domain.Employee{{ID: 3, UserID: 1, FullName: "Taras Shevchenko", IsActive: true}}, nil
			}
			return nil, nil
		},
	}
	employees := app.NewEmployeeService(repo, &mockWorkPlaceRepo{})
	days := &mockWorkDayRepo{
		sumOverFn: func(_ context.Context, _ int64, from, to string) (map[string]time.Duration, error) {
			out := make(map[string]time.Duration)
			for day, d := range totals {
				if day >= from && day <= to {
					out[day] = d
				}
			}
			return out, nil
		},
	}
	clock := &app.TestClock{CurrentTime: time.Date(2026, 3, 11, 12, 0, 0, 0, time.Local)}
	return app.NewReportService(employees, days, clock), clock
}

func TestEmployeeDetail_Week(t *testing.T) {
	svc, _ := reportFixture(map[string]time.Duration{
		"2026-03-09": 2 * time.Hour, // Monday
		"2026-03-11": 3 * time.Hour, // Wednesday
	})

	anchor := time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local)
	detail, err := svc.EmployeeDetail(context.Background(), 1, 3, app.Selector{Week: &anchor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(detail.Rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(detail.Rows))
	}
	if detail.Rows[0].Day != "2026-03-09" || detail.Rows[6].Day != "2026-03-15" {
		t.Fatalf("unexpected range: %s..%s", detail.Rows[0].Day, detail.Rows[6].Day)
	}
	for i, row := range detail.Rows {
		switch row.Day {
		case "2026-03-09":
			if row.Worked == nil || *row.Worked != "02:00" {
				t.Fatalf("row %d: expected 02:00, got %v", i, row.Worked)
			}
		case "2026-03-11":
			if row.Worked == nil || *row.Worked != "03:00" {
				t.Fatalf("row %d: expected 03:00, got %v", i, row.Worked)
			}
		default:
			if row.Worked != nil {
				t.Fatalf("row %d (%s): expected null, got %q", i, row.Day, *row.Worked)
			}
		}
	}
	if detail.TotalHours != 5.0 {
		t.Fatalf("expected total 5.0, got %v", detail.TotalHours)
	}
}

func TestEmployeeDetail_EmptyMonth(t *testing.T) {
	svc, _ := reportFixture(nil)

	anchor := time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local)
	detail, err := svc.EmployeeDetail(context.Background(), 1, 3, app.Selector{Month: &anchor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Rows) != 30 {
		t.Fatalf("expected 30 rows for April, got %d", len(detail.Rows))
	}
	for _, row := range detail.Rows {
		if row.Worked != nil {
			t.Fatalf("day %s: expected null, got %q", row.Day, *row.Worked)
		}
	}
	if detail.TotalHours != 0.0 {
		t.Fatalf("expected total 0.0, got %v", detail.TotalHours)
	}
}

func TestEmployeeDetail_DefaultsToToday(t *testing.T) {
	svc, clock := reportFixture(map[string]time.Duration{
		"2026-03-11": 90 * time.Minute,
	})

	detail, err := svc.EmployeeDetail(context.Background(), 1, 3, app.Selector{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	today := clock.CurrentTime.Format(domain.DayFormat)
	if len(detail.Rows) != 1 || detail.Rows[0].Day != today {
		t.Fatalf("expected single row for %s, got %v", today, detail.Rows)
	}
	if detail.Rows[0].Worked == nil || *detail.Rows[0].Worked != "01:30" {
		t.Fatalf("expected 01:30, got %v", detail.Rows[0].Worked)
	}
	if detail.TotalHours != 1.5 {
		t.Fatalf("expected total 1.5, got %v", detail.TotalHours)
	}
}

func TestEmployeeDetail_ForeignOwner(t *testing.T) {
	svc, _ := reportFixture(nil)
	if _, err := svc.EmployeeDetail(context.Background(), 2, 3, app.Selector{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAllEmployeesWithStats(t *testing.T) {
	// Clock sits on Wednesday 2026-03-11; the week starts Monday 03-09,
	// the month on 03-01.
	svc, _ := reportFixture(map[string]time.Duration{
		"2026-03-02": 4 * time.Hour, // in month, before this week
		"2026-03-09": 2 * time.Hour, // Monday of this week
		"2026-03-11": 90 * time.Minute,
	})

	stats, err := svc.AllEmployeesWithStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(stats))
	}
	st := stats[0]
	if st.Today != "01:30" {
		t.Fatalf("expected today 01:30, got %q", st.Today)
	}
	if st.Week != "03:30" {
		t.Fatalf("expected week 03:30, got %q", st.Week)
	}
	if st.Month != "07:30" {
		t.Fatalf("expected month 07:30, got %q", st.Month)
	}
}

func TestAllEmployeesWithStats_NoData(t *testing.T) {
	svc, _ := reportFixture(nil)

	stats, err := svc.AllEmployeesWithStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := stats[0]
	// Days without data count as zero in the list view.
	if st.Today != "00:00" || st.Week != "00:00" || st.Month != "00:00" {
		t.Fatalf("expected 00:00 defaults, got today=%q week=%q month=%q", st.Today, st.Week, st.Month)
	}
}
