package app

import (
	"context"
	"time"

	"timeclock/internal/domain"
)

// Selector picks the reporting window for an employee detail view. Week
// takes precedence over Month; an empty selector means the current day.
type Selector struct {
	Week  *time.Time
	Month *time.Time
}

// DayRow is one date in a detail report. Worked is nil when no work day
// row exists for the date, distinguishing "no data" from "worked zero".
type DayRow struct {
	Day    string  `json:"date"`
	Worked *string `json:"worked"`
}

// EmployeeDetail is the window summary for one employee.
type EmployeeDetail struct {
	Employee   domain.Employee
	Rows       []DayRow
	TotalHours float64
}

// EmployeeStats is one list-view row with rolling aggregates as of now.
// Unlike the detail view, days without data count as zero here.
type EmployeeStats struct {
	Employee domain.Employee
	Today    string
	Week     string
	Month    string
}

// ReportService computes time-window summaries from stored work days.
type ReportService struct {
	employees *EmployeeService
	days      domain.WorkDayRepository
	clock     Clock
}

// NewReportService creates a new reporting service.
func NewReportService(employees *EmployeeService, days domain.WorkDayRepository, clock Clock) *ReportService {
	return &ReportService{employees: employees, days: days, clock: clock}
}

// EmployeeDetail builds a per-day breakdown over the selected window for
// an employee owned by ownerID. Fails with ErrNotFound for foreign or
// missing employees.
func (s *ReportService) EmployeeDetail(ctx context.Context, ownerID, employeeID int64, sel Selector) (*EmployeeDetail, error) {
	emp, err := s.employees.Get(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	var w domain.Window
	switch {
	case sel.Week != nil:
		w = domain.WeekWindow(*sel.Week)
	case sel.Month != nil:
		w = domain.MonthWindow(*sel.Month)
	default:
		w = domain.DayWindow(s.clock.Now().In(time.Local))
	}

	totals, err := s.days.SumOver(ctx, employeeID, w.FromDay(), w.ToDay())
	if err != nil {
		return nil, err
	}

	detail := &EmployeeDetail{Employee: *emp}
	var total time.Duration
	for _, day := range w.Days() {
		row := DayRow{Day: day}
		if d, ok := totals[day]; ok {
			worked := domain.FormatHHMM(d)
			row.Worked = &worked
			total += d
		}
		detail.Rows = append(detail.Rows, row)
	}
	detail.TotalHours = domain.HoursRounded(total)
	return detail, nil
}

// AllEmployeesWithStats lists every employee owned by ownerID with
// today/week-to-date/month-to-date totals as of now.
func (s *ReportService) AllEmployeesWithStats(ctx context.Context, ownerID int64) ([]EmployeeStats, error) {
	list, err := s.employees.employees.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().In(time.Local)
	today := now.Format(domain.DayFormat)
	weekFrom := domain.WeekWindow(now).FromDay()
	monthFrom := domain.MonthWindow(now).FromDay()

	// The week can begin in the previous month; fetch from the earlier
	// boundary and split in memory. Day strings sort chronologically.
	from := monthFrom
	if weekFrom < from {
		from = weekFrom
	}

	out := make([]EmployeeStats, 0, len(list))
	for _, emp := range list {
		totals, err := s.days.SumOver(ctx, emp.ID, from, today)
		if err != nil {
			return nil, err
		}
		var todayTotal, weekTotal, monthTotal time.Duration
		for day, d := range totals {
			if day == today {
				todayTotal += d
			}
			if day >= weekFrom {
				weekTotal += d
			}
			if day >= monthFrom {
				monthTotal += d
			}
		}
		out = append(out, EmployeeStats{
			Employee: emp,
			Today:    domain.FormatHHMM(todayTotal),
			Week:     domain.FormatHHMM(weekTotal),
			Month:    domain.FormatHHMM(monthTotal),
		})
	}
	return out, nil
}
