package domain

import "time"

// DayFormat is the calendar date layout used throughout the system.
const DayFormat = "2006-01-02"

// Window is an inclusive calendar date range.
type Window struct {
	From time.Time
	To   time.Time
}

// DayWindow returns the single-day window containing anchor.
func DayWindow(anchor time.Time) Window {
	d := truncateToDate(anchor)
	return Window{From: d, To: d}
}

// WeekWindow returns the Monday-to-Sunday window containing anchor.
func WeekWindow(anchor time.Time) Window {
	d := truncateToDate(anchor)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	monday := d.AddDate(0, 0, -(wd - 1))
	return Window{From: monday, To: monday.AddDate(0, 0, 6)}
}

// MonthWindow returns the first-to-last calendar day window of anchor's
// month.
func MonthWindow(anchor time.Time) Window {
	d := truncateToDate(anchor)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return Window{From: first, To: first.AddDate(0, 1, -1)}
}

// Days returns every date in the window ascending, formatted as DayFormat.
func (w Window) Days() []string {
	var out []string
	for d := w.From; !d.After(w.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DayFormat))
	}
	return out
}

// FromDay returns the window's first date formatted as DayFormat.
func (w Window) FromDay() string { return w.From.Format(DayFormat) }

// ToDay returns the window's last date formatted as DayFormat.
func (w Window) ToDay() string { return w.To.Format(DayFormat) }

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
