package domain

import (
	"fmt"
	"math"
	"time"
)

// FormatHHMM renders a duration as zero-padded hours and minutes,
// e.g. "07:05". Negative durations render as "00:00".
func FormatHHMM(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// HoursRounded returns a duration in fractional hours rounded to two
// decimal places.
func HoursRounded(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
