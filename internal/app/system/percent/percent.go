// Package percent computes projected attendance percentages from raw
// summary counters. It is read-time only; nothing here is persisted.
//
// The weighting rule is fixed: an excused absence counts as half a
// present. All results are rounded half-up to an integer percentage.
package percent

import "math"

// Weighted returns round(((present + 0.5*excused) / total) * 100), or 0
// when total is not positive. Inputs are raw counts; the result is an
// integer in [0, 100] for consistent counters.
func Weighted(present, excused, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := (float64(present) + 0.5*float64(excused)) / float64(total) * 100
	return int(math.Floor(pct + 0.5))
}

// Sessions returns the attendance percentage for a subject or class
// aggregate, where the denominator is opportunities: sessions held times
// roster size. Returns 0 when there were no opportunities.
func Sessions(present, excused, sessions, students int64) int {
	return Weighted(present, excused, sessions*students)
}
