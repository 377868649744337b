package model

import "time"

// DateOnly normalizes a timestamp to its UTC calendar day. All date
// comparisons in the workflow layer go through this so window checks and
// per-day uniqueness agree on what "the same day" means.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
