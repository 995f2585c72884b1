package timecalc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Quantum is the bucketing unit for rounding and interval durations.
const Quantum = 15 * time.Minute

// GenerateID creates a unique checkpoint ID based on timestamp and random suffix.
func GenerateID(t time.Time) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", t.Format("20060102-150405"), string(suffix))
}

// Round rounds t to the nearest Quantum boundary.
func Round(t time.Time) time.Time {
	return RoundToQuantum(t, Quantum)
}

// RoundToQuantum rounds t to the nearest quantum boundary within its hour.
// A minute remainder of at least half the quantum rounds up, anything less
// rounds down. Seconds and sub-second components are always dropped.
// quantum must be a whole number of minutes dividing an hour; other values
// fall back to Quantum.
func RoundToQuantum(t time.Time, quantum time.Duration) time.Time {
	q := int(quantum / time.Minute)
	if q <= 0 || q > 60 || 60%q != 0 || quantum%time.Minute != 0 {
		q = int(Quantum / time.Minute)
	}

	// Subtracting keeps the location and avoids time.Date normalisation
	// around DST transitions.
	base := t.Add(-time.Duration(t.Second())*time.Second - time.Duration(t.Nanosecond()))

	remainder := base.Minute() % q
	if remainder*2 >= q {
		return base.Add(time.Duration(q-remainder) * time.Minute)
	}
	return base.Add(-time.Duration(remainder) * time.Minute)
}

// DurationMinutes returns the minutes between the rounded start and the
// rounded end, clamped to zero.
func DurationMinutes(start, end time.Time) int {
	d := Round(end).Sub(Round(start))
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// HumanDuration formats minutes as "1h30m", "1h", "45m" or "0m".
func HumanDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// WeekStarts returns the Mondays of every ISO week overlapping the given
// month, starting from the Monday on or before the 1st and ending before the
// 1st of the following month. An invalid month yields no dates.
func WeekStarts(year int, month time.Month, loc *time.Location) []time.Time {
	if month < time.January || month > time.December {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	var mondays []time.Time
	for d := Monday(first); d.Before(next); d = d.AddDate(0, 0, 7) {
		mondays = append(mondays, d)
	}
	return mondays
}

// Monday returns 00:00 of the Monday of the ISO week containing t.
func Monday(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	return StartOfDay(t.AddDate(0, 0, -(wd - 1)))
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextDay returns 00:00:00 of the following day in the same location.
func NextDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Shift adds d to t and reports whether the result is representable.
// Overflowing the time range returns t unchanged and false.
func Shift(t time.Time, d time.Duration) (time.Time, bool) {
	shifted := t.Add(d)
	if (d > 0 && !shifted.After(t)) || (d < 0 && !shifted.Before(t)) {
		return t, false
	}
	return shifted, true
}
