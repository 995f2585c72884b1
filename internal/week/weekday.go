package week

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedWeekday is returned when a Saturday or Sunday is converted
// to a Weekday.
var ErrUnsupportedWeekday = errors.New("unsupported weekday")

// Weekday is one of the five tracked working days.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// NumDays is the number of tracked weekdays.
const NumDays = 5

// Weekdays lists the tracked days in calendar order.
var Weekdays = [NumDays]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// FromTime converts a time.Weekday, rejecting the weekend.
func FromTime(wd time.Weekday) (Weekday, error) {
	switch wd {
	case time.Monday:
		return Monday, nil
	case time.Tuesday:
		return Tuesday, nil
	case time.Wednesday:
		return Wednesday, nil
	case time.Thursday:
		return Thursday, nil
	case time.Friday:
		return Friday, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedWeekday, wd)
	}
}

// Valid reports whether w is one of the five tracked days.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Friday
}

// Next returns the following day, wrapping from Friday to Monday.
func (w Weekday) Next() Weekday {
	w.mustBeValid()
	return (w + 1) % NumDays
}

// Prev returns the preceding day, wrapping from Monday to Friday.
func (w Weekday) Prev() Weekday {
	w.mustBeValid()
	return (w + NumDays - 1) % NumDays
}

// Time returns the matching time.Weekday.
func (w Weekday) Time() time.Weekday {
	w.mustBeValid()
	return time.Weekday(int(w) + 1)
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return w.Time().String()[:3]
}

// mustBeValid panics on values outside Monday..Friday. Weekend values are
// filtered by FromTime, so reaching this is a programming error.
func (w Weekday) mustBeValid() {
	if !w.Valid() {
		panic(fmt.Sprintf("week: weekday %d out of range", int(w)))
	}
}
