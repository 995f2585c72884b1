package week

import (
	"slices"
	"sort"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/timecalc"
)

// Unregistered is a closed interval whose checkpoint is not yet registered.
type Unregistered struct {
	Checkpoint model.Checkpoint
	Minutes    int
}

// Interval is the span between two consecutive checkpoints of a day.
type Interval struct {
	Start   model.Checkpoint
	End     model.Checkpoint
	Minutes int
}

// Week holds the Monday–Friday checkpoint lists of one ISO week together
// with the derived unregistered view and the selection cursor.
type Week struct {
	Start time.Time

	mon, tue, wed, thu, fri []model.Checkpoint

	unregistered []Unregistered

	selected Weekday
	index    int
}

// New returns an empty week starting on the Monday of start.
func New(start time.Time) *Week {
	return &Week{Start: timecalc.Monday(start)}
}

// Build assembles a week from five day lists, recomputes the unregistered
// view and resets the cursor to Monday, index 0.
func Build(start time.Time, days [NumDays][]model.Checkpoint) *Week {
	w := New(start)
	for _, wd := range Weekdays {
		list := slices.Clone(days[wd])
		slices.SortStableFunc(list, func(a, b model.Checkpoint) int {
			return a.Time.Compare(b.Time)
		})
		*w.day(wd) = list
	}
	w.unregistered = BuildUnregistered(w.Days())
	return w
}

// day is the total mapping from Weekday to its list.
func (w *Week) day(wd Weekday) *[]model.Checkpoint {
	switch wd {
	case Monday:
		return &w.mon
	case Tuesday:
		return &w.tue
	case Wednesday:
		return &w.wed
	case Thursday:
		return &w.thu
	case Friday:
		return &w.fri
	}
	wd.mustBeValid()
	return nil
}

// Day returns the checkpoints of wd in ascending time order.
func (w *Week) Day(wd Weekday) []model.Checkpoint {
	return *w.day(wd)
}

// Days returns all five day lists.
func (w *Week) Days() [NumDays][]model.Checkpoint {
	return [NumDays][]model.Checkpoint{w.mon, w.tue, w.wed, w.thu, w.fri}
}

// Date returns 00:00 of wd within this week.
func (w *Week) Date(wd Weekday) time.Time {
	wd.mustBeValid()
	return w.Start.AddDate(0, 0, int(wd))
}

// Unregistered returns the view computed by the last Build.
func (w *Week) Unregistered() []Unregistered {
	return w.unregistered
}

// Intervals returns the closed intervals of wd. A day of N checkpoints has
// max(N-1, 0) intervals.
func (w *Week) Intervals(wd Weekday) []Interval {
	return Intervals(w.Day(wd))
}

// Intervals derives the intervals between consecutive checkpoints.
func Intervals(day []model.Checkpoint) []Interval {
	if len(day) < 2 {
		return nil
	}
	out := make([]Interval, 0, len(day)-1)
	for i := 0; i < len(day)-1; i++ {
		out = append(out, Interval{
			Start:   day[i],
			End:     day[i+1],
			Minutes: timecalc.DurationMinutes(day[i].Time, day[i+1].Time),
		})
	}
	return out
}

// BuildUnregistered collects every non-final checkpoint whose registered
// flag is false, with the duration of its interval. The last checkpoint of
// a day is open and never included.
func BuildUnregistered(days [NumDays][]model.Checkpoint) []Unregistered {
	var out []Unregistered
	for _, day := range days {
		for i := 0; i < len(day)-1; i++ {
			if day[i].Registered {
				continue
			}
			out = append(out, Unregistered{
				Checkpoint: day[i],
				Minutes:    timecalc.DurationMinutes(day[i].Time, day[i+1].Time),
			})
		}
	}
	return out
}

// Append adds c at the end of the active day.
func (w *Week) Append(c model.Checkpoint) {
	d := w.day(w.selected)
	*d = append(*d, c)
}

// Insert places c into the active day at its ordinal position and returns
// that position. Checkpoints with equal time keep insertion order.
func (w *Week) Insert(c model.Checkpoint) int {
	d := w.day(w.selected)
	i := sort.Search(len(*d), func(i int) bool {
		return (*d)[i].Time.After(c.Time)
	})
	*d = slices.Insert(*d, i, c)
	return i
}

// RemoveSelected deletes the selected checkpoint from the active day and
// clamps the cursor to the shrunk list.
func (w *Week) RemoveSelected() (model.Checkpoint, bool) {
	d := w.day(w.selected)
	if w.index >= len(*d) {
		return model.Checkpoint{}, false
	}
	removed := (*d)[w.index]
	*d = slices.Delete(*d, w.index, w.index+1)
	w.clampIndex()
	return removed, true
}
