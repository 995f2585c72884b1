package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/timecalc"
	"github.com/Tiliavir/tcheck/internal/week"
)

// Tracker owns the in-memory week and keeps it in step with the Store.
//
// Every mutating command edits the local week first and then issues one
// remote call. A failed remote call is logged and returned; the local state
// is kept as is and nothing is retried, so local and remote may differ until
// the next Reload.
//
// A Tracker is not safe for concurrent use; commands are expected to run
// one at a time.
type Tracker struct {
	store Store
	tasks TaskSource
	log   *slog.Logger
	now   func() time.Time

	weekStarts []time.Time
	weekIdx    int
	week       *week.Week

	taskList []model.Task
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the log sink for remote failures.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithTaskSource enables FetchTasks.
func WithTaskSource(src TaskSource) Option {
	return func(t *Tracker) { t.tasks = src }
}

// New returns a Tracker positioned on the current week of the current month.
// Call Reload to fill it.
func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	now := t.now()
	t.SetMonth(now.Year(), now.Month())
	return t
}

// SetMonth selects the weeks overlapping year/month. Weeks starting after
// today are left out unless the whole month lies in the future. The week
// containing today is selected if present, otherwise the first one.
// Invalid months are ignored.
func (t *Tracker) SetMonth(year int, month time.Month) {
	now := t.now()
	starts := timecalc.WeekStarts(year, month, now.Location())
	if len(starts) == 0 {
		return
	}

	var past []time.Time
	for _, s := range starts {
		if !s.After(now) {
			past = append(past, s)
		}
	}
	if len(past) > 0 {
		starts = past
	}

	t.weekStarts = starts
	t.weekIdx = 0
	current := timecalc.Monday(now)
	for i, s := range starts {
		if s.Equal(current) {
			t.weekIdx = i
		}
	}
	t.week = week.New(starts[t.weekIdx])
}

// GoTo selects the month of day and the week containing it. A week outside
// the offered starts is still selected, it just is not part of CycleWeek.
func (t *Tracker) GoTo(day time.Time) {
	t.SetMonth(day.Year(), day.Month())
	monday := timecalc.Monday(day)
	for i, s := range t.weekStarts {
		if s.Equal(monday) {
			t.weekIdx = i
			t.week = week.New(s)
			return
		}
	}
	t.week = week.New(monday)
}

// Week returns the current week for reading. Mutate it only through the
// Tracker's commands.
func (t *Tracker) Week() *week.Week {
	return t.week
}

// WeekStarts returns the selectable week starts and the selected index.
func (t *Tracker) WeekStarts() ([]time.Time, int) {
	return t.weekStarts, t.weekIdx
}

// Reload fetches the five weekdays of the selected week, rebuilds the
// unregistered view and resets the cursor to Monday. If any fetch fails the
// local week is kept.
func (t *Tracker) Reload(ctx context.Context) error {
	start := t.week.Start
	var days [week.NumDays][]model.Checkpoint
	for _, wd := range week.Weekdays {
		list, err := t.store.Find(ctx, t.week.Date(wd))
		if err != nil {
			t.log.Error("reload failed", "day", t.week.Date(wd).Format("2006-01-02"), "err", err)
			return fmt.Errorf("loading %s: %w", wd, err)
		}
		days[wd] = list
	}
	t.week = week.Build(start, days)
	return nil
}

// CycleWeek selects the next week start, wrapping around, and reloads.
func (t *Tracker) CycleWeek(ctx context.Context) error {
	if len(t.weekStarts) == 0 {
		return nil
	}
	t.weekIdx = (t.weekIdx + 1) % len(t.weekStarts)
	t.week = week.New(t.weekStarts[t.weekIdx])
	return t.Reload(ctx)
}

// DistinctDates lists every date with checkpoints.
func (t *Tracker) DistinctDates(ctx context.Context) ([]time.Time, error) {
	dates, err := t.store.DistinctDates(ctx)
	if err != nil {
		t.log.Error("listing dates failed", "err", err)
		return nil, err
	}
	return dates, nil
}

// Select places the cursor on wd at index, clamped to the day.
func (t *Tracker) Select(wd week.Weekday, index int) { t.week.Select(wd, index) }

func (t *Tracker) SelectNextCheckpoint() { t.week.SelectNextCheckpoint() }
func (t *Tracker) SelectPrevCheckpoint() { t.week.SelectPrevCheckpoint() }
func (t *Tracker) SelectNextDay()        { t.week.SelectNextDay() }
func (t *Tracker) SelectPrevDay()        { t.week.SelectPrevDay() }
