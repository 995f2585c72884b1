package week_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/week"
)

// 2026-02-23 is a Monday.
var monday = time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)

func cp(day week.Weekday, hhmm string) model.Checkpoint {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	d := monday.AddDate(0, 0, int(day))
	return model.New(time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC))
}

func days(lists map[week.Weekday][]string) [week.NumDays][]model.Checkpoint {
	var out [week.NumDays][]model.Checkpoint
	for wd, times := range lists {
		for _, hhmm := range times {
			out[wd] = append(out[wd], cp(wd, hhmm))
		}
	}
	return out
}

func TestFromTime(t *testing.T) {
	for _, tt := range []struct {
		in   time.Weekday
		want week.Weekday
	}{
		{time.Monday, week.Monday},
		{time.Wednesday, week.Wednesday},
		{time.Friday, week.Friday},
	} {
		got, err := week.FromTime(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("FromTime(%s) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, wd := range []time.Weekday{time.Saturday, time.Sunday} {
		if _, err := week.FromTime(wd); !errors.Is(err, week.ErrUnsupportedWeekday) {
			t.Errorf("FromTime(%s) error = %v, want ErrUnsupportedWeekday", wd, err)
		}
	}
}

func TestWeekdayCycle(t *testing.T) {
	if week.Friday.Next() != week.Monday {
		t.Error("Friday.Next() should wrap to Monday")
	}
	if week.Monday.Prev() != week.Friday {
		t.Error("Monday.Prev() should wrap to Friday")
	}
	if week.Wednesday.String() != "Wed" {
		t.Errorf("Wednesday.String() = %q", week.Wednesday.String())
	}
}

func TestInvalidWeekdayPanics(t *testing.T) {
	w := week.New(monday)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for weekday outside Monday..Friday")
		}
	}()
	w.Day(week.Weekday(5))
}

func TestIntervalsScenario(t *testing.T) {
	day := days(map[week.Weekday][]string{week.Monday: {"09:00", "09:07", "09:23"}})[week.Monday]

	wantRounded := []string{"09:00", "09:00", "09:30"}
	for i, c := range day {
		if got := c.RoundedTime().Format("15:04"); got != wantRounded[i] {
			t.Errorf("rounded[%d] = %s, want %s", i, got, wantRounded[i])
		}
	}

	intervals := week.Intervals(day)
	if len(intervals) != 2 {
		t.Fatalf("got %d intervals, want 2", len(intervals))
	}
	if intervals[0].Minutes != 0 || intervals[1].Minutes != 30 {
		t.Errorf("interval minutes = %d, %d; want 0, 30", intervals[0].Minutes, intervals[1].Minutes)
	}
}

func TestIntervalCount(t *testing.T) {
	all := []string{"08:00", "09:00", "10:15", "12:00", "12:30"}
	for n := 0; n <= len(all); n++ {
		day := days(map[week.Weekday][]string{week.Monday: all[:n]})[week.Monday]
		got := week.Intervals(day)
		if len(got) != max(n-1, 0) {
			t.Errorf("len %d: got %d intervals, want %d", n, len(got), max(n-1, 0))
		}
		for _, iv := range got {
			if iv.Minutes < 0 {
				t.Errorf("negative interval %+v", iv)
			}
		}
	}
}

func TestUnregisteredExcludesLastCheckpoint(t *testing.T) {
	d := days(map[week.Weekday][]string{
		week.Monday:  {"09:00", "10:00", "12:00"},
		week.Tuesday: {"08:00"},
		week.Friday:  {"13:00", "14:30"},
	})
	d[week.Monday][1].Registered = true

	w := week.Build(monday, d)
	got := w.Unregistered()
	if len(got) != 2 {
		t.Fatalf("got %d unregistered, want 2", len(got))
	}
	if got[0].Checkpoint.Time.Format("Mon 15:04") != "Mon 09:00" || got[0].Minutes != 60 {
		t.Errorf("unregistered[0] = %s %d", got[0].Checkpoint.Time.Format("Mon 15:04"), got[0].Minutes)
	}
	if got[1].Checkpoint.Time.Format("Mon 15:04") != "Fri 13:00" || got[1].Minutes != 90 {
		t.Errorf("unregistered[1] = %s %d", got[1].Checkpoint.Time.Format("Mon 15:04"), got[1].Minutes)
	}
	for wd, list := range w.Days() {
		if len(list) == 0 {
			continue
		}
		last := list[len(list)-1]
		for _, u := range got {
			if u.Checkpoint.Time.Equal(last.Time) {
				t.Errorf("last checkpoint of %s included in unregistered view", week.Weekday(wd))
			}
		}
	}
}

func TestBuildSortsAndResetsCursor(t *testing.T) {
	d := days(map[week.Weekday][]string{week.Monday: {"11:00", "09:00", "10:00"}})
	w := week.Build(monday, d)
	wd, idx := w.Selected()
	if wd != week.Monday || idx != 0 {
		t.Errorf("cursor = (%s, %d), want (Mon, 0)", wd, idx)
	}
	got := w.Day(week.Monday)
	for i := 1; i < len(got); i++ {
		if got[i].Time.Before(got[i-1].Time) {
			t.Fatalf("day not ascending: %v", got)
		}
	}
	if !w.Date(week.Thursday).Equal(monday.AddDate(0, 0, 3)) {
		t.Errorf("Date(Thu) = %s", w.Date(week.Thursday))
	}
}

func TestSelectNextCheckpointStopsBeforeLast(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{week.Monday: {"09:00", "10:00", "11:00"}}))
	for i := 0; i < 5; i++ {
		w.SelectNextCheckpoint()
	}
	if _, idx := w.Selected(); idx != 1 {
		t.Errorf("index = %d, want 1 (last interval start)", idx)
	}
	if _, ok := w.NextCheckpoint(); !ok {
		t.Error("selected interval must have a successor")
	}
	for i := 0; i < 5; i++ {
		w.SelectPrevCheckpoint()
	}
	if _, idx := w.Selected(); idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
}

func TestSelectNextCheckpointSingleEntry(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{week.Monday: {"09:00"}}))
	w.SelectNextCheckpoint()
	if _, idx := w.Selected(); idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
	if _, ok := w.SelectedCheckpoint(); !ok {
		t.Error("single checkpoint should be selectable")
	}
	if _, ok := w.NextCheckpoint(); ok {
		t.Error("single checkpoint has no successor")
	}
}

func TestSelectNextDayWrapsAndClamps(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{
		week.Monday: {"09:00", "10:00"},
		week.Friday: {"08:00", "09:00", "10:00", "11:00", "12:00"},
	}))
	w.Select(week.Friday, 3)
	w.SelectNextDay()
	wd, idx := w.Selected()
	if wd != week.Monday {
		t.Fatalf("weekday = %s, want Mon", wd)
	}
	if idx != 0 {
		t.Errorf("index = %d, want len-2 = 0", idx)
	}
}

func TestSelectDayClampRules(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{
		week.Monday:    {"08:00", "09:00", "10:00", "11:00", "12:00"},
		week.Wednesday: {"09:00", "10:00", "11:00"},
		week.Thursday:  {"08:00", "09:00", "10:00", "11:00"},
		week.Friday:    {"09:00"},
	}))

	w.Select(week.Monday, 3)
	w.SelectNextDay() // Tuesday is empty
	if wd, idx := w.Selected(); wd != week.Tuesday || idx != 0 || w.HasSelection() {
		t.Errorf("empty day: (%s, %d, %v), want (Tue, 0, false)", wd, idx, w.HasSelection())
	}

	w.Select(week.Monday, 2)
	w.SelectPrevDay() // Friday has one entry: len-2 floored at 0
	if wd, idx := w.Selected(); wd != week.Friday || idx != 0 {
		t.Errorf("short day: (%s, %d), want (Fri, 0)", wd, idx)
	}

	w.Select(week.Thursday, 3)
	w.SelectPrevDay() // Wednesday has three entries: 3 exceeds, clamp to len-2
	if wd, idx := w.Selected(); wd != week.Wednesday || idx != 1 {
		t.Errorf("exceeding index: (%s, %d), want (Wed, 1)", wd, idx)
	}

	w.Select(week.Thursday, 2)
	w.SelectPrevDay() // index 2 is within Wednesday's bounds
	if wd, idx := w.Selected(); wd != week.Wednesday || idx != 2 {
		t.Errorf("in-bounds: (%s, %d), want (Wed, 2)", wd, idx)
	}
}

func TestInsertKeepsOrder(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{week.Monday: {"09:00", "11:00", "12:00"}}))
	i := w.Insert(cp(week.Monday, "10:00"))
	if i != 1 {
		t.Errorf("Insert position = %d, want 1", i)
	}
	i = w.Insert(cp(week.Monday, "13:00"))
	if i != 4 {
		t.Errorf("Insert position = %d, want 4", i)
	}
	got := w.Day(week.Monday)
	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00"}
	for j, c := range got {
		if c.Time.Format("15:04") != want[j] {
			t.Errorf("day[%d] = %s, want %s", j, c.Time.Format("15:04"), want[j])
		}
	}
}

func TestAppendToActiveDay(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{week.Monday: {"09:00"}}))
	w.SelectNextDay()
	w.Append(cp(week.Tuesday, "08:00"))
	if len(w.Day(week.Tuesday)) != 1 || len(w.Day(week.Monday)) != 1 {
		t.Errorf("Append went to the wrong day: mon=%d tue=%d", len(w.Day(week.Monday)), len(w.Day(week.Tuesday)))
	}
}

func TestRemoveSoleCheckpoint(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{week.Monday: {"09:00"}}))
	if _, ok := w.RemoveSelected(); !ok {
		t.Fatal("RemoveSelected returned false")
	}
	if len(w.Day(week.Monday)) != 0 {
		t.Errorf("day still has %d checkpoints", len(w.Day(week.Monday)))
	}
	if _, idx := w.Selected(); idx != 0 || w.HasSelection() {
		t.Errorf("cursor index = %d, selection = %v; want 0, false", idx, w.HasSelection())
	}
	if _, ok := w.RemoveSelected(); ok {
		t.Error("RemoveSelected on empty day should report false")
	}
}

func TestRemoveMergesIntervals(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{week.Monday: {"09:00", "10:00", "11:30"}}))
	w.SelectNextCheckpoint()
	w.RemoveSelected()
	iv := w.Intervals(week.Monday)
	if len(iv) != 1 || iv[0].Minutes != 150 {
		t.Fatalf("intervals after delete = %+v, want one of 150 minutes", iv)
	}
	// Index 1 is still inside the shrunk list and is kept.
	if _, idx := w.Selected(); idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
}

func TestMutatorsEditInPlace(t *testing.T) {
	w := week.Build(monday, days(map[week.Weekday][]string{week.Monday: {"09:00", "10:00"}}))
	w.SelectedCheckpointMut().Registered = true
	w.NextCheckpointMut().Message = model.StringPtr("lunch")
	if !w.Day(week.Monday)[0].Registered {
		t.Error("SelectedCheckpointMut did not edit the day list")
	}
	if w.Day(week.Monday)[1].MessageString() != "lunch" {
		t.Error("NextCheckpointMut did not edit the day list")
	}
}
