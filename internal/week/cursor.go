package week

import "github.com/Tiliavir/tcheck/internal/model"

// Selected returns the cursor position.
func (w *Week) Selected() (Weekday, int) {
	return w.selected, w.index
}

// ActiveDay returns the checkpoints of the selected weekday.
func (w *Week) ActiveDay() []model.Checkpoint {
	return w.Day(w.selected)
}

// HasSelection reports whether the cursor points at a checkpoint. An empty
// active day has index 0 and no selection.
func (w *Week) HasSelection() bool {
	return w.index < len(w.ActiveDay())
}

// SelectedCheckpoint returns a copy of the checkpoint under the cursor.
func (w *Week) SelectedCheckpoint() (model.Checkpoint, bool) {
	if c := w.SelectedCheckpointMut(); c != nil {
		return *c, true
	}
	return model.Checkpoint{}, false
}

// NextCheckpoint returns a copy of the successor of the selected checkpoint.
func (w *Week) NextCheckpoint() (model.Checkpoint, bool) {
	if c := w.NextCheckpointMut(); c != nil {
		return *c, true
	}
	return model.Checkpoint{}, false
}

// SelectedCheckpointMut returns the checkpoint under the cursor for in-place
// mutation, or nil.
func (w *Week) SelectedCheckpointMut() *model.Checkpoint {
	return w.at(w.index)
}

// NextCheckpointMut returns the successor of the selected checkpoint for
// in-place mutation, or nil when the selected checkpoint is the last one.
func (w *Week) NextCheckpointMut() *model.Checkpoint {
	return w.at(w.index + 1)
}

// CheckpointAt returns entry i of the active day for in-place mutation, or
// nil when i is out of range.
func (w *Week) CheckpointAt(i int) *model.Checkpoint {
	return w.at(i)
}

func (w *Week) at(i int) *model.Checkpoint {
	d := *w.day(w.selected)
	if i < 0 || i >= len(d) {
		return nil
	}
	return &d[i]
}

// SelectNextCheckpoint moves the cursor right. The cursor walks interval
// starts, so it stops before the last (open) checkpoint of the day.
func (w *Week) SelectNextCheckpoint() {
	if w.index+2 < len(w.ActiveDay()) {
		w.index++
	}
}

// SelectPrevCheckpoint moves the cursor left, stopping at 0.
func (w *Week) SelectPrevCheckpoint() {
	if w.index > 0 {
		w.index--
	}
}

// SelectNextDay moves to the following weekday, wrapping Friday to Monday.
func (w *Week) SelectNextDay() {
	w.selected = w.selected.Next()
	w.clampIndex()
}

// SelectPrevDay moves to the preceding weekday, wrapping Monday to Friday.
func (w *Week) SelectPrevDay() {
	w.selected = w.selected.Prev()
	w.clampIndex()
}

// Select places the cursor on wd at index, clamped to the day.
func (w *Week) Select(wd Weekday, index int) {
	wd.mustBeValid()
	w.selected = wd
	w.index = max(index, 0)
	w.clampIndex()
}

// clampIndex keeps the index valid for the active day: an empty day gets 0,
// an index past the end moves to the last interval start (len-2, floored at
// 0), anything else is kept.
func (w *Week) clampIndex() {
	n := len(w.ActiveDay())
	switch {
	case n == 0:
		w.index = 0
	case w.index > n-1:
		w.index = max(n-2, 0)
	}
}
