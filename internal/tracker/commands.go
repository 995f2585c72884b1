package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/timecalc"
	"github.com/Tiliavir/tcheck/internal/week"
)

// ErrNoTaskSource is returned by FetchTasks when no TaskSource is configured.
var ErrNoTaskSource = errors.New("no task source configured")

// Target picks which checkpoint a shift applies to.
type Target int

const (
	// Selected is the checkpoint under the cursor.
	Selected Target = iota
	// Successor is the checkpoint following the selected one.
	Successor
)

// Append records a checkpoint at the current time on today's list and
// persists it. When today is part of the loaded week the cursor moves to
// today and the local entry receives the assigned id once the insert
// succeeds. Otherwise the checkpoint is only inserted and the week reloaded.
func (t *Tracker) Append(ctx context.Context) error {
	now := t.now()
	c := model.New(now)

	wd, err := week.FromTime(now.Weekday())
	if err != nil || !timecalc.SameDay(t.week.Date(wd), now) {
		if _, err := t.store.Insert(ctx, c); err != nil {
			t.log.Error("remote insert failed", "op", "append", "err", err)
			return fmt.Errorf("append: %w", err)
		}
		return t.Reload(ctx)
	}

	if sel, idx := t.week.Selected(); sel != wd {
		t.week.Select(wd, idx)
	}
	t.week.Append(c)
	idx := len(t.week.ActiveDay()) - 1

	stored, err := t.store.Insert(ctx, c)
	if err != nil {
		t.log.Error("remote insert failed", "op", "append", "err", err)
		return fmt.Errorf("append: %w", err)
	}
	if p := t.week.CheckpointAt(idx); p != nil {
		p.ID = stored.ID
	}
	return nil
}

// Split inserts a checkpoint at the midpoint of the selected interval and
// reloads. Nothing happens if there is no successor or the interval is empty.
func (t *Tracker) Split(ctx context.Context) error {
	sel, ok := t.week.SelectedCheckpoint()
	if !ok {
		return nil
	}
	next, ok := t.week.NextCheckpoint()
	if !ok {
		return nil
	}
	span := next.Time.Sub(sel.Time)
	if span <= 0 {
		return nil
	}

	c := model.New(sel.Time.Add(span / 2))
	t.week.Insert(c)
	if _, err := t.store.Insert(ctx, c); err != nil {
		t.log.Error("remote insert failed", "op", "split", "err", err)
		return fmt.Errorf("split: %w", err)
	}
	return t.Reload(ctx)
}

// Delete removes the selected checkpoint, clamps the cursor and reloads.
func (t *Tracker) Delete(ctx context.Context) error {
	removed, ok := t.week.RemoveSelected()
	if !ok {
		return nil
	}
	if err := t.store.Delete(ctx, removed); err != nil {
		t.log.Error("remote delete failed", "id", removed.IDString(), "err", err)
		return fmt.Errorf("delete: %w", err)
	}
	return t.Reload(ctx)
}

// Shift moves the target checkpoint by steps quanta (negative is earlier).
// A shift that would overflow the time range is skipped.
func (t *Tracker) Shift(ctx context.Context, target Target, steps int) error {
	p := t.week.SelectedCheckpointMut()
	if target == Successor {
		p = t.week.NextCheckpointMut()
	}
	if p == nil || steps == 0 {
		return nil
	}
	shifted, ok := timecalc.Shift(p.Time, time.Duration(steps)*timecalc.Quantum)
	if !ok {
		return nil
	}
	p.Time = shifted
	return t.persist(ctx, "shift", *p)
}

// ToggleRegistered flips the registered flag of the selected checkpoint.
func (t *Tracker) ToggleRegistered(ctx context.Context) error {
	p := t.week.SelectedCheckpointMut()
	if p == nil {
		return nil
	}
	p.Registered = !p.Registered
	return t.persist(ctx, "toggle-registered", *p)
}

// AssignProject sets the project of the selected checkpoint. Assigning the
// project it already carries clears it.
func (t *Tracker) AssignProject(ctx context.Context, project string) error {
	p := t.week.SelectedCheckpointMut()
	if p == nil {
		return nil
	}
	if p.Project != nil && *p.Project == project {
		p.Project = nil
	} else {
		p.Project = model.StringPtr(project)
	}
	return t.persist(ctx, "assign-project", *p)
}

// Annotate sets the message of the selected checkpoint. Blank text clears it.
func (t *Tracker) Annotate(ctx context.Context, text string) error {
	p := t.week.SelectedCheckpointMut()
	if p == nil {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		p.Message = nil
	} else {
		p.Message = model.StringPtr(text)
	}
	return t.persist(ctx, "annotate", *p)
}

// FetchTasks refreshes the cached task list.
func (t *Tracker) FetchTasks(ctx context.Context) error {
	if t.tasks == nil {
		return ErrNoTaskSource
	}
	list, err := t.tasks.FetchTasks(ctx)
	if err != nil {
		t.log.Error("fetching tasks failed", "err", err)
		return fmt.Errorf("fetch tasks: %w", err)
	}
	t.taskList = list
	return nil
}

// Tasks returns the cached task list.
func (t *Tracker) Tasks() []model.Task {
	return t.taskList
}

// AssignTask assigns the id of cached task i as project of the selected
// checkpoint.
func (t *Tracker) AssignTask(ctx context.Context, i int) error {
	if i < 0 || i >= len(t.taskList) {
		return nil
	}
	return t.AssignProject(ctx, strconv.Itoa(t.taskList[i].ID))
}

func (t *Tracker) persist(ctx context.Context, op string, c model.Checkpoint) error {
	if err := t.store.Update(ctx, c); err != nil {
		t.log.Error("remote update failed", "op", op, "id", c.IDString(), "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
