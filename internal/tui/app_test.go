package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/projects"
	"github.com/Tiliavir/tcheck/internal/storage"
	"github.com/Tiliavir/tcheck/internal/tracker"
	"github.com/Tiliavir/tcheck/internal/week"
)

// now is Monday 2026-02-23 09:00.
var now = time.Date(2026, 2, 23, 9, 0, 0, 0, time.Local)

type staticTasks []model.Task

func (s staticTasks) FetchTasks(context.Context) ([]model.Task, error) {
	return s, nil
}

func newApp(t *testing.T) (*App, *storage.Store) {
	t.Helper()
	store := storage.New(t.TempDir())
	tr := tracker.New(store,
		tracker.WithClock(func() time.Time { return now }),
		tracker.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		tracker.WithTaskSource(staticTasks{{ID: 812, Name: "Code review"}, {ID: 77, Name: "Ops"}}),
	)
	cat, err := projects.Parse([]byte("projects:\n  - id: \"4711\"\n    name: Internal\n"))
	if err != nil {
		t.Fatal(err)
	}
	app := New(context.Background(), tr, Options{Catalogue: cat, TaskURLPrefix: "https://pm.example/task/"})
	send(app, app.Init()())
	return app, store
}

func send(app *App, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = app.Update(msg)
	}
	return cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func monday(app *App) []model.Checkpoint {
	return app.tracker.Week().Day(week.Monday)
}

func TestAppendKey(t *testing.T) {
	app, store := newApp(t)
	send(app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	if got := len(monday(app)); got != 1 {
		t.Fatalf("Monday has %d checkpoints, want 1", got)
	}
	stored, err := store.Find(context.Background(), now)
	if err != nil || len(stored) != 1 {
		t.Errorf("stored = %v, %v; want one checkpoint", stored, err)
	}
}

func TestMessageEditing(t *testing.T) {
	app, store := newApp(t)
	send(app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	send(app, keyRunes("m"))
	if app.mode != modeEditing {
		t.Fatal("m should open the message editor")
	}
	send(app, keyRunes("standup"), tea.KeyMsg{Type: tea.KeyEnter})
	if app.mode != modeNormal {
		t.Error("enter should close the editor")
	}

	stored, _ := store.Find(context.Background(), now)
	if len(stored) != 1 || stored[0].MessageString() != "standup" {
		t.Errorf("stored = %+v, want message standup", stored)
	}
}

func TestMessageEditingCancel(t *testing.T) {
	app, _ := newApp(t)
	send(app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	send(app, keyRunes("m"), keyRunes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if app.mode != modeNormal {
		t.Error("esc should close the editor")
	}
	if monday(app)[0].Message != nil {
		t.Error("cancelled edit should not set a message")
	}
}

func TestMessageWithoutSelection(t *testing.T) {
	app, _ := newApp(t)
	send(app, keyRunes("m"))
	if app.mode != modeNormal {
		t.Error("m on an empty day should not open the editor")
	}
}

func TestDigitAssignsCatalogueProject(t *testing.T) {
	app, _ := newApp(t)
	send(app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	send(app, keyRunes("1"))
	if got := monday(app)[0].ProjectString(); got != "4711" {
		t.Errorf("project = %q, want 4711", got)
	}
	send(app, keyRunes("9"))
	if got := monday(app)[0].ProjectString(); got != "4711" {
		t.Errorf("unbound digit changed project to %q", got)
	}
}

func TestTaskPopup(t *testing.T) {
	app, _ := newApp(t)
	send(app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	send(app, keyRunes("p"))
	if app.mode != modeTasks {
		t.Fatal("p should open the task list")
	}
	send(app, tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(app.View(), "https://pm.example/task/812") {
		t.Error("task links not shown after toggling")
	}
	send(app, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if app.mode != modeNormal {
		t.Error("enter should close the task list")
	}
	if got := monday(app)[0].ProjectString(); got != "77" {
		t.Errorf("project = %q, want 77", got)
	}
}

func TestNavigationKeys(t *testing.T) {
	app, _ := newApp(t)
	send(app, tea.KeyMsg{Type: tea.KeyDown})
	if wd, _ := app.tracker.Week().Selected(); wd != week.Tuesday {
		t.Errorf("down selected %s, want Tue", wd)
	}
	send(app, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if wd, _ := app.tracker.Week().Selected(); wd != week.Friday {
		t.Errorf("up twice selected %s, want Fri", wd)
	}
}

func TestQuit(t *testing.T) {
	app, _ := newApp(t)
	cmd := send(app, keyRunes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestView(t *testing.T) {
	app, _ := newApp(t)
	send(app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	view := app.View()
	for _, want := range []string{"2026-W09", "Mon 23.02.", "Fri 27.02.", "09:00", "Started:", "All intervals registered."} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q", want)
		}
	}
}
