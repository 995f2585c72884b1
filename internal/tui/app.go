// Package tui is the interactive week view.
package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/tcheck/internal/projects"
	"github.com/Tiliavir/tcheck/internal/tracker"
)

type mode int

const (
	modeNormal mode = iota
	modeEditing
	modeTasks
)

// Options configure the view.
type Options struct {
	Catalogue     projects.Catalogue
	TaskURLPrefix string
}

// App is the week view model. Commands run synchronously inside Update, so
// every command and its remote call completes before the next key is read.
type App struct {
	ctx     context.Context
	tracker *tracker.Tracker
	opts    Options

	keys      KeyMap
	popupKeys PopupKeyMap
	inputKeys InputKeyMap

	mode        mode
	input       textinput.Model
	taskCursor  int
	showTaskURL bool

	width  int
	height int
}

type reloadMsg struct{}

// New creates the view on top of tr. ctx bounds every remote call.
func New(ctx context.Context, tr *tracker.Tracker, opts Options) *App {
	input := textinput.New()
	input.Placeholder = "message"
	input.CharLimit = 500
	return &App{
		ctx:       ctx,
		tracker:   tr,
		opts:      opts,
		keys:      DefaultKeys,
		popupKeys: DefaultPopupKeys,
		inputKeys: DefaultInputKeys,
		input:     input,
	}
}

// Init loads the selected week.
func (a *App) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

// Update handles messages for the application. Remote failures are logged by
// the tracker and never interrupt the view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(msg.Width-16, 10)
		return a, nil

	case reloadMsg:
		_ = a.tracker.Reload(a.ctx)
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case modeEditing:
			return a.updateEditing(msg)
		case modeTasks:
			return a.updateTasks(msg)
		}
		return a.updateNormal(msg)
	}

	if a.mode == modeEditing {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := a.ctx
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Append):
		_ = a.tracker.Append(ctx)
	case key.Matches(msg, a.keys.Split):
		_ = a.tracker.Split(ctx)
	case key.Matches(msg, a.keys.Delete):
		_ = a.tracker.Delete(ctx)
	case key.Matches(msg, a.keys.ShiftBack):
		_ = a.tracker.Shift(ctx, tracker.Selected, -1)
	case key.Matches(msg, a.keys.ShiftForward):
		_ = a.tracker.Shift(ctx, tracker.Selected, 1)
	case key.Matches(msg, a.keys.ShiftNextBack):
		_ = a.tracker.Shift(ctx, tracker.Successor, -1)
	case key.Matches(msg, a.keys.ShiftNextForward):
		_ = a.tracker.Shift(ctx, tracker.Successor, 1)
	case key.Matches(msg, a.keys.Left):
		a.tracker.SelectPrevCheckpoint()
	case key.Matches(msg, a.keys.Right):
		a.tracker.SelectNextCheckpoint()
	case key.Matches(msg, a.keys.Up):
		a.tracker.SelectPrevDay()
	case key.Matches(msg, a.keys.Down):
		a.tracker.SelectNextDay()
	case key.Matches(msg, a.keys.CycleWeek):
		_ = a.tracker.CycleWeek(ctx)
	case key.Matches(msg, a.keys.Register):
		_ = a.tracker.ToggleRegistered(ctx)
	case key.Matches(msg, a.keys.Reload):
		_ = a.tracker.Reload(ctx)
	case key.Matches(msg, a.keys.Tasks):
		if err := a.tracker.FetchTasks(ctx); err == nil {
			a.mode = modeTasks
			a.taskCursor = 0
		}
	case key.Matches(msg, a.keys.Message):
		if !a.tracker.Week().HasSelection() {
			return a, nil
		}
		sel, _ := a.tracker.Week().SelectedCheckpoint()
		a.mode = modeEditing
		a.input.SetValue(sel.MessageString())
		a.input.CursorEnd()
		return a, a.input.Focus()
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil {
			if p, ok := a.opts.Catalogue.Nth(n); ok {
				_ = a.tracker.AssignProject(ctx, p.ID)
			}
		}
	}
	return a, nil
}

func (a *App) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.inputKeys.Submit):
		_ = a.tracker.Annotate(a.ctx, a.input.Value())
		a.stopEditing()
		return a, nil
	case key.Matches(msg, a.inputKeys.Cancel):
		a.stopEditing()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) stopEditing() {
	a.mode = modeNormal
	a.input.Blur()
	a.input.Reset()
}

func (a *App) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(a.tracker.Tasks())
	switch {
	case key.Matches(msg, a.popupKeys.Close):
		a.mode = modeNormal
	case key.Matches(msg, a.popupKeys.Up):
		if a.taskCursor > 0 {
			a.taskCursor--
		}
	case key.Matches(msg, a.popupKeys.Down):
		if a.taskCursor < n-1 {
			a.taskCursor++
		}
	case key.Matches(msg, a.popupKeys.ToggleURL):
		a.showTaskURL = !a.showTaskURL
	case key.Matches(msg, a.popupKeys.Assign):
		_ = a.tracker.AssignTask(a.ctx, a.taskCursor)
		a.mode = modeNormal
	}
	return a, nil
}
