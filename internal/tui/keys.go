package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the week view bindings.
type KeyMap struct {
	Quit             key.Binding
	Append           key.Binding
	Split            key.Binding
	Delete           key.Binding
	Message          key.Binding
	ShiftBack        key.Binding
	ShiftForward     key.Binding
	ShiftNextBack    key.Binding
	ShiftNextForward key.Binding
	Left             key.Binding
	Right            key.Binding
	Up               key.Binding
	Down             key.Binding
	CycleWeek        key.Binding
	Register         key.Binding
	Reload           key.Binding
	Tasks            key.Binding
}

// DefaultKeys are the week view bindings.
var DefaultKeys = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Append: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "checkpoint now"),
	),
	Split: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "split"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Message: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "message"),
	),
	ShiftBack: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h/l", "shift start"),
	),
	ShiftForward: key.NewBinding(
		key.WithKeys("l"),
	),
	// ctrl+h arrives as backspace in many terminals, H is the fallback.
	ShiftNextBack: key.NewBinding(
		key.WithKeys("ctrl+h", "H"),
		key.WithHelp("H/L", "shift end"),
	),
	ShiftNextForward: key.NewBinding(
		key.WithKeys("ctrl+l", "L"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←/→", "checkpoint"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑/↓", "day"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
	),
	CycleWeek: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "week"),
	),
	Register: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "registered"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload"),
	),
	Tasks: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "tasks"),
	),
}

// PopupKeyMap defines the task list bindings.
type PopupKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Assign    key.Binding
	ToggleURL key.Binding
	Close     key.Binding
}

// DefaultPopupKeys are the task list bindings.
var DefaultPopupKeys = PopupKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/↓", "move"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	Assign: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "assign"),
	),
	ToggleURL: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "links"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

// InputKeyMap defines the message editor bindings.
type InputKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultInputKeys are the message editor bindings.
var DefaultInputKeys = InputKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}
