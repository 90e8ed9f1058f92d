package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/runoshun/taskdag/internal/domain"
)

// KeyMap defines the keybindings of the board.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Detail key.Binding // Show prerequisites and dependents

	// Status
	Todo  key.Binding
	Start key.Binding
	Done  key.Binding
	Block key.Binding

	// View
	CriticalOnly key.Binding
	Refresh      key.Binding
	Help         key.Binding

	// General
	Quit   key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "detail"),
		),
		Todo: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "todo"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "done"),
		),
		Block: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "block"),
		),
		CriticalOnly: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "critical path only"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Detail, k.Start, k.Done, k.CriticalOnly, k.Help, k.Quit}
}

// FullHelp returns keybindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail},            // Navigation
		{k.Todo, k.Start, k.Done, k.Block},  // Status
		{k.CriticalOnly, k.Refresh, k.Help}, // View
		{k.Escape, k.Quit},                  // General
	}
}

// statusKeys maps the status bindings to their target status.
func (k KeyMap) statusKeys() []statusKey {
	return []statusKey{
		{binding: k.Todo, status: domain.StatusTodo},
		{binding: k.Start, status: domain.StatusInProgress},
		{binding: k.Done, status: domain.StatusDone},
		{binding: k.Block, status: domain.StatusBlocked},
	}
}

type statusKey struct {
	binding key.Binding
	status  domain.Status
}
