package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskdag/internal/domain"
)

// Colors defines the color palette for the board.
var Colors = struct {
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	Critical      lipgloss.Color

	Todo       lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color
	Blocked    lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Pale yellow
	Critical:      lipgloss.Color("#E17055"), // Orange

	Todo:       lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Done:       lipgloss.Color("#00B894"), // Green
	Blocked:    lipgloss.Color("#D63031"), // Red
}

// Styles contains the lipgloss styles of the board.
type Styles struct {
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderMeta lipgloss.Style

	// Task list
	SelectionIndicator lipgloss.Style
	TaskID             lipgloss.Style
	TaskTitle          lipgloss.Style
	TaskTitleSelected  lipgloss.Style
	CriticalMark       lipgloss.Style
	ReadyMark          lipgloss.Style

	// Status badges
	StatusTodo       lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusDone       lipgloss.Style
	StatusBlocked    lipgloss.Style

	// Detail
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style

	// Messages
	ErrorMsg lipgloss.Style
	Warning  lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		HeaderMeta: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		SelectionIndicator: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected),
		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),
		TaskTitleSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleSelected),
		CriticalMark: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Critical),
		ReadyMark: lipgloss.NewStyle().
			Foreground(Colors.Done),

		StatusTodo:       lipgloss.NewStyle().Foreground(Colors.Todo),
		StatusInProgress: lipgloss.NewStyle().Foreground(Colors.InProgress),
		StatusDone:       lipgloss.NewStyle().Foreground(Colors.Done),
		StatusBlocked:    lipgloss.NewStyle().Foreground(Colors.Blocked),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		DetailLabel: lipgloss.NewStyle().
			Bold(true).
			Width(10),
		DetailValue: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error),
		Warning: lipgloss.NewStyle().
			Foreground(Colors.Warning),
		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusTodo:
		return s.StatusTodo
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusDone:
		return s.StatusDone
	case domain.StatusBlocked:
		return s.StatusBlocked
	default:
		return s.StatusTodo
	}
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusTodo:
		return "○"
	case domain.StatusInProgress:
		return "●"
	case domain.StatusDone:
		return "✓"
	case domain.StatusBlocked:
		return "✗"
	default:
		return "?"
	}
}

// StatusText returns a short label for a given status.
func StatusText(status domain.Status) string {
	switch status {
	case domain.StatusTodo:
		return "todo"
	case domain.StatusInProgress:
		return "doing"
	case domain.StatusDone:
		return "done"
	case domain.StatusBlocked:
		return "block"
	default:
		return string(status)
	}
}
