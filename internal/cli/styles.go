package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskdag/internal/domain"
)

// Colors for CLI output.
var (
	colorPrimary   = lipgloss.Color("#6C5CE7") // Purple
	colorMuted     = lipgloss.Color("#636E72") // Gray
	colorError     = lipgloss.Color("#D63031") // Red
	colorWarning   = lipgloss.Color("#FDCB6E") // Yellow
	colorTodo      = lipgloss.Color("#74B9FF") // Light blue
	colorDone      = lipgloss.Color("#00B894") // Green
	colorHighlight = lipgloss.Color("#FFEAA7") // Pale yellow
)

// styles holds lipgloss styles bound to one output writer.
// Colors are dropped when the writer is not a terminal.
type styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Critical lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style

	StatusTodo       lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusDone       lipgloss.Style
	StatusBlocked    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Title:    r.NewStyle().Bold(true).Foreground(colorPrimary),
		Label:    r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(colorMuted),
		Critical: r.NewStyle().Bold(true).Foreground(colorHighlight),
		Error:    r.NewStyle().Foreground(colorError),
		Warning:  r.NewStyle().Foreground(colorWarning),

		StatusTodo:       r.NewStyle().Foreground(colorTodo),
		StatusInProgress: r.NewStyle().Foreground(colorWarning),
		StatusDone:       r.NewStyle().Foreground(colorDone),
		StatusBlocked:    r.NewStyle().Foreground(colorError),
	}
}

// status renders a status badge such as "[in_progress]".
func (s styles) status(st domain.Status) string {
	badge := "[" + string(st) + "]"
	switch st {
	case domain.StatusTodo:
		return s.StatusTodo.Render(badge)
	case domain.StatusInProgress:
		return s.StatusInProgress.Render(badge)
	case domain.StatusDone:
		return s.StatusDone.Render(badge)
	case domain.StatusBlocked:
		return s.StatusBlocked.Render(badge)
	default:
		return badge
	}
}
