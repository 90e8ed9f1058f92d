// Package tui provides the interactive project board for taskdag.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal Mode = iota // Task list navigation
	ModeDetail             // Task detail view
	ModeHelp               // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDetail:
		return "detail"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}
