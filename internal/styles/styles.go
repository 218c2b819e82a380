// Package styles centralizes the lipgloss styles used on play status lines
// and CLI output. Colors come from the basic ANSI palette so status lines
// stay readable on 16-color terminals and degrade to plain text when the
// output stream is not a terminal.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Colors
	GreenColor  = lipgloss.Color("2")
	RedColor    = lipgloss.Color("1")
	BlueColor   = lipgloss.Color("6") // cyan
	YellowColor = lipgloss.Color("3")
	MutedColor  = lipgloss.Color("8")

	// Convenience styles for colors
	Green  = lipgloss.NewStyle().Foreground(GreenColor).Bold(true)
	Red    = lipgloss.NewStyle().Foreground(RedColor).Bold(true)
	Blue   = lipgloss.NewStyle().Foreground(BlueColor)
	Yellow = lipgloss.NewStyle().Foreground(YellowColor)
	Muted  = lipgloss.NewStyle().Foreground(MutedColor)

	// Header is the style for the column header row printed above a play's
	// status block.
	Header = lipgloss.NewStyle().Bold(true)

	// Task status styles
	StatusWaiting = Muted
	StatusRunning = Blue
	StatusDone    = Green
	StatusFailed  = Red
	StatusAborted = Red
)

// Condition returns the success style when ok is true and the failure style
// otherwise.
func Condition(ok bool) lipgloss.Style {
	if ok {
		return Green
	}
	return Red
}

// ForceColors makes styles emit ANSI colors even when the output stream is
// not a terminal.
func ForceColors() {
	lipgloss.SetColorProfile(termenv.ANSI)
}

// DisableColors strips all styling from rendered output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
