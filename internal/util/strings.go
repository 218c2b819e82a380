// Package util provides shared helpers used across the codebase.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TruncateANSI truncates a string to maxWidth visual columns, adding "..."
// if truncated. Escape sequences and wide characters are accounted for, so
// styled status lines can be fitted to the terminal width without breaking
// their styling.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation.
	return ansi.Truncate(s, maxWidth, "...")
}

// VisibleWidth returns the number of terminal columns s occupies, ignoring
// escape sequences and counting wide characters as two columns.
func VisibleWidth(s string) int {
	return lipgloss.Width(s)
}
