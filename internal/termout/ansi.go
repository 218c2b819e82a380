package termout

import (
	"fmt"
	"strings"
)

// ANSI control sequences used by the canvas. Only three are needed: relative
// vertical movement in both directions and clear-to-end-of-line.
const (
	// escCursorUp moves the cursor up by the formatted number of rows.
	escCursorUp = "\033[%dA"
	// escCursorDown moves the cursor down by the formatted number of rows.
	escCursorDown = "\033[%dB"
	// escClearLine erases from the cursor to the end of the row.
	escClearLine = "\033[K"
)

// cursorUp returns the sequence moving the cursor up n rows. Terminals
// interpret a zero parameter as one, so n <= 0 yields the empty string.
func cursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(escCursorUp, n)
}

// cursorDown returns the sequence moving the cursor down n rows. As with
// cursorUp, n <= 0 yields the empty string.
func cursorDown(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(escCursorDown, n)
}

var lineSanitizer = strings.NewReplacer("\n", " ", "\r", " ")

// sanitizeLine replaces row-breaking characters with spaces so a rendered
// line can never spill into neighboring rows of the block.
func sanitizeLine(s string) string {
	if !strings.ContainsAny(s, "\n\r") {
		return s
	}
	return lineSanitizer.Replace(s)
}
