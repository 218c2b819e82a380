package util

import (
	"fmt"
	"time"
)

// FormatDuration renders d as compact single-unit status-line text: "42s",
// "3m", "5h", "2d", and "3mo" past thirty days. Values are floored, so a
// task running for 119 seconds reads "1m". Negative durations render as
// the empty string.
func FormatDuration(d time.Duration) string {
	s := int64(d.Seconds())
	switch {
	case s < 0:
		return ""
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 60*60:
		return fmt.Sprintf("%dm", s/60)
	case s < 24*60*60:
		return fmt.Sprintf("%dh", s/60/60)
	case s < 30*24*60*60:
		return fmt.Sprintf("%dd", s/60/60/24)
	default:
		return fmt.Sprintf("%dmo", s/60/60/24/30)
	}
}
