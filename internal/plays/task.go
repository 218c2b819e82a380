package plays

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/bradjones1/maestro-ng/internal/errors"
	"github.com/bradjones1/maestro-ng/internal/styles"
	"github.com/bradjones1/maestro-ng/internal/termout"
	"github.com/bradjones1/maestro-ng/internal/util"
)

// maxStatusWidth caps the text an action commits to its row so a single
// long status cannot wrap and misalign the block below it.
const maxStatusWidth = 60

// Action is the unit of work a task performs. It receives the formatter
// bound to the task's row and reports progress by committing to it. The
// context is the one passed to [Play.Run]; actions should stop when it is
// canceled.
type Action func(ctx context.Context, f *termout.Formatter) error

// Task is one entry in a play. Name must be unique within the play, and
// DependsOn lists the names of tasks that must complete before this one
// starts. A nil Action completes immediately, which makes a bare task
// usable as an ordering barrier.
type Task struct {
	Name      string
	Service   string
	DependsOn []string
	Action    Action

	formatter *termout.Formatter
	started   time.Time
}

// ExecAction returns an Action that runs command through /bin/sh. The last
// non-blank line of combined output becomes the task's status text; a
// command with no output reports plain "done". On failure the last output
// line is folded into the returned error.
func ExecAction(command string) Action {
	return func(ctx context.Context, f *termout.Formatter) error {
		cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
		out, err := cmd.CombinedOutput()
		if err != nil {
			if line := lastLine(string(out)); line != "" {
				return errors.Wrap(err, line)
			}
			return errors.Wrapf(err, "command %q", command)
		}
		if line := lastLine(string(out)); line != "" {
			return f.Commit(util.TruncateANSI(line, maxStatusWidth))
		}
		return f.Commit(styles.StatusDone.Render("done"))
	}
}

// SleepAction returns an Action that waits for the given duration, then
// reports "done". Cancellation interrupts the wait.
func SleepAction(d time.Duration) Action {
	return func(ctx context.Context, f *termout.Formatter) error {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		return f.Commit(styles.StatusDone.Render("done"))
	}
}

// lastLine returns the last non-blank line of s, trimmed of surrounding
// whitespace.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
