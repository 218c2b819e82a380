package termout

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bradjones1/maestro-ng/internal/errors"
)

// Canvas manages a block of contiguous terminal rows below the cursor,
// concurrently updated in place by multiple goroutines. The number of rows
// must be known up front so the screen space can be reserved by [Canvas.Start].
//
// Every escape-sequence unit the canvas emits is serialized under a single
// mutex owned by the canvas, so blocks on distinct sinks never contend and
// writers on one block never interleave.
type Canvas struct {
	mu    sync.Mutex
	sink  Sink
	lines int

	// Formatter bindings indexed by position. Rebinding a position replaces
	// the entry; earlier formatters keep rendering, the newest binding is
	// what Redraw walks.
	table []*Formatter
}

// NewCanvas returns a Canvas managing lines rows, rendering to sink. A nil
// sink means os.Stdout. Lines may be zero, in which case Start and End are
// no-ops and no position is valid.
func NewCanvas(lines int, sink Sink) (*Canvas, error) {
	if lines < 0 {
		return nil, errors.NewValidationError("lines", strconv.Itoa(lines), "must be >= 0")
	}
	if sink == nil {
		sink = NewStreamSink(nil)
	}
	return &Canvas{
		sink:  sink,
		lines: lines,
		table: make([]*Formatter, lines),
	}, nil
}

// Lines returns the number of rows the canvas manages.
func (c *Canvas) Lines() int {
	return c.lines
}

// Start reserves screen space for the block: it scrolls out as many rows as
// the canvas manages, then moves the cursor back up to the first of them.
// The net cursor row movement is zero, with the cursor parked on the block's
// first row at column zero.
func (c *Canvas) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lines == 0 {
		return nil
	}
	return c.emit(strings.Repeat("\n", c.lines) + cursorUp(c.lines))
}

// End releases the block: it moves the cursor down past the last row so
// subsequent terminal output continues below everything the canvas rendered.
// Formatters remain usable afterwards, but their rows are no longer where
// they were, so rendering after End garbles output from whoever owns the
// cursor next.
func (c *Canvas) End() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lines == 0 {
		return nil
	}
	return c.emit(cursorDown(c.lines))
}

// Formatter allocates a line formatter bound to the given row of the block.
// Position 0 is the row the cursor parks on after Start; lines-1 is the
// bottom row. Binding a position twice replaces the earlier binding; both
// formatters stay usable and the last writer wins on screen.
func (c *Canvas) Formatter(position int, prefix string) (*Formatter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position < 0 || position >= c.lines {
		return nil, errors.Wrapf(errors.ErrPositionOutOfRange,
			"position %d with %d lines", position, c.lines)
	}

	f := NewFormatter(prefix, linePrinter{canvas: c, position: position})
	c.table[position] = f
	return f, nil
}

// Redraw re-renders the committed text of every bound formatter, restoring
// the block after stray output has corrupted it.
func (c *Canvas) Redraw() error {
	c.mu.Lock()
	bound := make([]*Formatter, 0, len(c.table))
	for _, f := range c.table {
		if f != nil {
			bound = append(bound, f)
		}
	}
	c.mu.Unlock()

	for _, f := range bound {
		if err := f.Refresh(); err != nil {
			return err
		}
	}
	return nil
}

// write renders s as the full content of the block row at position. The
// whole unit happens under the canvas mutex as a single sink write:
//
//	ESC [ P B          move down to the row (positions > 0)
//	\r s ESC [ K \r    overwrite the row, clear what it doesn't cover
//	ESC [ P A          move back up to the park row (positions > 0)
//
// Interleaving any two units would strand the cursor on the wrong row, so
// the mutex must cover all three steps and the flush.
func (c *Canvas) write(s string, position int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	if position > 0 {
		b.WriteString(cursorDown(position))
	}
	b.WriteString("\r")
	b.WriteString(sanitizeLine(s))
	b.WriteString(escClearLine)
	b.WriteString("\r")
	if position > 0 {
		b.WriteString(cursorUp(position))
	}

	if err := c.emit(b.String()); err != nil {
		return errors.NewRenderError(position, err)
	}
	return nil
}

// emit pushes one complete unit to the sink and flushes. Callers hold c.mu.
func (c *Canvas) emit(unit string) error {
	if err := c.sink.Write(unit); err != nil {
		return err
	}
	return c.sink.Flush()
}

// linePrinter is the write capability handed to formatters: a value pairing
// the canvas with one row of its block.
type linePrinter struct {
	canvas   *Canvas
	position int
}

func (p linePrinter) Print(s string) error {
	return p.canvas.write(s, p.position)
}
