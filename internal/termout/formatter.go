package termout

import "sync"

// Formatter accumulates the status text of a single line and renders it
// through a [Printer]. The prefix given at construction is immutable; the
// committed text starts as the prefix and grows as suffixes are committed.
//
// A Formatter may be shared between goroutines: a task goroutine committing
// progress while a ticker goroutine decorates the line with [Formatter.Pending]
// is the intended usage.
type Formatter struct {
	mu        sync.Mutex
	prefix    string
	committed string
	printer   Printer
}

// NewFormatter returns a Formatter whose committed text starts as prefix,
// rendering through p. A nil p renders to os.Stdout at the cursor row.
func NewFormatter(prefix string, p Printer) *Formatter {
	if p == nil {
		p = NewSinkPrinter(nil)
	}
	return &Formatter{
		prefix:    prefix,
		committed: prefix,
		printer:   p,
	}
}

// Prefix returns the immutable prefix set at construction.
func (f *Formatter) Prefix() string {
	return f.prefix
}

// Committed returns the current committed text.
func (f *Formatter) Committed() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}

// Commit appends suffix to the committed text and renders the result. When
// nothing is committed yet the suffix becomes the committed text; when the
// suffix is empty the committed text is left unchanged (joining would add a
// trailing space) and simply re-rendered.
func (f *Formatter) Commit(suffix string) error {
	f.mu.Lock()
	switch {
	case f.committed == "":
		f.committed = suffix
	case suffix != "":
		f.committed = f.committed + " " + suffix
	}
	s := f.committed
	f.mu.Unlock()

	return f.printer.Print(s)
}

// Refresh re-renders the committed text unchanged. Fresh formatters render
// their prefix; formatters decorated by Pending snap back to durable state.
func (f *Formatter) Refresh() error {
	f.mu.Lock()
	s := f.committed
	f.mu.Unlock()

	return f.printer.Print(s)
}

// Pending renders the committed text with suffix appended, without touching
// committed state. The decoration lives only on screen: any later Commit,
// Refresh, or Reset erases it. An empty suffix renders nothing at all.
func (f *Formatter) Pending(suffix string) error {
	if suffix == "" {
		return nil
	}

	f.mu.Lock()
	s := f.committed
	f.mu.Unlock()

	if s == "" {
		s = suffix
	} else {
		s = s + " " + suffix
	}
	return f.printer.Print(s)
}

// Reset restores the committed text to the prefix and renders it.
func (f *Formatter) Reset() error {
	f.mu.Lock()
	f.committed = f.prefix
	s := f.committed
	f.mu.Unlock()

	return f.printer.Print(s)
}
