package plays

import (
	"time"

	"github.com/bradjones1/maestro-ng/internal/logging"
	"github.com/bradjones1/maestro-ng/internal/termout"
)

// playConfig holds optional configuration for a Play.
type playConfig struct {
	sink         termout.Sink
	logger       *logging.Logger
	concurrency  int
	width        int
	tickInterval time.Duration
	reverse      bool
	ignoreDeps   bool
	noHeader     bool
}

// Option configures a Play.
type Option func(*playConfig)

// WithSink directs rendering to the given sink instead of stdout.
func WithSink(s termout.Sink) Option {
	return func(c *playConfig) { c.sink = s }
}

// WithLogger sets the logger for play and task lifecycle events.
// If unset, logging is disabled.
func WithLogger(l *logging.Logger) Option {
	return func(c *playConfig) { c.logger = l }
}

// WithConcurrency caps how many tasks execute at once. A value of 0 means
// unlimited.
func WithConcurrency(n int) Option {
	return func(c *playConfig) { c.concurrency = n }
}

// WithWidth constrains status rows to the given terminal width.
// A value of 0 disables truncation.
func WithWidth(w int) Option {
	return func(c *playConfig) { c.width = w }
}

// WithTickInterval sets how often running tasks refresh their elapsed
// time. A value of 0 disables the refresh. The default is one second.
func WithTickInterval(d time.Duration) Option {
	return func(c *playConfig) { c.tickInterval = d }
}

// WithReverse inverts every dependency edge, so tasks run in the opposite
// order. Stop plays use this to tear a service down before the things it
// depends on.
func WithReverse() Option {
	return func(c *playConfig) { c.reverse = true }
}

// WithIgnoreDependencies starts every task immediately, subject only to
// the concurrency cap.
func WithIgnoreDependencies() Option {
	return func(c *playConfig) { c.ignoreDeps = true }
}

// WithoutHeader suppresses the column header row above the status block.
func WithoutHeader() Option {
	return func(c *playConfig) { c.noHeader = true }
}
