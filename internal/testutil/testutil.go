// Package testutil provides testing utilities for maestro-ng tests.
package testutil

import (
	"os/exec"
	"strings"
	"sync"
	"testing"
)

// CaptureSink records every write handed to it so tests can make byte-exact
// assertions about emitted escape-sequence units. It satisfies termout.Sink
// and is safe for concurrent use.
type CaptureSink struct {
	mu      sync.Mutex
	writes  []string
	flushes int
	failErr error
}

// Write records text, or fails with the error set by FailWith.
func (s *CaptureSink) Write(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	s.writes = append(s.writes, text)
	return nil
}

// Flush counts flushes, or fails with the error set by FailWith.
func (s *CaptureSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	s.flushes++
	return nil
}

// FailWith makes every subsequent Write and Flush return err.
func (s *CaptureSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Writes returns a copy of the recorded writes, one element per Sink.Write.
func (s *CaptureSink) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

// Output returns all recorded writes concatenated in order.
func (s *CaptureSink) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.writes, "")
}

// Flushes returns the number of Flush calls recorded.
func (s *CaptureSink) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// SkipIfNoGolangciLint skips the test if golangci-lint is not installed.
func SkipIfNoGolangciLint(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}
}

// SkipIfNoShell skips the test if /bin/sh is not available, which is where
// shell-backed task actions run.
func SkipIfNoShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("/bin/sh"); err != nil {
		t.Skip("/bin/sh not found, skipping test")
	}
}
