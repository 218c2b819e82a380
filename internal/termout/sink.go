package termout

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/bradjones1/maestro-ng/internal/errors"
)

// Flusher is implemented by buffered writers such as bufio.Writer.
type Flusher interface {
	Flush() error
}

// Sink is the byte stream that canvases and formatters render to. Write
// receives complete escape-sequence units and must hand them to the stream
// as-is; Flush pushes buffered bytes out so the terminal never sits on a
// half-rendered block.
//
// Implementations are not required to be safe for concurrent use. A Canvas
// serializes every access to its sink under its own mutex.
type Sink interface {
	// Write appends s to the stream.
	Write(s string) error
	// Flush forces buffered output to the terminal.
	Flush() error
}

// streamSink adapts an io.Writer into a Sink. Flush is forwarded when the
// writer buffers; for unbuffered writers like os.Stdout every Write already
// reaches the stream and Flush is a no-op.
type streamSink struct {
	w io.Writer
}

// NewStreamSink returns a Sink writing to w. A nil w means os.Stdout.
func NewStreamSink(w io.Writer) Sink {
	if w == nil {
		w = os.Stdout
	}
	return &streamSink{w: w}
}

func (s *streamSink) Write(text string) error {
	if _, err := io.WriteString(s.w, text); err != nil {
		return errors.Wrap(err, "write to output stream")
	}
	return nil
}

func (s *streamSink) Flush() error {
	if f, ok := s.w.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "flush output stream")
		}
	}
	return nil
}

// plainSink renders each row update as one plain text line: escape
// sequences are stripped and empty updates (cursor movement only, such
// as the rows reserved by Start) are dropped.
type plainSink struct {
	w io.Writer
}

// NewPlainSink returns a Sink that turns the canvas's in-place updates
// into a sequential log, one line per update, with all ANSI escape
// sequences removed. Use it when the output stream is not a terminal,
// where cursor movement has no meaning. A nil w means os.Stdout.
func NewPlainSink(w io.Writer) Sink {
	if w == nil {
		w = os.Stdout
	}
	return &plainSink{w: w}
}

func (s *plainSink) Write(text string) error {
	line := ansi.Strip(text)
	line = strings.NewReplacer("\r", "", "\n", "").Replace(line)
	line = strings.TrimRight(line, " ")
	if line == "" {
		return nil
	}
	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return errors.Wrap(err, "write to output stream")
	}
	return nil
}

func (s *plainSink) Flush() error {
	if f, ok := s.w.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "flush output stream")
		}
	}
	return nil
}
