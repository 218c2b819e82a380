package termout

// Printer renders one line of already formatted text. A printer is a small
// value capturing where the text lands: NewSinkPrinter renders at whatever
// row the cursor currently occupies, while [Canvas.Formatter] binds printers
// to a fixed row of the canvas block.
type Printer interface {
	// Print renders s as the complete current content of the target row.
	Print(s string) error
}

// sinkPrinter renders directly through a sink at the cursor row: the text,
// clear-to-EOL so shorter text fully covers whatever it replaces, then a
// carriage return parking the cursor at column zero.
type sinkPrinter struct {
	sink Sink
}

// NewSinkPrinter returns a Printer rendering to sink at the cursor row.
// A nil sink means os.Stdout. This is the rendering path for formatters
// that are not bound to a canvas.
func NewSinkPrinter(sink Sink) Printer {
	if sink == nil {
		sink = NewStreamSink(nil)
	}
	return sinkPrinter{sink: sink}
}

func (p sinkPrinter) Print(s string) error {
	if err := p.sink.Write(sanitizeLine(s) + escClearLine + "\r"); err != nil {
		return err
	}
	return p.sink.Flush()
}
