// Package termout provides multi-line, concurrently updated terminal output.
//
// A [Canvas] manages a block of contiguous terminal rows whose size is known
// in advance so the screen space can be reserved up front. Each goroutine
// updates its own row through a [Formatter] bound to a fixed position of the
// block; the canvas addresses rows with relative ANSI cursor movement and
// serializes every movement/overwrite/movement unit under one mutex, so
// concurrent writers never corrupt each other's rows or strand the cursor.
//
// A [Formatter] accumulates durable status text with [Formatter.Commit] and
// layers transient decorations over it with [Formatter.Pending]. Formatters
// also work without a canvas, rendering to the row the cursor happens to be
// on, which is how single-line progress output is produced.
//
// The canvas emits escape sequences unconditionally and never inspects the
// terminal; callers decide whether the stream is interactive. Errors surface
// only when the underlying stream write fails, and are never retried.
//
// Usage:
//
//	canvas, _ := termout.NewCanvas(len(tasks), nil)
//	canvas.Start()
//	for i, task := range tasks {
//	    f, _ := canvas.Formatter(i, task.Name)
//	    go func() {
//	        f.Pending("waiting...")
//	        // ... work ...
//	        f.Commit("done")
//	    }()
//	}
//	// ... wait for completion ...
//	canvas.End()
package termout
