// Package logging provides structured logging for maestro-ng.
//
// This package wraps Go's log/slog to produce JSON-formatted logs. Logs are
// written to a file, never to the terminal stream the status renderer draws
// on: a log line landing in the middle of a status block would tear it.
// With no file configured, logs fall back to stderr, which is safe to
// redirect away from the rendered output.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Persistent context attributes (play and task names)
//   - Size-based log rotation with optional gzip compression
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. [Logger] relies on
// slog's concurrency guarantees, and [RotatingWriter] serializes file
// operations with a mutex. Child loggers created via With* methods share
// the underlying writer safely.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/maestro.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("play started", "tasks", 5)
//	logger.Error("task failed", "err", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent attributes:
//
//	playLogger := logger.WithPlay("start")
//	taskLogger := playLogger.WithTask("web-1")
//	taskLogger.Info("task finished", "elapsed", "3s")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task finished","play":"start","task":"web-1","elapsed":"3s"}
//
// # Testing
//
// Use [NopLogger] to discard all output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger without creating files
//	}
package logging
