// Package logging provides structured logging for triage.
//
// Log records are JSON lines written by log/slog to triage.log inside the
// state directory. The file is size-rotated by [RotatingWriter] so that a
// long-lived TUI session cannot grow it without bound.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(stateDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("task added", "task_id", "t3")
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	runLogger := logger.WithComponent("analysis").WithRun(runID)
//	runLogger.Info("analysis succeeded", "count", 5)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"analysis succeeded","component":"analysis","run_id":"...","count":5}
//
// # Reading Logs Back
//
// [ReadEntries] parses the log file (skipping corrupt lines) and
// [FilterEntries] narrows it by level, component, run id, or time. The
// "triage logs" command is built on these.
//
// # Testing
//
// Use [NopLogger] to discard output.
package logging
