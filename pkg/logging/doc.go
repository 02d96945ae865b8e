// Package logging provides a structured logging system for loom built on
// Go's standard slog package.
//
// Every log entry carries a subsystem identifier as its first argument, which
// keeps output filterable by area (Merge, Planner, Apply, Tracker, Watch):
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Planner", "planned %d changes for %s", n, editor)
//	logging.Error("Apply", err, "transaction failed, rolled back")
//
// Level filtering happens at the handler, so filtered-out messages cost no
// allocation. The package is safe for concurrent use.
package logging
