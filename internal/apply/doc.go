// Package apply executes planned file changes as a single sequential
// transaction with snapshot-based rollback.
//
// Each mutation captures a pre-image first (the prior file content, or the
// fact that the file did not exist). On any failure the applier replays the
// captured pre-images, restoring every already-touched path, then returns
// the original error. Rollback itself is best-effort: a failed restore is
// logged, never compounded into a second failure.
package apply
