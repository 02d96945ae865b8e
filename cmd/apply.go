package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"loom/internal/apply"
	"loom/internal/cli"
	"loom/internal/editors"
	"loom/internal/global"
	"loom/internal/plan"
	"loom/internal/tracker"
	"loom/pkg/logging"
)

// watchDebounce coalesces rapid successive document writes into one run.
const watchDebounce = 500 * time.Millisecond

func newApplyCmd() *cobra.Command {
	var flags runFlags
	var dryRun bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Project the document into editor configurations",
		Long: `Apply reads loom.yaml (plus loom.local.yaml when present), resolves
every referenced skill, rule, and prompt, and writes the per-editor
configuration files. Project files are applied atomically: when any write
fails, files already written in this run are rolled back to their previous
state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			opts := editors.Options{Overwrite: flags.overwrite, Clean: flags.clean}

			if err := runApply(cmd, root, flags, opts, dryRun); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchAndReapply(cmd, root, flags, opts, dryRun)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.clean, "clean", false, "Delete previously generated files the document no longer produces")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without writing anything")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-apply whenever the document changes")
	return cmd
}

func runApply(cmd *cobra.Command, root string, flags runFlags, opts editors.Options, dryRun bool) error {
	printer := newPrinter(cmd)

	var proj *projection
	err := withSpinner("Resolving document...", func() error {
		var err error
		proj, err = buildProjection(cmd.Context(), root, flags, opts)
		return err
	})
	if err != nil {
		return err
	}

	printer.PlanTable(proj.changes)
	printer.GlobalTable(proj.global)

	if dryRun {
		printer.Warnings(proj.warnings)
		return nil
	}

	for _, name := range sortedEditorNames(proj.changes) {
		if err := apply.Apply(proj.changes[name]); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	globalWarnings, err := applyGlobal(proj.global, root, flags.skipGlobal)
	if err != nil {
		return err
	}
	proj.warnings = append(proj.warnings, globalWarnings...)

	printer.Warnings(proj.warnings)
	printer.Summary(cli.CountActions(proj.allChanges()))
	return nil
}

// applyGlobal applies the shared-resource requests with dependency
// tracking. A broken tracking store disables tracking but never blocks the
// apply itself.
func applyGlobal(requests []global.ChangeRequest, root string, skipGlobal bool) ([]string, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	var store *tracker.Store
	if path, err := tracker.DefaultPath(); err != nil {
		logging.Warn("Apply", "dependency tracking disabled: %v", err)
	} else {
		store = tracker.NewStore(path)
	}

	return global.Apply(requests, global.ApplyOptions{
		SkipGlobal:  skipGlobal,
		ProjectRoot: root,
		Store:       store,
	})
}

// watchAndReapply blocks, re-running the apply whenever the document or its
// local override is written. Events are debounced so editors that write in
// several syscalls trigger one run.
func watchAndReapply(cmd *cobra.Command, root string, flags runFlags, opts editors.Options, dryRun bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watching unavailable: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the files: most editors replace files on
	// save, which drops a per-file watch.
	if err := watcher.Add(root); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "watching for document changes, ctrl-c to stop")

	var timer *time.Timer
	runs := make(chan struct{}, 1)
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isDocumentFile(event.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watch", err, "watcher error")
		case <-runs:
			if err := runApply(cmd, root, flags, opts, dryRun); err != nil {
				// Keep watching; a broken intermediate save is normal.
				fmt.Fprintf(cmd.ErrOrStderr(), "apply failed: %v\n", err)
			}
		}
	}
}

func isDocumentFile(path string) bool {
	name := filepath.Base(path)
	switch name {
	case "loom.yaml", "loom.yml", "loom.json",
		"loom.local.yaml", "loom.local.yml", "loom.local.json":
		return true
	}
	return false
}

func sortedEditorNames(changes map[string][]plan.FileChange) []string {
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
