package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/apply"
	"loom/internal/cli"
	"loom/internal/document"
	"loom/internal/editors"
	"loom/internal/plan"
	"loom/internal/tracker"
	"loom/pkg/logging"
)

func newCleanCmd() *cobra.Command {
	var editorFlags []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove every generated editor configuration from this project",
		Long: `Clean deletes the files loom generated in this project and drops the
project from the global dependency tracking store. User-level shared files
are left in place; entries there that no other project references are
reported so they can be removed by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			printer := newPrinter(cmd)

			names := editorFlags
			if len(names) == 0 {
				names = editors.Names()
			}

			changes := map[string][]plan.FileChange{}
			for _, name := range names {
				adapter, err := editors.ForName(name)
				if err != nil {
					return err
				}
				// An empty configuration plus clean mode plans a delete for
				// every managed file.
				planned, err := adapter.PlanChanges(&editors.EditorConfig{}, root, []document.Section{document.SectionRules}, editors.Options{Clean: true})
				if err != nil {
					return err
				}
				changes[name] = planned.Changes
			}

			printer.PlanTable(changes)
			if dryRun {
				return nil
			}

			for _, name := range names {
				if err := apply.Apply(changes[name]); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}

			untrackProject(cmd, root)
			printer.Summary(cli.CountActions(flatten(changes)))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&editorFlags, "editors", "e", nil, "Editors to clean (default: all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without deleting")
	return cmd
}

// untrackProject removes this project from every tracking entry and reports
// shared resources that became unreferenced.
func untrackProject(cmd *cobra.Command, root string) {
	path, err := tracker.DefaultPath()
	if err != nil {
		logging.Warn("Clean", "tracking store unavailable: %v", err)
		return
	}
	store := tracker.NewStore(path)

	for _, entry := range store.ProjectEntries(root) {
		if err := store.RemoveProject(entry.Editor, entry.Type, entry.Name, root); err != nil {
			logging.Warn("Clean", "failed to untrack %s/%s %q: %v", entry.Editor, entry.Type, entry.Name, err)
			continue
		}
		if _, still := store.Get(entry.Editor, entry.Type, entry.Name); !still {
			fmt.Fprintf(cmd.OutOrStdout(), "global %s %q (%s) is no longer used by any project\n",
				entry.Type, entry.Name, entry.Editor)
		}
	}
}

func flatten(changes map[string][]plan.FileChange) []plan.FileChange {
	var out []plan.FileChange
	for _, name := range sortedEditorNames(changes) {
		out = append(out, changes[name]...)
	}
	return out
}
