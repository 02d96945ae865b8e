package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"loom/internal/cli"
	"loom/internal/detect"
	"loom/internal/document"
	"loom/internal/editors"
	"loom/internal/global"
	"loom/internal/loader"
	"loom/internal/plan"
	"loom/pkg/logging"
)

// runFlags carries the projection flags shared by apply, plan, and clean.
type runFlags struct {
	editors    []string
	scopes     []string
	overwrite  bool
	clean      bool
	skipGlobal bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.editors, "editors", "e", nil, "Editors to project into (default: document, then detected)")
	cmd.Flags().StringSliceVarP(&f.scopes, "scopes", "s", nil, "Sections to project (skills, mcp, rules, prompts, hooks)")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Replace merge-managed config files instead of merging")
	cmd.Flags().BoolVar(&f.skipGlobal, "skip-global", false, "Skip all changes to user-level shared files")
}

// projection is the computed plan for one run across all selected editors.
type projection struct {
	root     string
	changes  map[string][]plan.FileChange
	global   []global.ChangeRequest
	warnings []string
}

func (p *projection) allChanges() []plan.FileChange {
	names := make([]string, 0, len(p.changes))
	for name := range p.changes {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []plan.FileChange
	for _, name := range names {
		out = append(out, p.changes[name]...)
	}
	return out
}

// buildProjection loads the document and computes the full change plan for
// every selected editor. Nothing on disk is modified.
func buildProjection(ctx context.Context, root string, flags runFlags, opts editors.Options) (*projection, error) {
	doc, err := document.LoadWithOverride(root)
	if err != nil {
		return nil, err
	}
	if err := (document.StructuralValidator{}).Validate(doc); err != nil {
		return nil, err
	}

	names, err := selectEditors(ctx, doc, root, flags.editors)
	if err != nil {
		return nil, err
	}
	scopes, err := parseScopes(flags.scopes)
	if err != nil {
		return nil, err
	}

	ldr := &loader.FileLoader{Base: root}
	result := &projection{root: root, changes: map[string][]plan.FileChange{}}
	for _, name := range names {
		adapter, err := editors.ForName(name)
		if err != nil {
			return nil, err
		}
		cfg, err := adapter.GenerateConfig(ctx, doc, root, ldr, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		planned, err := adapter.PlanChanges(cfg, root, scopes, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		result.changes[name] = planned.Changes
		result.global = append(result.global, planned.Global...)
		result.warnings = append(result.warnings, planned.Warnings...)
	}
	return result, nil
}

// selectEditors resolves the editor set for a run. Precedence: the --editors
// flag, then the document's editors section, then editors detected on this
// machine, then every supported editor.
func selectEditors(ctx context.Context, doc document.Document, root string, flag []string) ([]string, error) {
	if len(flag) > 0 {
		for _, name := range flag {
			if _, err := editors.ForName(name); err != nil {
				return nil, err
			}
		}
		return flag, nil
	}

	if section, ok := doc[document.SectionEditors]; ok {
		var names []string
		for name, item := range section {
			if item.IsDeleted() {
				continue
			}
			if _, err := editors.ForName(name); err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		if len(names) > 0 {
			sort.Strings(names)
			return names, nil
		}
	}

	detected, err := detect.InstalledNames(ctx, root, "")
	if err != nil {
		return nil, err
	}
	if len(detected) > 0 {
		logging.Info("Run", "no editors configured, using detected: %v", detected)
		return detected, nil
	}
	return editors.Names(), nil
}

func parseScopes(raw []string) ([]document.Section, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	valid := map[document.Section]bool{}
	for _, s := range document.Sections() {
		valid[s] = true
	}
	var scopes []document.Section
	for _, s := range raw {
		section := document.Section(s)
		if !valid[section] || section == document.SectionEditors {
			return nil, fmt.Errorf("unknown scope %q (valid: skills, mcp, rules, prompts, hooks)", s)
		}
		scopes = append(scopes, section)
	}
	return scopes, nil
}

// withSpinner runs fn behind a progress spinner when stdout is a terminal.
func withSpinner(message string, fn func() error) error {
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}

func projectRoot() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not determine working directory: %w", err)
	}
	return root, nil
}

func newPrinter(cmd *cobra.Command) *cli.Printer {
	return cli.NewPrinter(cmd.OutOrStdout(), !noColorFlag)
}
