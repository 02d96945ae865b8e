package editors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"loom/internal/document"
	"loom/internal/global"
	"loom/internal/plan"
	"loom/pkg/logging"
)

// PlanChanges diffs the resolved editor configuration against the on-disk
// state of root and produces the change list, the global change requests,
// and the warnings for this editor. Nothing is written; the result carries
// the exact post-merge content for every file, so a dry run is just a plan
// that is never applied.
func (a *Adapter) PlanChanges(cfg *EditorConfig, root string, scopes []document.Section, opts Options) (*PlanResult, error) {
	home, err := resolveHome(opts)
	if err != nil {
		return nil, err
	}
	if len(scopes) == 0 {
		scopes = document.Sections()
	}

	result := &PlanResult{Warnings: append([]string{}, cfg.Warnings...)}
	for _, scope := range scopes {
		switch scope {
		case document.SectionRules:
			if err := a.planRules(cfg, root, opts, result); err != nil {
				return nil, err
			}
		case document.SectionPrompts:
			if err := a.planPrompts(cfg, root, home, result); err != nil {
				return nil, err
			}
		case document.SectionMCP:
			if err := a.planMCP(cfg, root, home, opts, result); err != nil {
				return nil, err
			}
		case document.SectionHooks:
			if err := a.planHooks(cfg, root, opts, result); err != nil {
				return nil, err
			}
		case document.SectionSkills:
			result.Changes = append(result.Changes, cfg.SkillChanges...)
		}
	}

	if opts.Clean {
		deletes := a.planClean(root, result.Changes)
		result.Changes = append(deletes, result.Changes...)
	}

	logging.Debug("Planner", "%s: %d changes, %d global requests, %d warnings",
		a.Name, len(result.Changes), len(result.Global), len(result.Warnings))
	return result, nil
}

func (a *Adapter) planRules(cfg *EditorConfig, root string, opts Options, result *PlanResult) error {
	if a.Rules.RulesDir() == "" {
		combined, ok := a.Rules.(CombinedRulesStrategy)
		if !ok {
			return fmt.Errorf("%s: rules strategy has no directory and no combined file", a.Name)
		}
		path := filepath.Join(root, combined.CombinedFileName())
		if len(cfg.Rules) == 0 {
			// The combined file is wholly generated; clean mode removes it
			// when no rules remain. planClean cannot, because the file does
			// not live in a directory this adapter owns.
			if opts.Clean {
				result.Changes = append(result.Changes, plan.Delete(path, "rule"))
			}
			return nil
		}
		change, err := plan.Classify(path, combined.FormatCombined(cfg.Rules), "rule")
		if err != nil {
			return err
		}
		result.Changes = append(result.Changes, change)
		return nil
	}

	if len(cfg.Rules) == 0 {
		return nil
	}
	for _, rule := range cfg.Rules {
		path := filepath.Join(root, a.Rules.RulesDir(), rule.Name+a.Rules.FileExtension())
		change, err := plan.Classify(path, a.Rules.FormatRule(rule), "rule")
		if err != nil {
			return err
		}
		result.Changes = append(result.Changes, change)
	}
	return nil
}

func (a *Adapter) planPrompts(cfg *EditorConfig, root, home string, result *PlanResult) error {
	if len(cfg.Prompts) == 0 {
		return nil
	}
	if !a.Prompts.Supported() {
		result.Warnings = append(result.Warnings, warningPrefix(a.Name, "prompts are not supported, skipping"))
		return nil
	}

	if a.Prompts.GlobalOnly() {
		items := make(map[string]string, len(cfg.Prompts))
		for _, p := range cfg.Prompts {
			items[p.Name] = a.Prompts.FormatPrompt(p)
		}
		dir := filepath.Join(home, a.Prompts.PromptsDir())
		requests, warnings := global.AnalyzeFiles(a.Name, dir, a.Prompts.FileExtension(), global.ResourcePrompt, items)
		result.Global = append(result.Global, requests...)
		result.Warnings = append(result.Warnings, warnings...)
		return nil
	}

	for _, p := range cfg.Prompts {
		path := filepath.Join(root, a.Prompts.PromptsDir(), p.Name+a.Prompts.FileExtension())
		change, err := plan.Classify(path, a.Prompts.FormatPrompt(p), "prompt")
		if err != nil {
			return err
		}
		result.Changes = append(result.Changes, change)
	}
	return nil
}

func (a *Adapter) planMCP(cfg *EditorConfig, root, home string, opts Options, result *PlanResult) error {
	if len(cfg.MCP) == 0 {
		return nil
	}
	if !a.MCP.Supported() {
		result.Warnings = append(result.Warnings, warningPrefix(a.Name, "mcp servers are not supported, skipping"))
		return nil
	}

	if a.MCP.GlobalOnly() {
		items := make(map[string]map[string]interface{}, len(cfg.MCP))
		for name, server := range cfg.MCP {
			items[name] = map[string]interface{}(server)
		}
		path := a.MCP.ConfigPath(root, home)
		existing := a.readGlobalServers(path, result)
		requests, warnings := global.Analyze(a.Name, path, a.MCP.FileFormat(), a.MCP.SectionKey(), global.ResourceMCP, existing, items)
		result.Global = append(result.Global, requests...)
		result.Warnings = append(result.Warnings, warnings...)
		return nil
	}

	content, err := a.MCP.FormatConfig(cfg.MCP)
	if err != nil {
		return err
	}
	var desired map[string]interface{}
	if err := json.Unmarshal([]byte(content), &desired); err != nil {
		return fmt.Errorf("%s: mcp config is not valid JSON: %w", a.Name, err)
	}
	change, err := plan.ClassifyJSON(a.MCP.ConfigPath(root, home), desired, opts.Overwrite, document.ServerReplaceResolver(), "mcp")
	if err != nil {
		return err
	}
	result.Changes = append(result.Changes, change)
	return nil
}

// readGlobalServers parses the shared machine-wide server file through the
// strategy, surfacing per-entry parse warnings on the result. A missing or
// unparsable file reads as empty, so every desired entry classifies as add.
func (a *Adapter) readGlobalServers(path string, result *PlanResult) map[string]map[string]interface{} {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			result.Warnings = append(result.Warnings, warningPrefix(a.Name,
				fmt.Sprintf("failed to read %s: %v", path, err)))
		}
		return nil
	}

	parsed, parseWarnings := a.MCP.ParseGlobalConfig(data)
	for _, w := range parseWarnings {
		result.Warnings = append(result.Warnings, warningPrefix(a.Name, w))
	}

	existing := make(map[string]map[string]interface{}, len(parsed))
	for name, server := range parsed {
		existing[name] = map[string]interface{}(server)
	}
	return existing
}

func (a *Adapter) planHooks(cfg *EditorConfig, root string, opts Options, result *PlanResult) error {
	if len(cfg.Hooks) == 0 {
		return nil
	}
	if !a.Hooks.Supported() {
		result.Warnings = append(result.Warnings, warningPrefix(a.Name, "hooks are not supported, skipping"))
		return nil
	}

	if missing := a.Hooks.UnsupportedEvents(cfg.Hooks); len(missing) > 0 {
		result.Warnings = append(result.Warnings, warningPrefix(a.Name,
			fmt.Sprintf("hook events not supported: %s", strings.Join(missing, ", "))))
	}

	content, err := a.Hooks.FormatConfig(cfg.Hooks)
	if err != nil {
		return err
	}
	var desired map[string]interface{}
	if err := json.Unmarshal([]byte(content), &desired); err != nil {
		return fmt.Errorf("%s: hooks config is not valid JSON: %w", a.Name, err)
	}
	change, err := plan.ClassifyJSON(a.Hooks.ConfigPath(root), desired, opts.Overwrite, nil, "hooks")
	if err != nil {
		return err
	}
	result.Changes = append(result.Changes, change)
	return nil
}

// planClean walks the editor's managed output directories and plans a delete
// for every file the current document no longer produces, so the post-apply
// state exactly matches the declarative document. The scratch subtree is
// always preserved.
func (a *Adapter) planClean(root string, planned []plan.FileChange) []plan.FileChange {
	desired := make(map[string]bool, len(planned))
	for _, c := range planned {
		desired[c.Path] = true
	}

	var deletes []plan.FileChange
	for _, dir := range a.managedDirs(root) {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if d.Name() == ScratchDir {
					return filepath.SkipDir
				}
				return nil
			}
			if !desired[path] {
				deletes = append(deletes, plan.Delete(path, "clean"))
			}
			return nil
		})
	}
	sort.Slice(deletes, func(i, j int) bool { return deletes[i].Path < deletes[j].Path })
	return deletes
}

// managedDirs lists the project-local directories this adapter owns
// entirely. Shared files (mcp/hooks configs) are merge-managed, never
// cleaned.
func (a *Adapter) managedDirs(root string) []string {
	var dirs []string
	if d := a.Rules.RulesDir(); d != "" {
		dirs = append(dirs, filepath.Join(root, d))
	}
	if a.Prompts.Supported() && !a.Prompts.GlobalOnly() {
		dirs = append(dirs, filepath.Join(root, a.Prompts.PromptsDir()))
	}
	if d := a.Skills.SkillsDir(); d != "" {
		dirs = append(dirs, filepath.Join(root, d))
	}
	return dirs
}
