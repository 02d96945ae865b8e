package editors

import (
	"loom/internal/global"
	"loom/internal/plan"
)

// Rule is one resolved instruction document for an editor.
type Rule struct {
	Name        string
	Content     string
	Description string
	Globs       []string
	AlwaysApply bool
}

// Prompt is one resolved reusable prompt.
type Prompt struct {
	Name        string
	Content     string
	Description string
}

// ServerConfig is one MCP server definition. The core treats definitions as
// opaque JSON objects; their schema belongs to the editors.
type ServerConfig map[string]interface{}

// HookAction is one command bound to a generic hook event.
type HookAction struct {
	Command string
	Matcher string
	Timeout int
}

// HooksConfig maps generic event names (before-shell, after-edit,
// session-start, stop) to the actions that fire on them. Each editor's hook
// strategy translates the generic names into its own event identifiers and
// reports the ones it cannot express.
type HooksConfig map[string][]HookAction

// ResolvedSkill is a skill whose content has already been loaded.
type ResolvedSkill struct {
	Name        string
	Description string
	Content     string
	SourcePath  string
	// InstallPath is the skill's directory under the canonical shared tree.
	InstallPath string
}

// EditorConfig is the adapter's resolved view of a document: all content
// loaded, sentinels filtered, skill installation already planned. It is
// built fresh per GenerateConfig call and discarded after apply.
type EditorConfig struct {
	Rules        []Rule
	Prompts      []Prompt
	MCP          map[string]ServerConfig
	Hooks        HooksConfig
	SkillChanges []plan.FileChange
	Warnings     []string
}

// Options controls a single generate/plan/apply pass.
type Options struct {
	// Home is the base directory for canonical skill installs and global
	// files. Defaults to the user's home directory when empty.
	Home string
	// Overwrite replaces JSON artifacts wholesale instead of merging with
	// their on-disk content.
	Overwrite bool
	// Clean deletes previously generated files that the current document no
	// longer produces.
	Clean bool
}

// PlanResult is the outcome of planning one editor.
type PlanResult struct {
	Changes  []plan.FileChange
	Global   []global.ChangeRequest
	Warnings []string
}

// ScratchDir is the subtree inside managed directories that clean mode must
// preserve.
const ScratchDir = ".loom-tmp"
