package editors

import (
	"loom/internal/global"
	"loom/internal/plan"
)

// RulesStrategy formats rule artifacts for one editor family.
type RulesStrategy interface {
	// RulesDir is the rules directory relative to the project root. Empty
	// for editors that keep every rule in one combined file.
	RulesDir() string
	FileExtension() string
	FormatRule(r Rule) string
}

// CombinedRulesStrategy is implemented by rules strategies whose RulesDir is
// empty: the whole rule set renders into a single file.
type CombinedRulesStrategy interface {
	CombinedFileName() string
	FormatCombined(rules []Rule) string
}

// MCPStrategy formats MCP server configuration for one editor family.
type MCPStrategy interface {
	Supported() bool
	// GlobalOnly reports that the editor stores MCP servers in one shared
	// machine-wide file rather than per project.
	GlobalOnly() bool
	// ConfigPath is the target file: project-relative for per-project
	// editors, under home for global-only ones.
	ConfigPath(root, home string) string
	FormatConfig(servers map[string]ServerConfig) (string, error)
	// ParseGlobalConfig reads the shared file's server map, reporting
	// recoverable oddities as warnings instead of failing.
	ParseGlobalConfig(content []byte) (map[string]ServerConfig, []string)
	// SectionKey is the nested key holding the server map in the shared file.
	SectionKey() string
	// FileFormat is the structured format of the shared file.
	FileFormat() global.Format
}

// SkillsInstallOptions parametrizes a skill installation pass.
type SkillsInstallOptions struct {
	Home string
}

// SkillsStrategy installs skills for one editor family. Exactly two variants
// exist: native (the editor understands a shared skill convention; install
// canonically once and link the editor's skills directory to it) and pointer
// (no native mechanism; install canonically and synthesize one rule per
// skill telling the assistant where to find it).
type SkillsStrategy interface {
	Native() bool
	// SkillsDir is the editor's own skills directory relative to the project
	// root. Empty when the editor has none.
	SkillsDir() string
	InstallSkills(skills []ResolvedSkill, root string, opts SkillsInstallOptions) ([]plan.FileChange, error)
	// SkillRules returns the pointer rules for the skills. Native strategies
	// return none.
	SkillRules(skills []ResolvedSkill) []Rule
}

// PromptsStrategy formats prompt artifacts for one editor family.
type PromptsStrategy interface {
	Supported() bool
	GlobalOnly() bool
	// PromptsDir is relative to the project root, or to home for
	// global-only strategies.
	PromptsDir() string
	FileExtension() string
	FormatPrompt(p Prompt) string
}

// HooksStrategy formats hook configuration for one editor family.
type HooksStrategy interface {
	Supported() bool
	ConfigPath(root string) string
	FormatConfig(hooks HooksConfig) (string, error)
	// UnsupportedEvents lists the input event names this editor cannot
	// translate. The report drives warnings, never failures.
	UnsupportedEvents(hooks HooksConfig) []string
}
