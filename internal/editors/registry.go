package editors

import (
	"fmt"
	"path/filepath"
	"sort"
)

// adapters is the closed set of supported editors. Selection happens by
// name lookup; there is no open-ended plugin dispatch.
var adapters = map[string]*Adapter{
	"claude": {
		Name:      "claude",
		ConfigDir: ".claude",
		Rules:     markdownRules{dir: filepath.Join(".claude", "memories")},
		MCP:       projectJSONMCP{relPath: ".mcp.json", sectionKey: "mcpServers"},
		Skills:    nativeSkills{dir: filepath.Join(".claude", "skills")},
		Prompts:   dirPrompts{dir: filepath.Join(".claude", "commands"), ext: ".md"},
		Hooks:     claudeHooks{relPath: filepath.Join(".claude", "settings.json")},
	},
	"cursor": {
		Name:      "cursor",
		ConfigDir: ".cursor",
		Rules:     mdcRules{dir: filepath.Join(".cursor", "rules")},
		MCP:       projectJSONMCP{relPath: filepath.Join(".cursor", "mcp.json"), sectionKey: "mcpServers"},
		Skills:    pointerSkills{},
		Prompts:   dirPrompts{dir: filepath.Join(".cursor", "commands"), ext: ".md"},
		Hooks:     unsupportedHooks{},
	},
	"codex": {
		Name:      "codex",
		ConfigDir: ".codex",
		Rules:     combinedRules{fileName: "AGENTS.md"},
		MCP:       globalTOMLMCP{homeRelPath: filepath.Join(".codex", "config.toml"), sectionKey: "mcp_servers"},
		Skills:    pointerSkills{},
		Prompts:   globalPrompts{homeRelDir: filepath.Join(".codex", "prompts"), ext: ".md"},
		Hooks:     unsupportedHooks{},
	},
	"windsurf": {
		Name:      "windsurf",
		ConfigDir: ".windsurf",
		Rules:     markdownRules{dir: filepath.Join(".windsurf", "rules")},
		MCP:       globalJSONMCP{homeRelPath: filepath.Join(".codeium", "windsurf", "mcp_config.json"), sectionKey: "mcpServers"},
		Skills:    pointerSkills{},
		Prompts:   unsupportedPrompts{},
		Hooks:     unsupportedHooks{},
	},
	"copilot": {
		Name:      "copilot",
		ConfigDir: ".github",
		Rules:     combinedRules{fileName: filepath.Join(".github", "copilot-instructions.md")},
		MCP:       unsupportedMCP{},
		Skills:    pointerSkills{},
		Prompts:   dirPrompts{dir: filepath.Join(".github", "prompts"), ext: ".prompt.md"},
		Hooks:     unsupportedHooks{},
	},
}

// ForName returns the adapter for an editor name.
func ForName(name string) (*Adapter, error) {
	adapter, ok := adapters[name]
	if !ok {
		return nil, fmt.Errorf("unknown editor %q (supported: %v)", name, Names())
	}
	return adapter, nil
}

// Names lists the supported editor names in sorted order.
func Names() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every adapter in name order.
func All() []*Adapter {
	var out []*Adapter
	for _, name := range Names() {
		out = append(out, adapters[name])
	}
	return out
}
