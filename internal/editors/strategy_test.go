package editors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMdcRules_Frontmatter(t *testing.T) {
	s := mdcRules{dir: ".cursor/rules"}
	got := s.FormatRule(Rule{
		Name:        "style",
		Content:     "Be terse.",
		Description: "style guide",
		Globs:       []string{"**/*.go", "**/*.md"},
		AlwaysApply: true,
	})

	assert.True(t, strings.HasPrefix(got, "---\n"))
	assert.Contains(t, got, "description: style guide\n")
	assert.Contains(t, got, "globs: **/*.go,**/*.md\n")
	assert.Contains(t, got, "alwaysApply: true\n")
	assert.True(t, strings.HasSuffix(got, "Be terse.\n"))
}

func TestCombinedRules_NameOrderedSections(t *testing.T) {
	s := combinedRules{fileName: "AGENTS.md"}
	got := s.FormatCombined([]Rule{
		{Name: "zebra", Content: "Z rule"},
		{Name: "alpha", Content: "A rule"},
	})

	alphaIdx := strings.Index(got, "## alpha")
	zebraIdx := strings.Index(got, "## zebra")
	require.GreaterOrEqual(t, alphaIdx, 0)
	require.Greater(t, zebraIdx, alphaIdx)
}

func TestDirPrompts_DescriptionFrontmatter(t *testing.T) {
	s := dirPrompts{dir: ".claude/commands", ext: ".md"}

	withDesc := s.FormatPrompt(Prompt{Name: "review", Content: "Review.", Description: "code review"})
	assert.Contains(t, withDesc, "description: code review")

	without := s.FormatPrompt(Prompt{Name: "review", Content: "Review."})
	assert.Equal(t, "Review.\n", without)
}

func TestProjectJSONMCP_FormatAndParse(t *testing.T) {
	s := projectJSONMCP{relPath: ".mcp.json", sectionKey: "mcpServers"}

	content, err := s.FormatConfig(map[string]ServerConfig{
		"github": {"command": "npx", "args": []interface{}{"-y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "npx", gjson.Get(content, "mcpServers.github.command").String())

	parsed, warnings := s.ParseGlobalConfig([]byte(content))
	assert.Empty(t, warnings)
	require.Contains(t, parsed, "github")
	assert.Equal(t, "npx", parsed["github"]["command"])
}

func TestProjectJSONMCP_ParseWarnings(t *testing.T) {
	s := projectJSONMCP{relPath: ".mcp.json", sectionKey: "mcpServers"}

	_, warnings := s.ParseGlobalConfig([]byte("{bad"))
	require.Len(t, warnings, 1)

	parsed, warnings := s.ParseGlobalConfig([]byte(`{"mcpServers":{"odd":"not-an-object","ok":{"command":"x"}}}`))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "odd")
	assert.Contains(t, parsed, "ok")
	assert.NotContains(t, parsed, "odd")
}

func TestGlobalTOMLMCP_FormatAndParse(t *testing.T) {
	s := globalTOMLMCP{homeRelPath: ".codex/config.toml", sectionKey: "mcp_servers"}

	content, err := s.FormatConfig(map[string]ServerConfig{"github": {"command": "npx"}})
	require.NoError(t, err)
	assert.Contains(t, content, "[mcp_servers.github]")

	parsed, warnings := s.ParseGlobalConfig([]byte(content))
	assert.Empty(t, warnings)
	require.Contains(t, parsed, "github")
	assert.Equal(t, "npx", parsed["github"]["command"])
}

func TestClaudeHooks_FormatConfig(t *testing.T) {
	s := claudeHooks{relPath: ".claude/settings.json"}
	content, err := s.FormatConfig(HooksConfig{
		EventBeforeShell: {{Command: "./lint.sh", Timeout: 30}},
		EventStop:        {{Command: "./done.sh"}},
	})
	require.NoError(t, err)

	pre := gjson.Get(content, "hooks.PreToolUse")
	require.True(t, pre.IsArray())
	assert.Equal(t, "Bash", pre.Get("0.matcher").String())
	assert.Equal(t, "./lint.sh", pre.Get("0.hooks.0.command").String())
	assert.Equal(t, int64(30), pre.Get("0.hooks.0.timeout").Int())

	stop := gjson.Get(content, "hooks.Stop.0")
	assert.False(t, stop.Get("matcher").Exists(), "stop has no matcher")
	assert.Equal(t, "./done.sh", stop.Get("hooks.0.command").String())
}

func TestClaudeHooks_UnsupportedEvents(t *testing.T) {
	s := claudeHooks{relPath: ".claude/settings.json"}
	missing := s.UnsupportedEvents(HooksConfig{
		EventBeforeShell: {{Command: "x"}},
		"on-deploy":      {{Command: "y"}},
		"before-commit":  {{Command: "z"}},
	})
	assert.Equal(t, []string{"before-commit", "on-deploy"}, missing)
}

func TestUnsupportedHooks_ReportsEverything(t *testing.T) {
	s := unsupportedHooks{}
	assert.False(t, s.Supported())
	assert.Equal(t, []string{"stop"}, s.UnsupportedEvents(HooksConfig{"stop": {{Command: "x"}}}))
}
