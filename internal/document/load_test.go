package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "loom.yaml", `
mcp:
  github:
    command: npx
    args: ["-y", "@modelcontextprotocol/server-github"]
  retired: false
rules:
  style: ./rules/style.md
`)

	doc, err := Load(path)
	require.NoError(t, err)

	require.Contains(t, doc, SectionMCP)
	assert.Equal(t, ItemObject, doc[SectionMCP]["github"].Kind())
	assert.True(t, doc[SectionMCP]["retired"].IsDeleted())
	assert.Equal(t, "./rules/style.md", doc[SectionRules]["style"].Shorthand())
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "loom.json", `{"prompts":{"review":{"content":"Review this."}}}`)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ItemObject, doc[SectionPrompts]["review"].Kind())
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "loom.yaml", "mcp: [not: a, map]:::")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFind_Order(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loom.json", `{}`)
	writeFile(t, dir, "loom.yaml", `{}`)

	path, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "loom.yaml"), path, "yaml takes precedence")
}

func TestFind_Missing(t *testing.T) {
	_, err := Find(t.TempDir())
	assert.Error(t, err)
}

func TestLoadWithOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loom.yaml", `
mcp:
  github:
    command: npx
  scratch:
    command: keep
`)
	writeFile(t, dir, "loom.local.yaml", `
mcp:
  github: false
  local-db:
    command: sqlite-mcp
`)

	doc, err := LoadWithOverride(dir)
	require.NoError(t, err)

	assert.NotContains(t, doc[SectionMCP], "github")
	assert.Contains(t, doc[SectionMCP], "scratch")
	assert.Contains(t, doc[SectionMCP], "local-db")
}

func TestStructuralValidator(t *testing.T) {
	v := StructuralValidator{}
	assert.NoError(t, v.Validate(Document{SectionMCP: {}}))
	assert.Error(t, v.Validate(Document{Section("bogus"): {}}))
}
