package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"loom/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "rule.md")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

	tests := []struct {
		name    string
		path    string
		content string
		want    Action
	}{
		{"absent file creates", filepath.Join(dir, "new.md"), "content", ActionCreate},
		{"identical content unchanged", existing, "old", ActionUnchanged},
		{"different content updates", existing, "new", ActionUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := Classify(tt.path, tt.content, "rule")
			require.NoError(t, err)
			assert.Equal(t, tt.want, change.Action)
			assert.Equal(t, "rule", change.Category)
			assert.Equal(t, tt.content, change.Content)
		})
	}
}

func TestClassifyJSON_MergesWithExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":{"other-tool":{"command":"keep"}}}`), 0644))

	desired := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"github": map[string]interface{}{"command": "npx"},
		},
	}

	change, err := ClassifyJSON(path, desired, false, document.ServerReplaceResolver(), "mcp")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, change.Action)

	var merged map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(change.Content), &merged))
	servers := merged["mcpServers"].(map[string]interface{})
	assert.Contains(t, servers, "other-tool", "foreign entries survive merge-on-write")
	assert.Contains(t, servers, "github")
}

func TestClassifyJSON_OverwriteFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":{"other-tool":{"command":"gone"}}}`), 0644))

	desired := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"github": map[string]interface{}{"command": "npx"},
		},
	}

	change, err := ClassifyJSON(path, desired, true, nil, "mcp")
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(change.Content), &out))
	servers := out["mcpServers"].(map[string]interface{})
	assert.NotContains(t, servers, "other-tool")
}

func TestClassifyJSON_UnparsableFallsBackToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	desired := map[string]interface{}{"mcpServers": map[string]interface{}{}}

	change, err := ClassifyJSON(path, desired, false, nil, "mcp")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, change.Action)

	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(change.Content), &out))
}

func TestClassifyJSON_AbsentFileCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hooks.json")
	change, err := ClassifyJSON(path, map[string]interface{}{"hooks": map[string]interface{}{}}, false, nil, "hooks")
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, change.Action)
}

func TestClassifySymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(target, 0755))

	link := filepath.Join(dir, "link")
	assert.Equal(t, ActionCreate, ClassifySymlink(link, target, "skill").Action)

	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	assert.Equal(t, ActionUnchanged, ClassifySymlink(link, target, "skill").Action)
	assert.Equal(t, ActionUpdate, ClassifySymlink(link, filepath.Join(dir, "other"), "skill").Action)
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stale.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.Equal(t, ActionDelete, Delete(path, "rule").Action)
	assert.Equal(t, ActionUnchanged, Delete(filepath.Join(dir, "missing.md"), "rule").Action)
}

func TestMarshalJSON_Stable(t *testing.T) {
	v := map[string]interface{}{"b": 1, "a": map[string]interface{}{"z": true, "y": false}}
	first, err := MarshalJSON(v)
	require.NoError(t, err)
	second, err := MarshalJSON(v)
	require.NoError(t, err)
	assert.Equal(t, first, second, "output must be deterministic for unchanged detection")
}
