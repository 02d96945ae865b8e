package detect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/editors"
)

func TestEditors_EmptyMachine(t *testing.T) {
	results, err := Editors(context.Background(), t.TempDir(), t.TempDir())
	require.NoError(t, err)

	require.Len(t, results, len(editors.Names()))
	for i, r := range results {
		assert.Equal(t, editors.Names()[i], r.Editor, "results are name ordered")
		assert.False(t, r.Installed)
		assert.False(t, r.InProject)
	}
}

func TestEditors_DetectsMarkers(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".cursor"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".claude.json"), []byte("{}"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cursor"), 0755))

	results, err := Editors(context.Background(), root, home)
	require.NoError(t, err)

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Editor] = r
	}

	assert.True(t, byName["claude"].Installed, "file marker counts")
	assert.False(t, byName["claude"].InProject)
	assert.True(t, byName["cursor"].Installed)
	assert.True(t, byName["cursor"].InProject)
	assert.False(t, byName["codex"].Installed)
}

func TestInstalledNames(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".codex"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".codeium", "windsurf"), 0755))

	names, err := InstalledNames(context.Background(), t.TempDir(), home)
	require.NoError(t, err)
	assert.Equal(t, []string{"codex", "windsurf"}, names)
}

func TestEditors_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Editors(ctx, t.TempDir(), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
