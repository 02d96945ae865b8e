package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader_RelativeAndAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.md")
	require.NoError(t, os.WriteFile(path, []byte("# Style"), 0644))

	l := &FileLoader{Base: dir}

	got, err := l.Load(context.Background(), "style.md")
	require.NoError(t, err)
	assert.Equal(t, "# Style", got.Body)
	assert.Equal(t, path, got.SourcePath)

	got, err = l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# Style", got.Body)
}

func TestFileLoader_NotFound(t *testing.T) {
	l := &FileLoader{Base: t.TempDir()}
	_, err := l.Load(context.Background(), "missing.md")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestFileLoader_RejectsRemoteRefs(t *testing.T) {
	l := &FileLoader{Base: t.TempDir()}
	_, err := l.Load(context.Background(), "https://example.com/rule.md")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestFileLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := &FileLoader{Base: t.TempDir()}
	_, err := l.Load(ctx, "style.md")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapLoader(t *testing.T) {
	l := MapLoader{"skills/review": "Review carefully."}

	got, err := l.Load(context.Background(), "skills/review")
	require.NoError(t, err)
	assert.Equal(t, "Review carefully.", got.Body)

	_, err = l.Load(context.Background(), "absent")
	assert.True(t, IsNotFound(err))
}
