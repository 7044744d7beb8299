package watcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashCache_SameContentIsSuppressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.tex")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	c := newHashCache()
	require.True(t, c.Changed(path))
	// Touch without a content change, as editors do on save.
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	require.False(t, c.Changed(path))
}

func TestHashCache_ContentChangeIsDetected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.tex")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	c := newHashCache()
	require.True(t, c.Changed(path))
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	require.True(t, c.Changed(path))
}

func TestHashCache_UnreadableFileCountsAsChanged(t *testing.T) {
	c := newHashCache()
	require.True(t, c.Changed(filepath.Join(t.TempDir(), "missing.tex")))
}
