package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project/>"), 0o644))
	src := filepath.Join(root, "src", "main", "java")
	require.NoError(t, os.MkdirAll(src, 0o755))

	cfg := DefaultConfig()
	cfg.WatchPaths = []string{"src/main/java"}
	cfg.Output.Root = "reports"

	paths, err := ResolvePaths(cfg, root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(root), paths.ProjectRoot)
	assert.Equal(t, []string{src}, paths.WatchPaths)
	assert.Equal(t, filepath.Join(root, ".codegrader", "history.db"), paths.DBPath)
	assert.Equal(t, filepath.Join(root, "reports"), paths.OutputRoot)
}

func TestResolvePathsRequiresCwd(t *testing.T) {
	_, err := ResolvePaths(DefaultConfig(), " ")
	require.Error(t, err)
}

func TestResolveRelative(t *testing.T) {
	assert.Equal(t, filepath.Clean("/base"), ResolveRelative("/base", ""))
	assert.Equal(t, filepath.Clean("/abs/x"), ResolveRelative("/base", "/abs/x"))
	assert.Equal(t, filepath.Join("/base", "a", "b"), ResolveRelative("/base", "a/./b"))
}

func TestDetectProjectRootWalksUp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFile), nil, 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := DetectProjectRoot([]string{filepath.Join(nested, "Missing.java"), nested})
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), got)
}
