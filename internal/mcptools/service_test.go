package mcptools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/config"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveRootPrefersOverride(t *testing.T) {
	s := NewService("/default/root", config.MCPConfig{}, nil)
	assert.Equal(t, "/default/root", s.resolveRoot(""))
	assert.Equal(t, "/other", s.resolveRoot("/other"))
}

func TestResolveGraphBuildsAndCachesOnFirstCall(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export function helper() {}")

	s := NewService(root, config.MCPConfig{}, nil)
	g1, err := s.resolveGraph(root)
	require.NoError(t, err)
	_, ok := g1.FileID("src/a.ts")
	assert.True(t, ok)

	g2, err := s.resolveGraph(root)
	require.NoError(t, err)
	assert.Same(t, g1, g2, "second resolveGraph call must hit the cache, not rebuild")
}

func TestRegisterAndListProjects(t *testing.T) {
	s := NewService("/default", config.MCPConfig{}, nil)
	s.registerProject("/proj/one", "one")
	s.registerProject("/proj/two", "two")

	projects := s.listProjects()
	assert.Equal(t, map[string]string{"/proj/one": "one", "/proj/two": "two"}, projects)
}

func TestNotFoundErrorIncludesSuggestions(t *testing.T) {
	err := notFoundError("symbol", "helpr", []string{"helper"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "helpr")
	assert.Contains(t, err.Error(), "helper")

	bare := notFoundError("symbol", "zzz", nil)
	assert.NotContains(t, bare.Error(), "did you mean")
}
