package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildFullWalksParsesAndResolves(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export function helper() {}")
	writeFile(t, root, "src/b.ts", "import { helper } from './a';\nhelper();")

	result, err := BuildFull(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FileCount)
	assert.Equal(t, 0, result.Skipped)

	bID, ok := result.Graph.FileID("src/b.ts")
	require.True(t, ok)
	edges := result.Graph.OutEdges(bID, codegraph.EdgeResolvedImport)
	require.Len(t, edges, 1)
}

func TestBuildScopedReparsesOnlyChangedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export function helper() {}")
	writeFile(t, root, "src/b.ts", "import { helper } from './a';\nhelper();")

	full, err := BuildFull(root, nil)
	require.NoError(t, err)

	writeFile(t, root, "src/b.ts", "import { helper } from './a';\nhelper();\nhelper();")

	scoped, err := BuildScoped(root, full.Results, []string{"src/b.ts"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, scoped.FileCount)

	bID, ok := scoped.Graph.FileID("src/b.ts")
	require.True(t, ok)
	_, aOk := scoped.Graph.FileID("src/a.ts")
	require.True(t, aOk)
	edges := scoped.Graph.OutEdges(bID, codegraph.EdgeResolvedImport)
	require.Len(t, edges, 1, "unchanged src/a.ts must still be present for resolution")
}

func TestBuildScopedDropsDeletedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export function helper() {}")
	writeFile(t, root, "src/b.ts", "import { helper } from './a';")

	full, err := BuildFull(root, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "src/b.ts")))

	scoped, err := BuildScoped(root, full.Results, nil, []string{"src/b.ts"}, nil)
	require.NoError(t, err)

	_, ok := scoped.Graph.FileID("src/b.ts")
	assert.False(t, ok)
	_, ok = scoped.Graph.FileID("src/a.ts")
	assert.True(t, ok)
}
