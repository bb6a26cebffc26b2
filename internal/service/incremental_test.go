package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

func TestProjectOnModifiedReparsesAndRewires(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export function helper() {}")
	writeFile(t, root, "src/b.ts", "import { helper } from './a';")

	full, err := BuildFull(root, nil)
	require.NoError(t, err)

	p := NewProject(root, full.Graph, nil, nil)

	writeFile(t, root, "src/b.ts", "import { helper } from './a';\nhelper();\nhelper();")
	p.OnModified(filepath.Join(root, "src/b.ts"))

	g := p.Graph()
	bID, ok := g.FileID("src/b.ts")
	require.True(t, ok)
	edges := g.OutEdges(bID, codegraph.EdgeResolvedImport)
	require.Len(t, edges, 1)

	_, aOk := g.FileID("src/a.ts")
	assert.True(t, aOk, "unaffected files remain in the cloned graph")
}

func TestProjectOnDeletedMaterializesUnresolvedImportOnImporters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export function helper() {}")
	writeFile(t, root, "src/b.ts", "import { helper } from './a';")

	full, err := BuildFull(root, nil)
	require.NoError(t, err)

	p := NewProject(root, full.Graph, nil, nil)
	p.OnDeleted(filepath.Join(root, "src/a.ts"))

	g := p.Graph()
	_, ok := g.FileID("src/a.ts")
	assert.False(t, ok)

	bID, ok := g.FileID("src/b.ts")
	require.True(t, ok)

	var sawUnresolved bool
	for _, e := range g.OutEdges(bID, codegraph.EdgeResolvedImport) {
		node, ok := g.Node(e.To)
		if ok && node.Kind == codegraph.NodeUnresolvedImport {
			sawUnresolved = true
			assert.Equal(t, "target file deleted", node.Unresolved.Reason)
		}
	}
	assert.True(t, sawUnresolved)
}

func TestProjectOnConfigChangedInvokesCallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export function helper() {}")
	full, err := BuildFull(root, nil)
	require.NoError(t, err)

	called := false
	p := NewProject(root, full.Graph, nil, func() { called = true })
	p.OnConfigChanged()
	assert.True(t, called)
}
