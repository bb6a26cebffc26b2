package codegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

func TestAddFileIsIdempotent(t *testing.T) {
	g := New()
	id1 := g.AddFile("src/a.ts", lang.TypeScript)
	id2 := g.AddFile("src/a.ts", lang.TypeScript)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, g.FileCount())
}

func TestSymbolAlwaysReachableViaContainsOrChildOf(t *testing.T) {
	g := New()
	file := g.AddFile("src/a.ts", lang.TypeScript)
	class := g.AddSymbol(file, SymbolInfo{Name: "Widget", Kind: SymbolClass})
	method := g.AddChildSymbol(class, SymbolInfo{Name: "render", Kind: SymbolMethod})

	containingFile, ok := g.ContainingFile(class)
	require.True(t, ok)
	assert.Equal(t, file, containingFile)

	containingFile, ok = g.ContainingFile(method)
	require.True(t, ok)
	assert.Equal(t, file, containingFile)
}

func TestRemoveFileFromGraphCascades(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.ts", lang.TypeScript)
	b := g.AddFile("src/b.ts", lang.TypeScript)
	class := g.AddSymbol(a, SymbolInfo{Name: "Widget", Kind: SymbolClass})
	g.AddChildSymbol(class, SymbolInfo{Name: "render", Kind: SymbolMethod})
	g.AddResolvedImport(b, a, "./a")

	g.RemoveFileFromGraph("src/a.ts")

	_, ok := g.FileID("src/a.ts")
	assert.False(t, ok)
	assert.Empty(t, g.SymbolsByName("Widget"))
	assert.Empty(t, g.SymbolsByName("render"))

	for _, e := range g.AllEdges() {
		assert.NotEqual(t, a, e.From)
		assert.NotEqual(t, a, e.To)
	}
	// b survives untouched.
	_, ok = g.FileID("src/b.ts")
	assert.True(t, ok)
}

func TestAddExternalPackageIdempotentNode(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.ts", lang.TypeScript)
	b := g.AddFile("src/b.ts", lang.TypeScript)

	id1 := g.AddExternalPackage(a, "react", "react")
	id2 := g.AddExternalPackage(b, "react", "react")
	assert.Equal(t, id1, id2)

	edges := g.OutEdges(a, EdgeResolvedImport)
	require.Len(t, edges, 1)
	edges = g.OutEdges(b, EdgeResolvedImport)
	require.Len(t, edges, 1)
}

func TestAddBuiltinNodeIdempotentNode(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.rs", lang.Rust)
	b := g.AddFile("src/b.rs", lang.Rust)

	id1 := g.AddBuiltinNode(a, "std", "std::collections")
	id2 := g.AddBuiltinNode(b, "std", "std::fmt")
	assert.Equal(t, id1, id2)
}

func TestAddUnresolvedImportNeverDeduplicated(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.ts", lang.TypeScript)

	id1 := g.AddUnresolvedImport(a, "./missing", "file_not_found")
	id2 := g.AddUnresolvedImport(a, "./missing", "file_not_found")
	assert.NotEqual(t, id1, id2)
}

func TestReverseBFSTracksDepth(t *testing.T) {
	g := New()
	a := g.AddFile("a.ts", lang.TypeScript)
	b := g.AddFile("b.ts", lang.TypeScript)
	c := g.AddFile("c.ts", lang.TypeScript)
	g.AddResolvedImport(b, a, "./a")
	g.AddResolvedImport(c, b, "./b")

	results := g.ReverseBFS([]NodeID{a}, EdgeResolvedImport)
	require.Len(t, results, 2)

	depths := map[NodeID]int{}
	for _, r := range results {
		depths[r.ID] = r.Depth
	}
	assert.Equal(t, 1, depths[b])
	assert.Equal(t, 2, depths[c])
}

func TestRemoveRustImportPlaceholdersDropsEdgesFromStatsAndRoundTrip(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.rs", lang.Rust)
	b := g.AddFile("src/b.rs", lang.Rust)
	g.AddResolvedImport(b, a, "crate::a")
	g.AddRustImportPlaceholder(a, "crate::b")
	g.AddRustImportPlaceholder(a, "std::fmt")

	before := g.Stats().EdgeCount
	g.RemoveRustImportPlaceholders(a)
	after := g.Stats().EdgeCount
	assert.Equal(t, before-2, after)

	edges := g.OutEdges(a, EdgeRustImport)
	assert.Empty(t, edges)

	states, edges2 := g.ExportState()
	restored := RestoreState(states, edges2)
	assert.Empty(t, restored.OutEdges(a, EdgeRustImport))
	assert.Equal(t, after, restored.Stats().EdgeCount)

	// the unrelated resolved-import edge survives the compaction.
	require.Len(t, restored.OutEdges(b, EdgeResolvedImport), 1)
}

func TestCloneIsIndependent(t *testing.T) {
	g := New()
	g.AddFile("a.ts", lang.TypeScript)
	clone := g.Clone()
	clone.AddFile("b.ts", lang.TypeScript)

	assert.Equal(t, 1, g.FileCount())
	assert.Equal(t, 2, clone.FileCount())
}
