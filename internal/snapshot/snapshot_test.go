package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

func TestValidateNameRejectsBadNames(t *testing.T) {
	assert.NoError(t, ValidateName("release-1_0"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("has a space"))
	assert.Error(t, ValidateName(string(make([]byte, 65))))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := codegraph.New()
	fileID := g.AddFile("a.ts", lang.TypeScript)
	g.AddSymbol(fileID, codegraph.SymbolInfo{Name: "foo", Kind: codegraph.SymbolFunction, Line: 3})

	snap := FromGraph(g, dir, "baseline", 1000)
	require.NoError(t, Save(dir, snap))

	loaded, err := Load(dir, "baseline")
	require.NoError(t, err)
	assert.Equal(t, "baseline", loaded.Name)
	assert.Equal(t, 1, loaded.Files["a.ts"].SymbolCount)
}

func TestCompareZeroDiffAgainstSelf(t *testing.T) {
	g := codegraph.New()
	fileID := g.AddFile("a.ts", lang.TypeScript)
	g.AddSymbol(fileID, codegraph.SymbolInfo{Name: "foo", Kind: codegraph.SymbolFunction, Line: 3})

	snap := FromGraph(g, "/proj", "x", 1000)
	d := Compare(snap, snap)
	assert.Empty(t, d.AddedFiles)
	assert.Empty(t, d.RemovedFiles)
	assert.Empty(t, d.AddedSymbols)
	assert.Empty(t, d.RemovedSymbols)
	assert.Empty(t, d.ModifiedSymbols)
}

func TestCompareDetectsAddedRemovedAndModified(t *testing.T) {
	before := Snapshot{Files: map[string]FileFingerprint{
		"a.ts": {Symbols: []SymbolFingerprint{{Name: "foo", Kind: codegraph.SymbolFunction, Line: 1, CallerCount: 0}}},
		"b.ts": {Symbols: []SymbolFingerprint{{Name: "gone", Kind: codegraph.SymbolFunction, Line: 1}}},
	}}
	after := Snapshot{Files: map[string]FileFingerprint{
		"a.ts": {Symbols: []SymbolFingerprint{{Name: "foo", Kind: codegraph.SymbolFunction, Line: 5, CallerCount: 2}}},
		"c.ts": {Symbols: []SymbolFingerprint{{Name: "new", Kind: codegraph.SymbolFunction, Line: 1}}},
	}}

	d := Compare(before, after)
	assert.Equal(t, []string{"c.ts"}, d.AddedFiles)
	assert.Equal(t, []string{"b.ts"}, d.RemovedFiles)
	assert.Equal(t, []string{"c.ts:new"}, d.AddedSymbols)
	require.Len(t, d.ModifiedSymbols, 1)
	assert.Equal(t, "foo", d.ModifiedSymbols[0].Name)
	assert.True(t, d.ModifiedSymbols[0].LineChanged)
	assert.Equal(t, 2, d.ModifiedSymbols[0].CallerDelta)
}

func TestRotationDeletesOldestSnapshot(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < MaxSnapshots; i++ {
		name := "snap" + string(rune('a'+i))
		require.NoError(t, Save(dir, Snapshot{Name: name, ProjectRoot: dir, Files: map[string]FileFingerprint{}}))
	}
	names, err := List(dir)
	require.NoError(t, err)
	require.Len(t, names, MaxSnapshots)

	require.NoError(t, Save(dir, Snapshot{Name: "overflow", ProjectRoot: dir, Files: map[string]FileFingerprint{}}))
	names, err = List(dir)
	require.NoError(t, err)
	assert.Len(t, names, MaxSnapshots)
	assert.Contains(t, names, "overflow")
}
