package cache

import (
	"encoding/gob"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	g := codegraph.New()
	fileID := g.AddFile("test.ts", lang.TypeScript)
	g.AddSymbol(fileID, codegraph.SymbolInfo{Name: "hello", Kind: codegraph.SymbolFunction, Line: 1, IsExported: true})

	require.NoError(t, Save(dir, g, nil))

	envelope, ok := Load(dir)
	require.True(t, ok)
	assert.Equal(t, Version, envelope.Version)

	restored := envelope.Graph()
	assert.Equal(t, 1, restored.FileCount())
	assert.Equal(t, 1, restored.SymbolCount())
}

func TestLoadMissingCacheReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	_, ok := Load(dir)
	assert.False(t, ok)
}

func TestLoadVersionMismatchReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	g := codegraph.New()
	require.NoError(t, Save(dir, g, nil))

	envelope, ok := Load(dir)
	require.True(t, ok)
	envelope.Version = Version + 1

	// Save always stamps the current Version, so write the mismatched
	// envelope directly in the same gob format.
	f, err := os.Create(Path(dir))
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(f).Encode(envelope))
	require.NoError(t, f.Close())

	_, ok = Load(dir)
	assert.False(t, ok)
}

func TestIsStaleDetectsChangedFile(t *testing.T) {
	e := Envelope{FileMtimes: map[string]FileMeta{"a.ts": {MtimeSecs: 100, Size: 10}}}
	assert.False(t, e.IsStale(map[string]FileMeta{"a.ts": {MtimeSecs: 100, Size: 10}}))
	assert.True(t, e.IsStale(map[string]FileMeta{"a.ts": {MtimeSecs: 200, Size: 10}}))
	assert.True(t, e.IsStale(map[string]FileMeta{}))
}

func TestClassifyPartitionsChangedAddedDeleted(t *testing.T) {
	e := Envelope{FileMtimes: map[string]FileMeta{
		"a.ts": {MtimeSecs: 100, Size: 10},
		"b.ts": {MtimeSecs: 100, Size: 10},
	}}
	changed, added, deleted := e.Classify(map[string]FileMeta{
		"a.ts": {MtimeSecs: 200, Size: 10},
		"c.ts": {MtimeSecs: 100, Size: 5},
	})
	assert.Equal(t, []string{"a.ts"}, changed)
	assert.Equal(t, []string{"c.ts"}, added)
	assert.Equal(t, []string{"b.ts"}, deleted)
}
