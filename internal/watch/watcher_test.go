package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/walker"
)

func TestClassifyDropsNodeModulesAndGit(t *testing.T) {
	root := t.TempDir()
	w := walker.New(root, nil)
	assert.Equal(t, EventDropped, Classify(root, w, filepath.Join(root, "node_modules", "x.ts")))
	assert.Equal(t, EventDropped, Classify(root, w, filepath.Join(root, ".git", "HEAD")))
}

func TestClassifyConfigFilenames(t *testing.T) {
	root := t.TempDir()
	w := walker.New(root, nil)
	assert.Equal(t, EventConfigChanged, Classify(root, w, filepath.Join(root, "tsconfig.json")))
	assert.Equal(t, EventConfigChanged, Classify(root, w, filepath.Join(root, "package.json")))
	assert.Equal(t, EventConfigChanged, Classify(root, w, filepath.Join(root, "pnpm-workspace.yaml")))
}

func TestClassifyModifiedVsDeleted(t *testing.T) {
	root := t.TempDir()
	w := walker.New(root, nil)

	present := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(present, []byte("export const x = 1"), 0o644))
	assert.Equal(t, EventModified, Classify(root, w, present))

	missing := filepath.Join(root, "b.ts")
	assert.Equal(t, EventDeleted, Classify(root, w, missing))
}

func TestClassifyDropsNonSourceExtension(t *testing.T) {
	root := t.TempDir()
	w := walker.New(root, nil)
	assert.Equal(t, EventDropped, Classify(root, w, filepath.Join(root, "README.md")))
}

type fakeHandler struct {
	configChanged int
	modified      []string
	deleted       []string
	ch            chan struct{}
}

func (h *fakeHandler) OnConfigChanged() { h.configChanged++; h.notify() }
func (h *fakeHandler) OnModified(path string) {
	h.modified = append(h.modified, path)
	h.notify()
}
func (h *fakeHandler) OnDeleted(path string) {
	h.deleted = append(h.deleted, path)
	h.notify()
}
func (h *fakeHandler) notify() {
	select {
	case h.ch <- struct{}{}:
	default:
	}
}

func TestWatcherDebouncesRapidWrites(t *testing.T) {
	root := t.TempDir()
	w := walker.New(root, nil)
	handler := &fakeHandler{ch: make(chan struct{}, 8)}

	watcher, err := New(root, w, handler)
	require.NoError(t, err)
	defer watcher.Stop()

	target := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("xy"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("xyz"), 0o644))

	select {
	case <-handler.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced event")
	}

	assert.LessOrEqual(t, len(handler.modified), 1)
}
