package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkProjectExcludesNodeModulesAndCodeGraphDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", "export {}")
	writeFile(t, root, "node_modules/react/index.js", "module.exports = {}")
	writeFile(t, root, ".code-graph/graph.bin", "binary")
	writeFile(t, root, "README.md", "# hi")

	w := New(root, nil)
	files, err := w.WalkProject()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"src/index.ts"}, files)
}

func TestWalkProjectHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "dist/\n")
	writeFile(t, root, "src/index.ts", "export {}")
	writeFile(t, root, "dist/bundle.js", "//")

	w := New(root, nil)
	files, err := w.WalkProject()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"src/index.ts"}, files)
}

func TestWalkProjectHonorsConfigExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", "export {}")
	writeFile(t, root, "src/generated/types.ts", "export {}")

	w := New(root, []string{"src/generated/**"})
	files, err := w.WalkProject()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"src/index.ts"}, files)
}

func TestWalkNonParsedFilesYieldsDocsAndConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", "export {}")
	writeFile(t, root, "README.md", "# hi")
	writeFile(t, root, "package.json", "{}")

	w := New(root, nil)
	files, err := w.WalkNonParsedFiles()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"README.md", "package.json"}, files)
}

func TestWalkFailsOnMissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	_, err := w.WalkProject()
	assert.Error(t, err)
}
