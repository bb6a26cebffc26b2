// Package walker enumerates project files for both parsing and
// classification, honoring .gitignore, the always-excluded directories, and
// the project's configured exclude globs.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// alwaysExcluded directories are never walked into, regardless of
// .gitignore contents.
var alwaysExcluded = map[string]bool{
	"node_modules": true,
	".code-graph":  true,
	".git":         true,
}

// Walker enumerates a project's files, filtering via .gitignore and the
// caller's exclude globs.
type Walker struct {
	root          string
	ignore        *gitignore.GitIgnore
	excludeGlobs  []string
}

// New constructs a Walker rooted at root. excludeGlobs are doublestar
// patterns relative to root (from code-graph.toml's `exclude` key). A
// missing .gitignore is not an error: it leaves the ignore matcher nil,
// matching nothing.
func New(root string, excludeGlobs []string) *Walker {
	var ig *gitignore.GitIgnore
	if compiled, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		ig = compiled
	}
	return &Walker{root: root, ignore: ig, excludeGlobs: excludeGlobs}
}

func (w *Walker) isExcluded(relPath string) bool {
	return w.IsExcluded(relPath)
}

// IsExcluded reports whether relPath (root-relative, slash-separated) is
// excluded by .gitignore or the configured exclude globs. Exported so the
// watcher's event classifier can apply the same exclusion rules the initial
// walk used, without duplicating the gitignore/glob matching logic.
func (w *Walker) IsExcluded(relPath string) bool {
	if w.ignore != nil && w.ignore.MatchesPath(relPath) {
		return true
	}
	for _, pattern := range w.excludeGlobs {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// IsAlwaysExcludedAncestor reports whether any path component of relPath is
// one of the hardcoded excludes (node_modules, .code-graph, .git).
func IsAlwaysExcludedAncestor(relPath string) bool {
	return alwaysExcludedAncestor(relPath)
}

func (w *Walker) walk(visit func(relPath string, isSource bool) error) error {
	if _, err := os.Stat(w.root); err != nil {
		return fmt.Errorf("read project root: %w", err)
	}

	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths encountered mid-walk
		}
		if path == w.root {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if alwaysExcluded[d.Name()] || w.isExcluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if alwaysExcludedAncestor(rel) || w.isExcluded(rel) {
			return nil
		}

		_, isSource := lang.ForPath(path)
		return visit(rel, isSource)
	})
}

func alwaysExcludedAncestor(rel string) bool {
	for _, comp := range strings.Split(rel, "/") {
		if alwaysExcluded[comp] {
			return true
		}
	}
	return false
}

// WalkProject yields every source file (one whose extension the language
// classifier recognizes) under root, as paths relative to root.
func (w *Walker) WalkProject() ([]string, error) {
	var files []string
	err := w.walk(func(relPath string, isSource bool) error {
		if isSource {
			files = append(files, relPath)
		}
		return nil
	})
	return files, err
}

// WalkNonParsedFiles yields every file that is not a recognized source
// file, for FileKind classification (docs, config, CI, assets, other).
func (w *Walker) WalkNonParsedFiles() ([]string, error) {
	var files []string
	err := w.walk(func(relPath string, isSource bool) error {
		if !isSource {
			files = append(files, relPath)
		}
		return nil
	})
	return files, err
}
