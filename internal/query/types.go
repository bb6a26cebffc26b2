// Package query implements the read-only structural queries the tool
// server exposes: find/refs/impact/circular/context/structure/summary/
// imports/dead-code/stats, all operating over an immutable graph snapshot.
package query

import (
	"path/filepath"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// SymbolMatch is one symbol hit, with enough context to print a location.
type SymbolMatch struct {
	Name       string
	Kind       codegraph.SymbolKind
	FilePath   string // project-relative
	Line       int
	IsExported bool
	Visibility codegraph.SymbolVisibility
}

// relPath formats an absolute-ish stored path relative to root for display;
// the graph already stores project-relative paths, so this mostly just
// normalizes separators, but tolerates being handed an absolute path too.
func relPath(root, path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(root, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func pathDepth(path string) int {
	path = strings.Trim(filepath.ToSlash(path), "/")
	if path == "" {
		return 0
	}
	return len(strings.Split(path, "/"))
}

// containingFilePath resolves the project-relative file path that contains
// a symbol node, via Contains or ChildOf->Contains.
func containingFilePath(g *codegraph.Graph, symbolID codegraph.NodeID) (string, codegraph.NodeID, bool) {
	fileID, ok := g.ContainingFile(symbolID)
	if !ok {
		return "", 0, false
	}
	node, ok := g.Node(fileID)
	if !ok || node.File == nil {
		return "", 0, false
	}
	return node.File.Path, fileID, true
}
