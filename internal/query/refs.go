package query

import (
	"sort"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// CallReference is one call-site reference to a symbol.
type CallReference struct {
	FilePath   string
	CallerName string // empty when the call site is file-scoped
	Line       int
}

// ReferencesResult is the combined import-reference and call-reference set
// for one or more symbols sharing a name.
type ReferencesResult struct {
	ImportingFiles []string
	Calls          []CallReference
}

// FindReferences finds every file that imports a file containing one of
// indices, and every call site targeting one of indices.
func FindReferences(g *codegraph.Graph, root string, indices []codegraph.NodeID) ReferencesResult {
	fileSet := map[codegraph.NodeID]bool{}
	for _, id := range indices {
		if fileID, ok := g.ContainingFile(id); ok {
			fileSet[fileID] = true
		} else if node, ok := g.Node(id); ok && node.Kind == codegraph.NodeFile {
			fileSet[id] = true
		}
	}

	importers := map[string]bool{}
	for fileID := range fileSet {
		for _, e := range g.InEdges(fileID, codegraph.EdgeResolvedImport) {
			if node, ok := g.Node(e.From); ok && node.File != nil {
				importers[relPath(root, node.File.Path)] = true
			}
		}
	}
	var importList []string
	for f := range importers {
		importList = append(importList, f)
	}
	sort.Strings(importList)

	var calls []CallReference
	for _, id := range indices {
		for _, e := range g.InEdges(id, codegraph.EdgeCalls) {
			node, ok := g.Node(e.From)
			if !ok {
				continue
			}
			switch node.Kind {
			case codegraph.NodeSymbol:
				if filePath, _, ok := containingFilePath(g, e.From); ok {
					calls = append(calls, CallReference{
						FilePath:   relPath(root, filePath),
						CallerName: node.Symbol.Name,
						Line:       node.Symbol.Line,
					})
				}
			case codegraph.NodeFile:
				calls = append(calls, CallReference{FilePath: relPath(root, node.File.Path)})
			}
		}
	}
	sort.Slice(calls, func(i, j int) bool { return calls[i].FilePath < calls[j].FilePath })

	return ReferencesResult{ImportingFiles: importList, Calls: calls}
}
