package query

import (
	"sort"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// DeadFile is a source file unreachable from any entry point via
// ResolvedImport edges.
type DeadFile struct {
	FilePath string
}

// DeadSymbol is a symbol with zero incoming Calls edges, excluding the
// exemption rules FindDeadCode applies.
type DeadSymbol struct {
	FilePath string
	Name     string
	Kind     codegraph.SymbolKind
	Line     int
}

// DeadCodeResult groups unreachable files and unreferenced symbols.
type DeadCodeResult struct {
	Files   []DeadFile
	Symbols []DeadSymbol
}

// FindDeadCode reports files with no importer and symbols with no incoming
// reference, applying the standard exemptions: entry-point files, test
// files, and symbols that are exported, public, trait impls, or named
// main/test-prefixed are never reported dead.
func FindDeadCode(g *codegraph.Graph, root string) DeadCodeResult {
	var result DeadCodeResult

	for _, p := range g.AllFilePaths() {
		id, ok := g.FileID(p)
		if !ok {
			continue
		}
		node, ok := g.Node(id)
		if !ok || node.File == nil || node.File.Kind != lang.Source {
			continue
		}
		rel := relPath(root, p)
		if isEntryPoint(rel) {
			continue
		}
		importers := len(g.InEdges(id, codegraph.EdgeResolvedImport, codegraph.EdgeBarrelReExportAll))
		if importers > 0 {
			continue
		}
		result.Files = append(result.Files, DeadFile{FilePath: rel})
	}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].FilePath < result.Files[j].FilePath })

	for _, name := range g.AllSymbolNames() {
		for _, id := range g.SymbolsByName(name) {
			node, ok := g.Node(id)
			if !ok || node.Symbol == nil {
				continue
			}
			if isExemptSymbol(g, id, node.Symbol) {
				continue
			}
			if len(g.InEdges(id, codegraph.EdgeCalls)) > 0 {
				continue
			}
			filePath, _, ok := containingFilePath(g, id)
			if !ok {
				continue
			}
			if isTestPath(relPath(root, filePath)) {
				continue
			}
			result.Symbols = append(result.Symbols, DeadSymbol{
				FilePath: relPath(root, filePath), Name: node.Symbol.Name,
				Kind: node.Symbol.Kind, Line: node.Symbol.Line,
			})
		}
	}
	sort.Slice(result.Symbols, func(i, j int) bool {
		if result.Symbols[i].FilePath != result.Symbols[j].FilePath {
			return result.Symbols[i].FilePath < result.Symbols[j].FilePath
		}
		return result.Symbols[i].Line < result.Symbols[j].Line
	})

	return result
}

func isExemptSymbol(g *codegraph.Graph, id codegraph.NodeID, sym *codegraph.SymbolInfo) bool {
	if sym.Name == "main" {
		return true
	}
	if strings.HasPrefix(strings.ToLower(sym.Name), "test_") || strings.HasPrefix(sym.Name, "Test") {
		return true
	}
	if sym.Visibility == codegraph.VisPub || sym.Visibility == codegraph.VisPubCrate {
		return true
	}
	if sym.IsExported {
		return true
	}
	if sym.TraitImpl != "" {
		return true
	}
	return false
}
