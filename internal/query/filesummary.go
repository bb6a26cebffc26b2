package query

import (
	"path/filepath"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// Role classifies a file's purpose for get_file_summary and find_dead_code.
type Role string

const (
	RoleConfig     Role = "Config"
	RoleTest       Role = "Test"
	RoleEntryPoint Role = "EntryPoint"
	RoleLibraryRoot Role = "LibraryRoot"
	RoleTypes      Role = "Types"
	RoleUtility    Role = "Utility"
)

// GraphLabel classifies a file's position in the import graph.
type GraphLabel string

const (
	LabelHub    GraphLabel = "Hub"
	LabelLeaf   GraphLabel = "Leaf"
	LabelBridge GraphLabel = "Bridge"
	LabelNone   GraphLabel = ""
)

var entryPointNames = map[string]bool{
	"main.rs": true, "main.ts": true, "main.js": true,
	"index.ts": true, "index.js": true, "app.ts": true, "app.js": true,
}

// isTestPath matches the test-path conventions shared by role detection and
// dead-code exemption: a path segment of tests/__tests__/_tests_, a
// filename containing test/spec, or one of the *_test.rs/.test.*/.spec.*
// suffix forms.
func isTestPath(path string) bool {
	slash := filepath.ToSlash(path)
	for _, seg := range strings.Split(slash, "/") {
		if seg == "tests" || seg == "__tests__" || seg == "_tests_" {
			return true
		}
	}
	base := strings.ToLower(filepath.Base(slash))
	if strings.Contains(base, "test") || strings.Contains(base, "spec") {
		return true
	}
	return strings.HasSuffix(base, "_test.rs") ||
		strings.HasSuffix(base, ".test.ts") || strings.HasSuffix(base, ".test.js") ||
		strings.HasSuffix(base, ".test.tsx") || strings.HasSuffix(base, ".test.jsx") ||
		strings.HasSuffix(base, ".spec.ts") || strings.HasSuffix(base, ".spec.js") ||
		strings.HasSuffix(base, ".spec.tsx") || strings.HasSuffix(base, ".spec.jsx")
}

func isEntryPoint(relFromRoot string) bool {
	if pathDepth(relFromRoot) > 2 {
		return false
	}
	return entryPointNames[strings.ToLower(filepath.Base(relFromRoot))]
}

// DetectRole applies the role-detection precedence chain.
func DetectRole(g *codegraph.Graph, fileID codegraph.NodeID, relPath string) Role {
	node, ok := g.Node(fileID)
	if !ok || node.File == nil {
		return RoleUtility
	}
	info := node.File

	if info.Kind == lang.Config || info.Kind == lang.CI {
		return RoleConfig
	}
	if isTestPath(relPath) {
		return RoleTest
	}
	if isEntryPoint(relPath) {
		return RoleEntryPoint
	}

	base := strings.ToLower(filepath.Base(relPath))
	if base == "lib.rs" || base == "mod.rs" {
		return RoleLibraryRoot
	}

	reexportCount := 0
	for _, e := range g.OutEdges(fileID, codegraph.EdgeReExport, codegraph.EdgeBarrelReExportAll) {
		_ = e
		reexportCount++
	}
	if reexportCount >= 3 {
		return RoleLibraryRoot
	}

	typeSymbols, functionSymbols, totalSymbols := countSymbolKinds(g, fileID)
	if totalSymbols > 0 && functionSymbols == 0 && float64(typeSymbols)/float64(totalSymbols) >= 0.6 {
		return RoleTypes
	}

	return RoleUtility
}

func countSymbolKinds(g *codegraph.Graph, fileID codegraph.NodeID) (typeCount, funcCount, total int) {
	for _, e := range g.OutEdges(fileID, codegraph.EdgeContains) {
		node, ok := g.Node(e.To)
		if !ok || node.Symbol == nil {
			continue
		}
		total++
		if node.Symbol.Kind.TypeDefining() {
			typeCount++
		}
		if node.Symbol.Kind == codegraph.SymbolFunction || node.Symbol.Kind == codegraph.SymbolComponent {
			funcCount++
		}
	}
	return typeCount, funcCount, total
}

// DetectGraphLabel classifies a file by its importer/import counts.
func DetectGraphLabel(g *codegraph.Graph, fileID codegraph.NodeID) GraphLabel {
	importerCount := len(g.InEdges(fileID, codegraph.EdgeResolvedImport))
	importCount := len(g.OutEdges(fileID, codegraph.EdgeResolvedImport))

	switch {
	case importerCount >= 5:
		return LabelHub
	case importerCount == 0:
		return LabelLeaf
	case importerCount >= 2 && importCount >= 3:
		return LabelBridge
	default:
		return LabelNone
	}
}

// FileSummary is the full get_file_summary result.
type FileSummary struct {
	Role    Role
	Label   GraphLabel
	Exports []string
}

// GetFileSummary computes the role, graph label, and export list for a
// single file.
func GetFileSummary(g *codegraph.Graph, root, filePath string) (FileSummary, bool) {
	fileID, ok := g.FileID(filePath)
	if !ok {
		return FileSummary{}, false
	}
	rel := relPath(root, filePath)

	var exports []string
	for _, e := range g.OutEdges(fileID, codegraph.EdgeContains) {
		node, ok := g.Node(e.To)
		if !ok || node.Symbol == nil {
			continue
		}
		switch node.Symbol.Visibility {
		case codegraph.VisPub, codegraph.VisPubCrate:
			exports = append(exports, node.Symbol.Name)
		default:
			if node.Symbol.IsExported {
				exports = append(exports, node.Symbol.Name)
			}
		}
	}

	return FileSummary{
		Role:    DetectRole(g, fileID, rel),
		Label:   DetectGraphLabel(g, fileID),
		Exports: exports,
	}, true
}
