// Package export renders a built graph as DOT or Mermaid source for
// external visualization tools, at File, Package, or Symbol granularity.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/errs"
)

// Format selects the output grammar.
type Format string

const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
)

// Granularity selects what a rendered node represents.
type Granularity string

const (
	GranularityFile    Granularity = "file"
	GranularityPackage Granularity = "package"
	GranularitySymbol  Granularity = "symbol"
)

// mermaidEdgeWarnThreshold and symbolNodeWarnThreshold are the scale guards:
// past these, an advisory (non-fatal) warning is printed to stderr.
const (
	mermaidEdgeWarnThreshold = 500
	symbolNodeWarnThreshold  = 200
)

var nonIdentChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// sanitizeID maps an arbitrary string to a safe DOT/Mermaid identifier
// fragment, prefixing with "n" if the result would start with a digit.
func sanitizeID(s string) string {
	id := nonIdentChars.ReplaceAllString(s, "_")
	if id == "" {
		id = "n"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "n" + id
	}
	return id
}

// packageOf returns the first path segment of a project-relative file path,
// the grouping unit package granularity clusters files by.
func packageOf(relPath string) string {
	rel := filepath.ToSlash(relPath)
	if idx := strings.Index(rel, "/"); idx >= 0 {
		return rel[:idx]
	}
	return "."
}

// fileNode is one File-or-Package-granularity graph node.
type fileNode struct {
	id       string
	label    string
	pkg      string
	fileID   codegraph.NodeID
	isSymbol bool
	kind     codegraph.SymbolKind
}

// graphData is the format-neutral projection of the codegraph used by both
// renderers.
type graphData struct {
	nodes       []fileNode
	edges       []renderEdge
	granularity Granularity
}

type renderEdge struct {
	from, to     string
	count        int
	isReexport   bool
	isImplements bool
}

// buildGraphData projects g into render-ready nodes/edges at the requested
// granularity, using project-relative paths for display.
func buildGraphData(g *codegraph.Graph, root string, gran Granularity) graphData {
	switch gran {
	case GranularitySymbol:
		return buildSymbolGraphData(g, root)
	case GranularityPackage:
		return buildPackageGraphData(g, root)
	default:
		return buildFileGraphData(g, root)
	}
}

func relOf(root, path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(root, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func buildFileGraphData(g *codegraph.Graph, root string) graphData {
	var data graphData
	data.granularity = GranularityFile

	idOf := make(map[codegraph.NodeID]string)
	for i, p := range sortedPaths(g) {
		id := fmt.Sprintf("n%d", i)
		fileID, _ := g.FileID(p)
		idOf[fileID] = id
		rel := relOf(root, p)
		data.nodes = append(data.nodes, fileNode{id: id, label: rel, pkg: packageOf(rel), fileID: fileID})
	}

	for _, node := range data.nodes {
		for _, e := range g.OutEdges(node.fileID, codegraph.EdgeResolvedImport, codegraph.EdgeReExport, codegraph.EdgeBarrelReExportAll) {
			targetID, ok := idOf[e.To]
			if !ok {
				continue
			}
			data.edges = append(data.edges, renderEdge{
				from: node.id, to: targetID, count: 1,
				isReexport: e.Label == codegraph.EdgeReExport || e.Label == codegraph.EdgeBarrelReExportAll,
			})
		}
	}
	return data
}

func buildPackageGraphData(g *codegraph.Graph, root string) graphData {
	file := buildFileGraphData(g, root)

	pkgID := make(map[string]string)
	var data graphData
	data.granularity = GranularityPackage

	for _, n := range file.nodes {
		if _, ok := pkgID[n.pkg]; ok {
			continue
		}
		id := "cluster_" + sanitizeID(n.pkg)
		pkgID[n.pkg] = id
		data.nodes = append(data.nodes, fileNode{id: id, label: n.pkg, pkg: n.pkg})
	}
	sort.Slice(data.nodes, func(i, j int) bool { return data.nodes[i].label < data.nodes[j].label })

	byFileID := make(map[string]string, len(file.nodes))
	for _, n := range file.nodes {
		byFileID[n.id] = n.pkg
	}

	counts := make(map[[2]string]*renderEdge)
	for _, e := range file.edges {
		fromPkg, toPkg := byFileID[e.from], byFileID[e.to]
		if fromPkg == "" || toPkg == "" || fromPkg == toPkg {
			continue
		}
		key := [2]string{pkgID[fromPkg], pkgID[toPkg]}
		if existing, ok := counts[key]; ok {
			existing.count++
			continue
		}
		counts[key] = &renderEdge{from: key[0], to: key[1], count: 1, isReexport: e.isReexport}
	}
	var keys [][2]string
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		data.edges = append(data.edges, *counts[k])
	}
	return data
}

func buildSymbolGraphData(g *codegraph.Graph, root string) graphData {
	var data graphData
	data.granularity = GranularitySymbol

	idOf := make(map[codegraph.NodeID]string)
	for i, name := range g.AllSymbolNames() {
		for j, symID := range g.SymbolsByName(name) {
			node, ok := g.Node(symID)
			if !ok || node.Symbol == nil {
				continue
			}
			id := fmt.Sprintf("n%d_%d", i, j)
			idOf[symID] = id
			data.nodes = append(data.nodes, fileNode{id: id, label: node.Symbol.Name, isSymbol: true, fileID: symID, kind: node.Symbol.Kind})
		}
	}
	sort.Slice(data.nodes, func(i, j int) bool { return data.nodes[i].label < data.nodes[j].label })

	for symID, fromID := range idOf {
		for _, e := range g.OutEdges(symID, codegraph.EdgeCalls, codegraph.EdgeExtends, codegraph.EdgeImplements) {
			toID, ok := idOf[e.To]
			if !ok {
				continue
			}
			data.edges = append(data.edges, renderEdge{from: fromID, to: toID, count: 1, isImplements: e.Label == codegraph.EdgeImplements})
		}
	}
	sort.Slice(data.edges, func(i, j int) bool {
		if data.edges[i].from != data.edges[j].from {
			return data.edges[i].from < data.edges[j].from
		}
		return data.edges[i].to < data.edges[j].to
	})
	return data
}

func sortedPaths(g *codegraph.Graph) []string {
	paths := append([]string(nil), g.AllFilePaths()...)
	sort.Strings(paths)
	return paths
}

// symbolKindShapeDOT maps a symbol kind to a DOT node shape attribute:
// rectangle for data/value kinds, stadium-like ellipse for callables,
// diamond for type-defining kinds.
func symbolKindShapeDOT(kind codegraph.SymbolKind) string {
	switch kind {
	case codegraph.SymbolFunction, codegraph.SymbolMethod, codegraph.SymbolImplMethod:
		return "ellipse"
	case codegraph.SymbolInterface, codegraph.SymbolTrait, codegraph.SymbolClass,
		codegraph.SymbolStruct, codegraph.SymbolEnum, codegraph.SymbolTypeAlias, codegraph.SymbolComponent:
		return "diamond"
	default:
		return "box"
	}
}

// warnScale prints the advisory, non-fatal scale-guard warnings.
func warnScale(format Format, gran Granularity, nodeCount, edgeCount int) {
	if format == FormatMermaid && edgeCount > mermaidEdgeWarnThreshold {
		fmt.Fprintf(os.Stderr, "warning: mermaid export has %d edges (>%d), diagram may be unreadable\n", edgeCount, mermaidEdgeWarnThreshold)
	}
	if gran == GranularitySymbol && nodeCount > symbolNodeWarnThreshold {
		fmt.Fprintf(os.Stderr, "warning: symbol-granularity export has %d nodes (>%d), diagram may be unreadable\n", nodeCount, symbolNodeWarnThreshold)
	}
}

// Render dispatches to the DOT or Mermaid renderer for the given format and
// granularity, printing the scale-guard warning first.
func Render(g *codegraph.Graph, root string, format Format, gran Granularity) (string, error) {
	data := buildGraphData(g, root, gran)
	warnScale(format, gran, len(data.nodes), len(data.edges))

	switch format {
	case FormatDOT:
		return renderDOT(data), nil
	case FormatMermaid:
		return renderMermaid(data), nil
	default:
		return "", fmt.Errorf("unknown export format %q: %w", format, errs.ErrUserInput)
	}
}
