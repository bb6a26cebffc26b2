package query

import (
	"sort"
	"strconv"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// NamedRef is a symbol name with its declaring location.
type NamedRef struct {
	Name     string
	FilePath string
	Line     int
}

// Context bundles every relationship get_context surfaces for a name.
type Context struct {
	Definitions  []SymbolMatch
	References   ReferencesResult
	Callers      []NamedRef
	Callees      []NamedRef
	Extends      []NamedRef
	Implements   []NamedRef
	ExtendedBy   []NamedRef
	ImplementedBy []NamedRef
}

// GetContext gathers the full structural context for a name resolved to
// indices (every symbol node sharing that name).
func GetContext(g *codegraph.Graph, root string, name string, indices []codegraph.NodeID) Context {
	ctx := Context{References: FindReferences(g, root, indices)}

	seen := map[string]bool{}
	for _, id := range indices {
		node, ok := g.Node(id)
		if !ok || node.Symbol == nil {
			continue
		}
		filePath, fileID, ok := containingFilePath(g, id)
		if !ok {
			continue
		}
		key := filePath + ":" + strconv.Itoa(node.Symbol.Line)
		if !seen[key] {
			seen[key] = true
			ctx.Definitions = append(ctx.Definitions, SymbolMatch{
				Name: node.Symbol.Name, Kind: node.Symbol.Kind,
				FilePath: relPath(root, filePath), Line: node.Symbol.Line,
				IsExported: node.Symbol.IsExported, Visibility: node.Symbol.Visibility,
			})
		}

		for _, e := range g.InEdges(id, codegraph.EdgeCalls) {
			if n, ok := namedRefFor(g, root, e.From); ok {
				ctx.Callers = append(ctx.Callers, n)
			}
		}
		for _, e := range g.OutEdges(id, codegraph.EdgeCalls) {
			if n, ok := namedRefFor(g, root, e.To); ok {
				ctx.Callees = append(ctx.Callees, n)
			}
		}
		for _, e := range g.OutEdges(fileID, codegraph.EdgeCalls) {
			if n, ok := namedRefFor(g, root, e.To); ok {
				ctx.Callees = append(ctx.Callees, n)
			}
		}
		for _, e := range g.OutEdges(id, codegraph.EdgeExtends) {
			if n, ok := namedRefFor(g, root, e.To); ok {
				ctx.Extends = append(ctx.Extends, n)
			}
		}
		for _, e := range g.OutEdges(id, codegraph.EdgeImplements) {
			if n, ok := namedRefFor(g, root, e.To); ok {
				ctx.Implements = append(ctx.Implements, n)
			}
		}
		for _, e := range g.InEdges(id, codegraph.EdgeExtends) {
			if n, ok := namedRefFor(g, root, e.From); ok {
				ctx.ExtendedBy = append(ctx.ExtendedBy, n)
			}
		}
		for _, e := range g.InEdges(id, codegraph.EdgeImplements) {
			if n, ok := namedRefFor(g, root, e.From); ok {
				ctx.ImplementedBy = append(ctx.ImplementedBy, n)
			}
		}
	}

	sort.Slice(ctx.Definitions, func(i, j int) bool {
		if ctx.Definitions[i].FilePath != ctx.Definitions[j].FilePath {
			return ctx.Definitions[i].FilePath < ctx.Definitions[j].FilePath
		}
		return ctx.Definitions[i].Line < ctx.Definitions[j].Line
	})
	return ctx
}

func namedRefFor(g *codegraph.Graph, root string, id codegraph.NodeID) (NamedRef, bool) {
	node, ok := g.Node(id)
	if !ok {
		return NamedRef{}, false
	}
	if node.Symbol != nil {
		filePath, _, ok := containingFilePath(g, id)
		if !ok {
			return NamedRef{}, false
		}
		return NamedRef{Name: node.Symbol.Name, FilePath: relPath(root, filePath), Line: node.Symbol.Line}, true
	}
	if node.File != nil {
		return NamedRef{Name: node.File.Path, FilePath: relPath(root, node.File.Path)}, true
	}
	return NamedRef{}, false
}
