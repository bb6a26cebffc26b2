package query

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// Cycle is one strongly connected component of size > 1 in the file
// ResolvedImport subgraph, with the first file repeated at the end to
// "close" the cycle for display.
type Cycle struct {
	Files []string
}

// DetectCircular builds a transient file-only subgraph using ResolvedImport
// edges exclusively (BarrelReExportAll, Calls, and every other edge kind is
// excluded from cycle analysis) and runs Kosaraju's algorithm over it via
// dominikbraun/graph.
func DetectCircular(g *codegraph.Graph, root string) ([]Cycle, error) {
	fileGraph := graph.New(graph.StringHash, graph.Directed())

	paths := g.AllFilePaths()
	pathToID := make(map[string]codegraph.NodeID, len(paths))
	for _, p := range paths {
		id, ok := g.FileID(p)
		if !ok {
			continue
		}
		rel := relPath(root, p)
		pathToID[rel] = id
		_ = fileGraph.AddVertex(rel)
	}

	for rel, id := range pathToID {
		for _, e := range g.OutEdges(id, codegraph.EdgeResolvedImport) {
			node, ok := g.Node(e.To)
			if !ok || node.Kind != codegraph.NodeFile {
				continue
			}
			targetRel := relPath(root, node.File.Path)
			if targetRel == rel {
				continue
			}
			_ = fileGraph.AddEdge(rel, targetRel)
		}
	}

	sccs, err := graph.StronglyConnectedComponents(fileGraph)
	if err != nil {
		return nil, err
	}

	var cycles []Cycle
	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}
		files := append([]string(nil), scc...)
		sort.Strings(files)
		files = append(files, files[0])
		cycles = append(cycles, Cycle{Files: files})
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Files[0] < cycles[j].Files[0] })
	return cycles, nil
}
