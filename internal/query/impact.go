package query

import (
	"sort"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// ImpactedFile is one file reached by the blast-radius traversal.
type ImpactedFile struct {
	FilePath string
	Depth    int
}

// GetImpact computes the blast radius of indices: every file that
// transitively imports a file containing one of them, via ResolvedImport
// edges only.
func GetImpact(g *codegraph.Graph, root string, indices []codegraph.NodeID) []ImpactedFile {
	seedFiles := map[codegraph.NodeID]bool{}
	for _, id := range indices {
		if fileID, ok := g.ContainingFile(id); ok {
			seedFiles[fileID] = true
		} else if node, ok := g.Node(id); ok && node.Kind == codegraph.NodeFile {
			seedFiles[id] = true
		}
	}

	var seeds []codegraph.NodeID
	for id := range seedFiles {
		seeds = append(seeds, id)
	}

	visits := g.ReverseBFS(seeds, codegraph.EdgeResolvedImport)

	var impacted []ImpactedFile
	for _, v := range visits {
		if seedFiles[v.ID] {
			continue
		}
		node, ok := g.Node(v.ID)
		if !ok || node.File == nil {
			continue
		}
		impacted = append(impacted, ImpactedFile{FilePath: relPath(root, node.File.Path), Depth: v.Depth})
	}

	sort.Slice(impacted, func(i, j int) bool {
		if impacted[i].Depth != impacted[j].Depth {
			return impacted[i].Depth < impacted[j].Depth
		}
		return impacted[i].FilePath < impacted[j].FilePath
	})
	return impacted
}
