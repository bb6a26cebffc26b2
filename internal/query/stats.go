package query

import "github.com/MonsieurBarti/code-graph-ai/internal/codegraph"

// GetStats returns a snapshot of overall graph size.
func GetStats(g *codegraph.Graph) codegraph.Stats {
	return g.Stats()
}
