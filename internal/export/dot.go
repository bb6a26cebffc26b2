package export

import (
	"fmt"
	"strings"
)

// renderDOT emits a `digraph code_graph` per §6.3: package granularity
// emits one `subgraph cluster_<id>` block per package holding only an
// invisible anchor node (the package's files are not listed inside it),
// with aggregated inter-package edge counts; file and symbol granularity
// emit a flat graph.
func renderDOT(data graphData) string {
	var sb strings.Builder
	sb.WriteString("digraph code_graph {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [style=filled fontname=monospace];\n")

	if data.granularity == GranularityPackage {
		for _, n := range data.nodes {
			fmt.Fprintf(&sb, "  subgraph %s {\n    label=%q;\n    %s_anchor [shape=point style=invis];\n  }\n",
				n.id, n.label, n.id)
		}
	} else {
		for _, n := range data.nodes {
			shape := "box"
			if n.isSymbol {
				shape = symbolKindShapeDOT(n.kind)
			}
			fmt.Fprintf(&sb, "  %s [label=%q shape=%s];\n", n.id, n.label, shape)
		}
	}

	for _, e := range data.edges {
		attrs := ""
		if e.count > 1 {
			attrs = fmt.Sprintf(" [label=%q]", fmt.Sprintf("%d", e.count))
		} else if e.isReexport {
			attrs = " [style=dashed]"
		}
		fmt.Fprintf(&sb, "  %s -> %s%s;\n", e.from, e.to, attrs)
	}

	sb.WriteString("}\n")
	return sb.String()
}
