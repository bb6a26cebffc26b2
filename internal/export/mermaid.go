package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

var mermaidEscaper = strings.NewReplacer(
	`"`, `&quot;`, `<`, `&lt;`, `>`, `&gt;`, `{`, `&#123;`, `}`, `&#125;`,
)

// renderMermaid emits a `flowchart TB` per §6.3: package granularity emits
// one empty `subgraph <id>["label"] … end` block per package (the package's
// files are not listed inside it) plus the aggregated inter-package edges;
// node shapes vary by symbol kind; re-export/implements edges render dashed.
func renderMermaid(data graphData) string {
	var sb strings.Builder
	sb.WriteString("flowchart TB\n")

	switch data.granularity {
	case GranularityPackage:
		for _, n := range data.nodes {
			fmt.Fprintf(&sb, "  subgraph %s[\"%s\"]\n  end\n", n.id, mermaidEscaper.Replace(n.label))
		}
	default:
		for _, n := range data.nodes {
			label := mermaidEscaper.Replace(shortPath(n.label))
			open, close := "[", "]"
			if n.isSymbol {
				open, close = mermaidShapeFor(n.kind)
			}
			fmt.Fprintf(&sb, "  %s%s\"%s\"%s\n", n.id, open, label, close)
		}
	}

	for _, e := range data.edges {
		arrow := "-->"
		if e.isReexport || e.isImplements {
			arrow = "-.->"
		}
		if e.count > 1 {
			fmt.Fprintf(&sb, "  %s %s|%d| %s\n", e.from, arrow, e.count, e.to)
		} else {
			fmt.Fprintf(&sb, "  %s %s %s\n", e.from, arrow, e.to)
		}
	}

	return sb.String()
}

// mermaidShapeFor returns the open/close shape delimiters for a symbol
// kind's display: rectangle default, stadium for callables, rhombus for
// type-defining kinds.
func mermaidShapeFor(kind codegraph.SymbolKind) (string, string) {
	switch kind {
	case codegraph.SymbolFunction, codegraph.SymbolMethod, codegraph.SymbolImplMethod:
		return "([", "])"
	case codegraph.SymbolInterface, codegraph.SymbolTrait, codegraph.SymbolClass,
		codegraph.SymbolStruct, codegraph.SymbolEnum, codegraph.SymbolTypeAlias, codegraph.SymbolComponent:
		return "{", "}"
	default:
		return "[", "]"
	}
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
