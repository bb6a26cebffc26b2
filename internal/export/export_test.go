package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

func buildSampleGraph() *codegraph.Graph {
	g := codegraph.New()
	a := g.AddFile("src/a.ts", lang.TypeScript)
	b := g.AddFile("src/b.ts", lang.TypeScript)
	other := g.AddFile("other/c.ts", lang.TypeScript)

	g.AddResolvedImport(b, a, "./a")
	g.AddReExportEdge(other, a, "./a")

	fn := g.AddSymbol(a, codegraph.SymbolInfo{Name: "helper", Kind: codegraph.SymbolFunction, Line: 1, IsExported: true})
	iface := g.AddSymbol(b, codegraph.SymbolInfo{Name: "Shape", Kind: codegraph.SymbolInterface, Line: 1, IsExported: true})
	g.AddImplementsEdge(iface, fn)

	return g
}

func TestRenderDOTFileGranularity(t *testing.T) {
	g := buildSampleGraph()
	out, err := Render(g, "/proj", FormatDOT, GranularityFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph code_graph {"))
	assert.Contains(t, out, `"src/a.ts"`)
	assert.Contains(t, out, "->")
}

func TestRenderDOTPackageGranularityGroupsByFirstSegment(t *testing.T) {
	g := buildSampleGraph()
	out, err := Render(g, "/proj", FormatDOT, GranularityPackage)
	require.NoError(t, err)
	assert.Contains(t, out, "subgraph cluster_src")
	assert.Contains(t, out, "subgraph cluster_other")
}

func TestRenderMermaidFileGranularity(t *testing.T) {
	g := buildSampleGraph()
	out, err := Render(g, "/proj", FormatMermaid, GranularityFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "flowchart TB"))
	assert.Contains(t, out, "-.->") // re-export edge renders dashed
}

func TestRenderMermaidSymbolGranularityShapesByKind(t *testing.T) {
	g := buildSampleGraph()
	out, err := Render(g, "/proj", FormatMermaid, GranularitySymbol)
	require.NoError(t, err)
	assert.Contains(t, out, "([") // function: stadium shape
	assert.Contains(t, out, `{"`) // interface: rhombus shape
}

func TestSanitizeIDPrefixesLeadingDigit(t *testing.T) {
	assert.Equal(t, "n1abc", sanitizeID("1abc"))
	assert.Equal(t, "a_b_c", sanitizeID("a-b.c"))
}

func TestRenderUnknownFormatErrors(t *testing.T) {
	g := buildSampleGraph()
	_, err := Render(g, "/proj", Format("yaml"), GranularityFile)
	assert.Error(t, err)
}
