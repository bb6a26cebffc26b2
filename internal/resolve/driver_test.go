package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
	"github.com/MonsieurBarti/code-graph-ai/internal/parse"
)

func TestResolveTSImportsClassifiesOutcomes(t *testing.T) {
	g := codegraph.New()
	a := g.AddFile("src/a.ts", lang.TypeScript)
	g.AddFile("src/b.ts", lang.TypeScript)

	results := map[string]parse.ParseResult{
		"src/a.ts": {Imports: []parse.ImportInfo{
			{Kind: parse.ImportESM, ModulePath: "./b"},
			{Kind: parse.ImportESM, ModulePath: "react"},
			{Kind: parse.ImportESM, ModulePath: "./missing"},
			{Kind: parse.ImportESM, ModulePath: "fs"},
		}},
		"src/b.ts": {},
	}

	Run(g, "/proj", results)

	edges := g.OutEdges(a, codegraph.EdgeResolvedImport)
	require.Len(t, edges, 4)

	specifiers := map[string]bool{}
	for _, e := range edges {
		specifiers[e.Specifier] = true
	}
	assert.True(t, specifiers["./b"])
	assert.True(t, specifiers["react"])
	assert.True(t, specifiers["./missing"])
	assert.True(t, specifiers["fs"])
}

func TestWireRelationshipsAddsCallsEdge(t *testing.T) {
	g := codegraph.New()
	fileID := g.AddFile("src/a.ts", lang.TypeScript)
	g.AddSymbol(fileID, codegraph.SymbolInfo{Name: "helper", Kind: codegraph.SymbolFunction})

	results := map[string]parse.ParseResult{
		"src/a.ts": {Relationships: []parse.RelationshipInfo{
			{ToName: "helper", Kind: parse.RelCalls},
		}},
	}

	Run(g, "/proj", results)

	edges := g.OutEdges(fileID, codegraph.EdgeCalls)
	require.Len(t, edges, 1)
}

func TestBarrelPassBChasesToDefiningFile(t *testing.T) {
	g := codegraph.New()
	importer := g.AddFile("src/consumer.ts", lang.TypeScript)
	barrel := g.AddFile("src/index.ts", lang.TypeScript)
	defining := g.AddFile("src/widget.ts", lang.TypeScript)

	results := map[string]parse.ParseResult{
		"src/consumer.ts": {Imports: []parse.ImportInfo{
			{Kind: parse.ImportESM, ModulePath: "./index", Specifiers: []string{"Widget"}},
		}},
		"src/index.ts": {Exports: []parse.ExportInfo{
			{Kind: parse.ExportReExport, Names: []string{"Widget"}, Source: "./widget"},
		}},
		"src/widget.ts": {},
	}

	Run(g, "/proj", results)

	_ = barrel
	edges := g.OutEdges(importer, codegraph.EdgeResolvedImport)
	var toDefining bool
	for _, e := range edges {
		if e.To == defining {
			toDefining = true
		}
	}
	assert.True(t, toDefining)
}

func TestRustBuiltinAndExternalClassification(t *testing.T) {
	g := codegraph.New()
	fileID := g.AddFile("src/lib.rs", lang.Rust)
	g.AddRustImportPlaceholder(fileID, "std::collections::HashMap")
	g.AddRustImportPlaceholder(fileID, "serde::Deserialize")

	results := map[string]parse.ParseResult{"src/lib.rs": {}}
	Run(g, "/proj", results)

	var sawBuiltin, sawExternal bool
	for _, e := range g.OutEdges(fileID, codegraph.EdgeResolvedImport) {
		node, _ := g.Node(e.To)
		if node.Kind == codegraph.NodeBuiltin {
			sawBuiltin = true
		}
		if node.Kind == codegraph.NodeExternalPackage {
			sawExternal = true
		}
	}
	assert.True(t, sawBuiltin)
	assert.True(t, sawExternal)
}
