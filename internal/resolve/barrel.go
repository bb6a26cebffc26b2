package resolve

import (
	"path/filepath"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/parse"
)

// ResolveBarrelPassA adds a BarrelReExportAll edge from every file with an
// `export *` statement to the file it re-exports from, resolving the
// source specifier relative to the barrel file's directory. Unresolvable
// sources are skipped.
func ResolveBarrelPassA(g *codegraph.Graph, resolver *TSResolver, results map[string]parse.ParseResult) {
	for filePath, pr := range results {
		fileID, ok := g.FileID(filePath)
		if !ok {
			continue
		}
		dir := filepath.Dir(filePath)
		for _, exp := range pr.Exports {
			if exp.Kind != parse.ExportReExportAll {
				continue
			}
			target, ok := resolver.resolveRelative(dir, exp.Source)
			if !ok {
				continue
			}
			targetID, ok := g.FileID(target)
			if !ok {
				continue
			}
			g.AddBarrelReExportAll(fileID, targetID)
		}
	}
}

type reexportEntry struct {
	Names  []string
	Source string
}

// ResolveBarrelPassB chases named re-exports through barrel chains: for
// every ResolvedImport edge landing on a file that itself re-exports named
// bindings, it adds a direct ResolvedImport edge from the importer straight
// to the file that actually defines the requested name.
func ResolveBarrelPassB(g *codegraph.Graph, results map[string]parse.ParseResult) {
	barrelReexports := buildBarrelReexportIndex(g, results)
	if len(barrelReexports) == 0 {
		return
	}

	for filePath, pr := range results {
		importerID, ok := g.FileID(filePath)
		if !ok {
			continue
		}

		for _, edge := range g.OutEdges(importerID, codegraph.EdgeResolvedImport) {
			targetFile, ok := fileOf(g, edge.To)
			if !ok {
				continue
			}
			if _, isBarrel := barrelReexports[targetFile]; !isBarrel {
				continue
			}

			requested := requestedNames(pr, edge.Specifier)
			existing := existingTargets(g, importerID)

			for _, name := range requested {
				visited := map[string]bool{}
				definingFile, ok := chaseNamedReexport(barrelReexports, targetFile, name, visited)
				if !ok || definingFile == targetFile {
					continue
				}
				definingID, ok := g.FileID(definingFile)
				if !ok || existing[definingID] {
					continue
				}
				g.AddResolvedImport(importerID, definingID, edge.Specifier)
				existing[definingID] = true
			}
		}
	}
}

func buildBarrelReexportIndex(g *codegraph.Graph, results map[string]parse.ParseResult) map[string][]reexportEntry {
	resolver := &TSResolver{fileSet: make(map[string]bool)}
	for _, p := range g.AllFilePaths() {
		resolver.fileSet[filepath.ToSlash(p)] = true
	}
	index := make(map[string][]reexportEntry)
	for filePath, pr := range results {
		for _, exp := range pr.Exports {
			if exp.Kind != parse.ExportReExport {
				continue
			}
			source, ok := resolver.resolveRelative(filepath.Dir(filePath), exp.Source)
			if !ok {
				continue
			}
			index[filePath] = append(index[filePath], reexportEntry{Names: exp.Names, Source: source})
		}
	}
	return index
}

func chaseNamedReexport(index map[string][]reexportEntry, barrelFile, name string, visited map[string]bool) (string, bool) {
	if visited[barrelFile] {
		return "", false
	}
	visited[barrelFile] = true

	for _, entry := range index[barrelFile] {
		if !containsString(entry.Names, name) {
			continue
		}
		if subEntries, ok := index[entry.Source]; ok && entriesContain(subEntries, name) {
			return chaseNamedReexport(index, entry.Source, name, visited)
		}
		return entry.Source, true
	}
	return "", false
}

func entriesContain(entries []reexportEntry, name string) bool {
	for _, e := range entries {
		if containsString(e.Names, name) {
			return true
		}
	}
	return false
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// requestedNames returns the original (pre-alias) exported names an import
// of modulePath asked for, looked up from the importer's own ParseResult.
func requestedNames(pr parse.ParseResult, modulePath string) []string {
	for _, imp := range pr.Imports {
		if imp.ModulePath == modulePath {
			return imp.Specifiers
		}
	}
	return nil
}

func existingTargets(g *codegraph.Graph, fileID codegraph.NodeID) map[codegraph.NodeID]bool {
	set := make(map[codegraph.NodeID]bool)
	for _, e := range g.OutEdges(fileID, codegraph.EdgeResolvedImport) {
		set[e.To] = true
	}
	return set
}

func fileOf(g *codegraph.Graph, id codegraph.NodeID) (string, bool) {
	node, ok := g.Node(id)
	if !ok || node.File == nil {
		return "", false
	}
	return node.File.Path, true
}
