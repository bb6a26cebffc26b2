package resolve

import (
	"path/filepath"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
	"github.com/MonsieurBarti/code-graph-ai/internal/parse"
)

// Run orchestrates the full resolution pipeline (§4.9) over a graph that
// already has every file, symbol, and raw import/export edge added by the
// parsing phase: TS/JS file resolution, Rust use resolution, symbol-level
// relationship wiring, then the two barrel passes.
func Run(g *codegraph.Graph, projectRoot string, results map[string]parse.ParseResult) {
	tsFiles, rustFiles := splitByLanguage(g, results)
	tsResolver := NewTSResolver(projectRoot, g.AllFilePaths())

	resolveTSFiles(g, tsResolver, tsFiles, results)
	resolveRustFiles(g, projectRoot, rustFiles)
	wireRelationships(g, results)

	ResolveBarrelPassA(g, tsResolver, results)
	ResolveBarrelPassB(g, results)
}

func splitByLanguage(g *codegraph.Graph, results map[string]parse.ParseResult) (tsFiles, rustFiles []string) {
	for filePath := range results {
		id, ok := g.FileID(filePath)
		if !ok {
			continue
		}
		node, ok := g.Node(id)
		if !ok || node.File == nil {
			continue
		}
		if node.File.Language == lang.Rust {
			rustFiles = append(rustFiles, filePath)
		} else {
			tsFiles = append(tsFiles, filePath)
		}
	}
	return tsFiles, rustFiles
}

func resolveTSFiles(g *codegraph.Graph, resolver *TSResolver, tsFiles []string, results map[string]parse.ParseResult) {
	for _, filePath := range tsFiles {
		fileID, ok := g.FileID(filePath)
		if !ok {
			continue
		}
		for _, imp := range results[filePath].Imports {
			outcome := resolver.ResolveImport(filePath, imp.ModulePath)
			applyTSOutcome(g, fileID, imp.ModulePath, outcome)
		}
	}
}

func applyTSOutcome(g *codegraph.Graph, fileID codegraph.NodeID, specifier string, outcome Outcome) {
	switch outcome.Kind {
	case Resolved:
		if targetID, ok := g.FileID(outcome.Path); ok {
			g.AddResolvedImport(fileID, targetID, specifier)
			return
		}
		fallthrough
	case Unresolved:
		if !isRelativeSpecifier(specifier) {
			g.AddExternalPackage(fileID, packageRoot(specifier), specifier)
		} else {
			g.AddUnresolvedImport(fileID, specifier, outcome.Reason)
		}
	case BuiltinModule:
		g.AddUnresolvedImport(fileID, specifier, "builtin")
	}
}

func resolveRustFiles(g *codegraph.Graph, root string, rustFiles []string) {
	if len(rustFiles) == 0 {
		return
	}

	crates := DiscoverRustWorkspace(root)
	crateRootIDs := make(map[string]codegraph.NodeID)
	modTrees := make(map[string]*ModTree)
	fileToCrate := make(map[string]string)

	for _, c := range crates {
		tree := BuildModTree(c.RootFile, readFileSource, extractRustModDecls)
		relTree := relativizeModTree(tree, root)
		modTrees[c.Name] = relTree

		if relRoot, ok := toProjectRelative(root, c.RootFile); ok {
			if id, ok := g.FileID(relRoot); ok {
				crateRootIDs[c.Name] = id
			}
		}
		for relFile := range relTree.ReverseMap {
			fileToCrate[relFile] = c.Name
		}
	}

	for _, filePath := range rustFiles {
		fileID, ok := g.FileID(filePath)
		if !ok {
			continue
		}
		crateName := fileToCrate[filePath]
		ResolveRustFile(g, fileID, crateName, modTrees[crateName], filePath, crateRootIDs)
	}
}

// relativizeModTree converts a ModTree built from absolute filesystem paths
// into one keyed by project-relative paths, matching how files are indexed
// in the graph.
func relativizeModTree(tree *ModTree, root string) *ModTree {
	out := &ModTree{ModMap: map[string]string{}, ReverseMap: map[string]string{}}
	for modPath, file := range tree.ModMap {
		if rel, ok := toProjectRelative(root, file); ok {
			out.ModMap[modPath] = rel
		}
	}
	for file, modPath := range tree.ReverseMap {
		if rel, ok := toProjectRelative(root, file); ok {
			out.ReverseMap[rel] = modPath
		}
	}
	return out
}

func toProjectRelative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// wireRelationships resolves the from_name/to_name pairs recorded by the
// parser into Calls/Extends/Implements edges. When several files declare
// the same name, the candidate contained by the importing/declaring file is
// preferred; otherwise ties break by first symbol_index match.
func wireRelationships(g *codegraph.Graph, results map[string]parse.ParseResult) {
	for filePath, pr := range results {
		fileID, ok := g.FileID(filePath)
		if !ok {
			continue
		}
		for _, rel := range pr.Relationships {
			toID, ok := pickSymbolCandidate(g, rel.ToName, fileID, rel.Kind == parse.RelCalls)
			if !ok {
				continue
			}
			switch rel.Kind {
			case parse.RelCalls:
				g.AddCallsEdge(fileID, toID)
			case parse.RelExtends:
				if fromID, ok := pickSymbolCandidate(g, rel.FromName, fileID, false); ok {
					g.AddExtendsEdge(fromID, toID)
				}
			case parse.RelImplements:
				if fromID, ok := pickSymbolCandidate(g, rel.FromName, fileID, false); ok {
					g.AddImplementsEdge(fromID, toID)
				}
			}
		}
	}
}

// pickSymbolCandidate resolves a bare name to exactly one symbol node:
// prefer the one declared in preferFile, else the first match in
// symbol_index order. Calls additionally require the candidate set to be
// unambiguous globally when no in-file candidate exists.
func pickSymbolCandidate(g *codegraph.Graph, name string, preferFile codegraph.NodeID, requireUnique bool) (codegraph.NodeID, bool) {
	if name == "" {
		return 0, false
	}
	candidates := g.SymbolsByName(name)
	if len(candidates) == 0 {
		return 0, false
	}

	for _, id := range candidates {
		if containingFile, ok := g.ContainingFile(id); ok && containingFile == preferFile {
			return id, true
		}
	}

	if len(candidates) == 1 || !requireUnique {
		return candidates[0], true
	}
	return 0, false
}
