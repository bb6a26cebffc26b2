package query

import (
	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// ImportCategory classifies one import target.
type ImportCategory string

const (
	ImportInternal  ImportCategory = "Internal"
	ImportWorkspace ImportCategory = "Workspace"
	ImportExternal  ImportCategory = "External"
	ImportBuiltin   ImportCategory = "Builtin"
)

// ImportEntry is one import edge out of a file, in original traversal order.
type ImportEntry struct {
	Specifier  string
	Category   ImportCategory
	Target     string // resolved file path, package name, or builtin name
	IsReExport bool
}

// GetImports lists every import a file makes, classified by category.
// ResolvedImport/RustImport edges landing on a file whose crate name differs
// from the importer's are Workspace; every other file target is Internal. An UnresolvedImport node with reason "builtin" (the outcome
// TS/JS builtin modules resolve to, since Builtin graph nodes are Rust-only)
// still classifies as Builtin; every other unresolved reason is skipped, as
// it carries no usable target. ReExport and BarrelReExportAll edges are
// always Internal and flagged is_reexport.
func GetImports(g *codegraph.Graph, root, filePath string) []ImportEntry {
	fileID, ok := g.FileID(filePath)
	if !ok {
		return nil
	}

	var entries []ImportEntry

	for _, e := range g.OutEdges(fileID,
		codegraph.EdgeResolvedImport, codegraph.EdgeReExport, codegraph.EdgeBarrelReExportAll,
		codegraph.EdgeRustImport) {

		node, ok := g.Node(e.To)
		if !ok {
			continue
		}

		isReexport := e.Label == codegraph.EdgeReExport || e.Label == codegraph.EdgeBarrelReExportAll

		switch node.Kind {
		case codegraph.NodeFile:
			category := classifyFileImport(g, fileID, e.To)
			if isReexport {
				category = ImportInternal
			}
			entries = append(entries, ImportEntry{
				Specifier:  e.Specifier,
				Category:   category,
				Target:     relPath(root, node.File.Path),
				IsReExport: isReexport,
			})
		case codegraph.NodeExternalPackage:
			category := ImportExternal
			if isReexport {
				category = ImportInternal
			}
			entries = append(entries, ImportEntry{
				Specifier: e.Specifier, Category: category, Target: node.External.Name,
				IsReExport: isReexport,
			})
		case codegraph.NodeBuiltin:
			entries = append(entries, ImportEntry{
				Specifier: e.Specifier, Category: ImportBuiltin, Target: node.Builtin.Name,
			})
		case codegraph.NodeUnresolvedImport:
			if node.Unresolved.Reason == "builtin" {
				entries = append(entries, ImportEntry{
					Specifier: e.Specifier, Category: ImportBuiltin, Target: e.Specifier,
				})
			}
		}
	}

	return entries
}

// classifyFileImport distinguishes Internal (same crate/package) from
// Workspace (cross-crate within the same Cargo/pnpm workspace) targets by
// comparing CrateName; when neither file carries a crate name (pure TS/JS
// project) every file-to-file import is Internal.
func classifyFileImport(g *codegraph.Graph, fromFileID, toFileID codegraph.NodeID) ImportCategory {
	from, okFrom := g.Node(fromFileID)
	to, okTo := g.Node(toFileID)
	if !okFrom || !okTo || from.File == nil || to.File == nil {
		return ImportInternal
	}
	if from.File.CrateName != "" && to.File.CrateName != "" && from.File.CrateName != to.File.CrateName {
		return ImportWorkspace
	}
	return ImportInternal
}
