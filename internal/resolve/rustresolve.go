package resolve

import (
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// ResolveRustFile rewrites every RustImport/ReExport placeholder self-loop
// on fileID into its final classification: Builtin, an intra-crate
// ResolvedImport, a cross-workspace ResolvedImport, or an ExternalPackage
// edge (§4.7). crateRootIDs maps a normalized workspace crate name to the
// graph node id of that crate's root file.
func ResolveRustFile(g *codegraph.Graph, fileID codegraph.NodeID, currentCrate string, tree *ModTree, filePath string, crateRootIDs map[string]codegraph.NodeID) {
	placeholders := g.OutEdges(fileID, codegraph.EdgeRustImport, codegraph.EdgeReExport)

	currentModPath := ""
	if tree != nil {
		currentModPath = tree.ReverseMap[filePath]
	}

	for _, e := range placeholders {
		if e.From != fileID || e.To != fileID {
			continue
		}
		classifyRustUse(g, fileID, tree, currentModPath, crateRootIDs, e.Specifier)
	}

	g.RemoveRustImportPlaceholders(fileID)
}

func classifyRustUse(g *codegraph.Graph, fileID codegraph.NodeID, tree *ModTree, currentModPath string, crateRootIDs map[string]codegraph.NodeID, raw string) {
	if isBuiltinRustPath(raw) {
		g.AddBuiltinNode(fileID, firstSegment(raw), raw)
		return
	}

	if strings.HasPrefix(raw, "crate::") || strings.HasPrefix(raw, "self::") || strings.HasPrefix(raw, "super::") {
		absolute, ok := rewriteToAbsoluteModPath(raw, currentModPath)
		if !ok {
			g.AddUnresolvedImport(fileID, raw, "rust: super:: exceeds module depth")
			return
		}
		lookupPath := strings.TrimSuffix(absolute, "::*")
		if tree == nil {
			g.AddUnresolvedImport(fileID, raw, "rust: could not resolve module path")
			return
		}
		targetFile, ok := tree.Lookup(lookupPath)
		if !ok {
			g.AddUnresolvedImport(fileID, raw, "rust: could not resolve module path")
			return
		}
		if targetID, ok := g.FileID(targetFile); ok {
			g.AddResolvedImport(fileID, targetID, raw)
		}
		// Module known but the file wasn't indexed (e.g. excluded):
		// counts as resolved without an edge.
		return
	}

	root := NormalizeCrateName(firstSegment(raw))
	if crateID, ok := crateRootIDs[root]; ok {
		g.AddResolvedImport(fileID, crateID, raw)
		return
	}

	g.AddExternalPackage(fileID, root, raw)
}

func isBuiltinRustPath(raw string) bool {
	switch {
	case raw == "std" || raw == "core" || raw == "alloc":
		return true
	case strings.HasPrefix(raw, "std::"), strings.HasPrefix(raw, "core::"), strings.HasPrefix(raw, "alloc::"):
		return true
	default:
		return false
	}
}

func firstSegment(raw string) string {
	if idx := strings.Index(raw, "::"); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

// rewriteToAbsoluteModPath rewrites `self::`/`super::` prefixed paths to an
// absolute `crate::...` path using the current file's module path. ok is
// false when a `super::` climbs past the crate root.
func rewriteToAbsoluteModPath(raw, currentModPath string) (string, bool) {
	if strings.HasPrefix(raw, "crate::") {
		return raw, true
	}

	modParts := strings.Split(currentModPath, "::")

	if strings.HasPrefix(raw, "self::") {
		rest := strings.TrimPrefix(raw, "self::")
		return joinModPath(modParts, rest), true
	}

	rest := raw
	for strings.HasPrefix(rest, "super::") {
		rest = strings.TrimPrefix(rest, "super::")
		if len(modParts) <= 1 {
			return "", false
		}
		modParts = modParts[:len(modParts)-1]
	}
	return joinModPath(modParts, rest), true
}

func joinModPath(base []string, rest string) string {
	prefix := strings.Join(base, "::")
	if rest == "" {
		return prefix
	}
	return prefix + "::" + rest
}
