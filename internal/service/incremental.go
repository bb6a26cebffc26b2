package service

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
	"github.com/MonsieurBarti/code-graph-ai/internal/parse"
	"github.com/MonsieurBarti/code-graph-ai/internal/resolve"
)

// toProjectRelativePath converts an absolute (or already-relative)
// filesystem path into the slash-separated, root-relative form the graph
// indexes files by.
func toProjectRelativePath(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Project owns the live graph handle for one project root and implements
// watch.Handler's scoped mutation policy: readers always see either the old
// graph or the new one, published atomically under mu, never a partial
// intermediate state.
type Project struct {
	Root   string
	Logger *slog.Logger

	mu     sync.RWMutex
	graph  *codegraph.Graph
	parser *parse.Parser

	onFullRebuild func()
}

// NewProject wraps an already-built graph for root.
func NewProject(root string, g *codegraph.Graph, logger *slog.Logger, onFullRebuild func()) *Project {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Project{Root: root, Logger: logger, graph: g, parser: parse.New(), onFullRebuild: onFullRebuild}
}

// Graph returns the currently published handle. The caller must not mutate
// it; Project publishes a fresh clone on every incremental update instead.
func (p *Project) Graph() *codegraph.Graph {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.graph
}

func (p *Project) publish(g *codegraph.Graph) {
	p.mu.Lock()
	p.graph = g
	p.mu.Unlock()
}

// OnConfigChanged implements watch.Handler: no incremental mutation is
// attempted, the owning server core is signaled to do a full rebuild.
func (p *Project) OnConfigChanged() {
	if p.onFullRebuild != nil {
		p.onFullRebuild()
	}
}

// OnModified implements watch.Handler (§4.13): remove the file's prior
// contribution, reparse it, re-add it, resolve only its own imports/uses,
// wire its relationships, then rewrite any UnresolvedImport nodes that now
// resolve to it.
func (p *Project) OnModified(path string) {
	base := p.Graph()
	clone := base.Clone()

	relPath, ok := toProjectRelativePath(p.Root, path)
	if !ok {
		return
	}

	clone.RemoveFileFromGraph(relPath)

	source, err := os.ReadFile(path)
	if err != nil {
		p.Logger.Warn("incremental read failed", "path", relPath, "error", err)
		p.publish(clone)
		return
	}
	kind, ok := lang.ForPath(relPath)
	if !ok {
		p.publish(clone)
		return
	}
	pr, err := p.parser.Parse(kind, source)
	if err != nil {
		p.Logger.Warn("incremental parse failed", "path", relPath, "error", err)
		p.publish(clone)
		return
	}

	results := map[string]parse.ParseResult{relPath: pr}
	populateGraph(clone, results)
	resolve.Run(clone, p.Root, results)

	rewriteUnresolvedTargeting(clone, relPath)

	p.publish(clone)
}

// OnDeleted implements watch.Handler: capture importers before removing the
// file, then materialize an UnresolvedImport on each one explaining why.
func (p *Project) OnDeleted(path string) {
	base := p.Graph()
	clone := base.Clone()

	relPath, ok := toProjectRelativePath(p.Root, path)
	if !ok {
		return
	}

	fileID, ok := clone.FileID(relPath)
	if !ok {
		return
	}

	type importer struct {
		fileID    codegraph.NodeID
		specifier string
	}
	var importers []importer
	for _, e := range clone.InEdges(fileID, codegraph.EdgeResolvedImport) {
		importers = append(importers, importer{fileID: e.From, specifier: e.Specifier})
	}

	clone.RemoveFileFromGraph(relPath)

	for _, imp := range importers {
		clone.AddUnresolvedImport(imp.fileID, imp.specifier, "target file deleted")
	}

	p.publish(clone)
}

// rewriteUnresolvedTargeting scans existing UnresolvedImport nodes and, for
// any that specify exactly relPath's resolved destination, adds a direct
// ResolvedImport edge to relPath now that it exists in the graph again. The
// UnresolvedImport node and its edge are left in place.
func rewriteUnresolvedTargeting(g *codegraph.Graph, relPath string) {
	targetID, ok := g.FileID(relPath)
	if !ok {
		return
	}
	for _, path := range g.AllFilePaths() {
		fileID, ok := g.FileID(path)
		if !ok {
			continue
		}
		for _, e := range g.OutEdges(fileID, codegraph.EdgeResolvedImport) {
			node, ok := g.Node(e.To)
			if !ok || node.Kind != codegraph.NodeUnresolvedImport {
				continue
			}
			if resolvesToSameFile(node.Unresolved.Specifier, e.Specifier, path, relPath) {
				g.AddResolvedImport(fileID, targetID, e.Specifier)
			}
		}
	}
}

// resolvesToSameFile is a conservative heuristic: a relative specifier that,
// joined to the importing file's directory, names relPath (with or without
// its extension) is treated as now resolving to relPath. The TS/JS resolver
// itself is the authority; this only covers the common case of a file
// reappearing at exactly the path it was deleted from.
func resolvesToSameFile(specifier, edgeSpecifier, fromPath, relPath string) bool {
	if specifier != edgeSpecifier || !strings.HasPrefix(specifier, ".") {
		return false
	}
	joined := filepath.ToSlash(filepath.Join(filepath.Dir(fromPath), specifier))
	return joined == relPath || joined == strings.TrimSuffix(relPath, filepath.Ext(relPath))
}
