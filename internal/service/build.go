// Package service composes the walker, parser, and resolver into the full
// and incremental graph-build pipelines the tool server drives, applying the
// best-effort failure isolation policy: a bad file is dropped, never aborts
// the build.
package service

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/config"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
	"github.com/MonsieurBarti/code-graph-ai/internal/parse"
	"github.com/MonsieurBarti/code-graph-ai/internal/resolve"
	"github.com/MonsieurBarti/code-graph-ai/internal/walker"
)

// BuildResult is a completed graph plus the best-effort statistics the
// build pipeline promises (skipped file count). Results is retained so a
// later staleness-diff rebuild can resolve across the full current file set
// without reparsing files that did not change.
type BuildResult struct {
	Graph     *codegraph.Graph
	Skipped   int
	FileCount int
	Results   map[string]parse.ParseResult
}

// parseFilesConcurrently reads and parses every file in paths off a shared
// worker pool, dropping (not aborting on) any file that fails to read or
// parse. logger must be non-nil; BuildFull and BuildScoped substitute a
// default logger for nil before calling it.
func parseFilesConcurrently(root string, paths []string, p *parse.Parser, logger *slog.Logger) (map[string]parse.ParseResult, int) {
	results := make(map[string]parse.ParseResult, len(paths))
	var mu sync.Mutex
	var skipped int

	var g errgroup.Group
	g.SetLimit(16)

	for _, relPath := range paths {
		relPath := relPath
		g.Go(func() error {
			kind, ok := lang.ForPath(relPath)
			if !ok {
				return nil
			}
			source, err := os.ReadFile(joinPath(root, relPath))
			if err != nil {
				logger.Warn("skipping unreadable file", "path", relPath, "error", err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			pr, err := p.Parse(kind, source)
			if err != nil {
				logger.Warn("skipping unparsable file", "path", relPath, "error", err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			results[relPath] = pr
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines never return a non-nil error; failures are recorded, not propagated

	return results, skipped
}

// populateGraph adds every file, its symbols (with children), and its raw
// Rust use/pub-use placeholders to g, ahead of resolve.Run.
func populateGraph(g *codegraph.Graph, results map[string]parse.ParseResult) {
	for filePath, pr := range results {
		kind, _ := lang.ForPath(filePath)
		fileID := g.AddFile(filePath, kind)

		for _, rec := range pr.Symbols {
			symID := g.AddSymbol(fileID, rec.Info)
			for _, child := range rec.Children {
				g.AddChildSymbol(symID, child)
			}
		}

		if kind == lang.Rust {
			for _, use := range pr.RustUses {
				if use.IsPubUse {
					g.AddReExportPlaceholder(fileID, use.Path)
				} else {
					g.AddRustImportPlaceholder(fileID, use.Path)
				}
			}
		}
	}
}

// BuildFull walks root, parses every discovered source file in parallel, and
// resolves the full import/relationship graph.
func BuildFull(root string, logger *slog.Logger) (BuildResult, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	cfg, err := config.Load(root)
	if err != nil {
		return BuildResult{}, err
	}

	w := walker.New(root, cfg.Exclude)
	files, err := w.WalkProject()
	if err != nil {
		return BuildResult{}, err
	}

	p := parse.New()
	results, skipped := parseFilesConcurrently(root, files, p, logger)

	g := codegraph.New()
	populateGraph(g, results)
	resolve.Run(g, root, results)

	return BuildResult{Graph: g, Skipped: skipped, FileCount: len(files), Results: results}, nil
}

// BuildScoped reparses only changedOrNew paths, merges the fresh results
// into prevResults (dropping deleted and superseded entries), and rebuilds
// the graph from the merged set so C9 resolves across the full current file
// set per the staleness-diff policy, without reparsing unchanged files.
func BuildScoped(root string, prevResults map[string]parse.ParseResult, changedOrNew, deleted []string, logger *slog.Logger) (BuildResult, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	p := parse.New()
	fresh, skipped := parseFilesConcurrently(root, changedOrNew, p, logger)

	merged := make(map[string]parse.ParseResult, len(prevResults)+len(fresh))
	drop := make(map[string]bool, len(changedOrNew)+len(deleted))
	for _, path := range changedOrNew {
		drop[path] = true
	}
	for _, path := range deleted {
		drop[path] = true
	}
	for path, pr := range prevResults {
		if !drop[path] {
			merged[path] = pr
		}
	}
	for path, pr := range fresh {
		merged[path] = pr
	}

	g := codegraph.New()
	populateGraph(g, merged)
	resolve.Run(g, root, merged)

	return BuildResult{Graph: g, Skipped: skipped, FileCount: len(merged), Results: merged}, nil
}

func joinPath(root, rel string) string {
	if rel == "" {
		return root
	}
	return filepath.Join(root, rel)
}
