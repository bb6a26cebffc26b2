// Package mcptools exposes the query layer, build pipeline, and watcher as
// a long-lived tool server: per-path graph cache, lazy watchers, and the
// batch/fuzzy-suggestion conveniences the transport layer delegates to.
package mcptools

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/MonsieurBarti/code-graph-ai/internal/cache"
	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/config"
	"github.com/MonsieurBarti/code-graph-ai/internal/errs"
	"github.com/MonsieurBarti/code-graph-ai/internal/parse"
	"github.com/MonsieurBarti/code-graph-ai/internal/service"
	"github.com/MonsieurBarti/code-graph-ai/internal/walker"
	"github.com/MonsieurBarti/code-graph-ai/internal/watch"
)

// stalenessRebuildThreshold is the fraction of the current source count
// that must be changed or deleted, relative to a loaded cache envelope,
// before a full rebuild is preferred over a scoped reparse.
const stalenessRebuildThreshold = 0.10

type cacheEntry struct {
	graph   *codegraph.Graph
	results map[string]parse.ParseResult
	project *service.Project
}

// Service holds every piece of state the tool contract (spec §4.14) names:
// the default project root, the graph cache, lazily-started watchers, the
// registered-project alias table, and the MCP-facing config limits.
type Service struct {
	logger      *slog.Logger
	defaultRoot string
	mcpConfig   config.MCPConfig

	cacheMu sync.RWMutex
	cache   map[string]*cacheEntry

	watchMu  sync.Mutex
	watchers map[string]*watch.Watcher

	registeredMu sync.RWMutex
	registered   map[string]string
}

// NewService constructs a Service rooted at defaultRoot.
func NewService(defaultRoot string, mcpConfig config.MCPConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Service{
		logger: logger, defaultRoot: defaultRoot, mcpConfig: mcpConfig,
		cache: make(map[string]*cacheEntry), watchers: make(map[string]*watch.Watcher),
		registered: make(map[string]string),
	}
}

// resolveRoot applies a tool call's project_path override over the
// configured default.
func (s *Service) resolveRoot(override string) string {
	if override != "" {
		return override
	}
	return s.defaultRoot
}

// resolveGraph implements the resolve_graph hot path (spec §4.14): fast
// path returns the cached handle under a read lock; the slow path builds
// off any lock and inserts once, then lazily starts the watcher for root.
func (s *Service) resolveGraph(root string) (*codegraph.Graph, error) {
	s.cacheMu.RLock()
	if e, ok := s.cache[root]; ok {
		g := e.graph
		s.cacheMu.RUnlock()
		return g, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	if e, ok := s.cache[root]; ok {
		g := e.graph
		s.cacheMu.Unlock()
		return g, nil
	}
	s.cacheMu.Unlock()

	entry, err := s.buildEntry(root)
	if err != nil {
		return nil, err
	}

	s.cacheMu.Lock()
	if e, ok := s.cache[root]; ok {
		g := e.graph
		s.cacheMu.Unlock()
		return g, nil
	}
	s.cache[root] = entry
	s.cacheMu.Unlock()

	s.startWatcher(root)
	return entry.graph, nil
}

// buildEntry runs the full build-or-load-and-diff procedure off any lock.
func (s *Service) buildEntry(root string) (*cacheEntry, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	w := walker.New(root, cfg.Exclude)
	files, err := w.WalkProject()
	if err != nil {
		return nil, err
	}
	currentMtimes := cache.CollectFileMtimes(root, files)

	if env, ok := cache.Load(root); ok {
		changed, added, deleted := env.Classify(currentMtimes)
		changedOrNew := append(append([]string{}, changed...), added...)

		ratio := 0.0
		if len(files) > 0 {
			ratio = float64(len(changed)+len(deleted)) / float64(len(files))
		}

		switch {
		case len(changedOrNew) == 0 && len(deleted) == 0:
			g := env.Graph()
			return &cacheEntry{graph: g, results: env.Results, project: service.NewProject(root, g, s.logger, s.onConfigChanged(root))}, nil

		case ratio < stalenessRebuildThreshold && env.Results != nil:
			result, err := service.BuildScoped(root, env.Results, changedOrNew, deleted, s.logger)
			if err != nil {
				return nil, err
			}
			if err := cache.Save(root, result.Graph, result.Results); err != nil {
				s.logger.Warn("cache save failed", "root", root, "error", err)
			}
			return &cacheEntry{
				graph: result.Graph, results: result.Results,
				project: service.NewProject(root, result.Graph, s.logger, s.onConfigChanged(root)),
			}, nil
		}
	}

	result, err := service.BuildFull(root, s.logger)
	if err != nil {
		return nil, err
	}
	if err := cache.Save(root, result.Graph, result.Results); err != nil {
		s.logger.Warn("cache save failed", "root", root, "error", err)
	}
	return &cacheEntry{
		graph: result.Graph, results: result.Results,
		project: service.NewProject(root, result.Graph, s.logger, s.onConfigChanged(root)),
	}, nil
}

// onConfigChanged returns the full-rebuild callback a Project invokes when
// its watcher observes a ConfigChanged event: it simply evicts the cache
// entry so the next resolveGraph call for root takes the slow path again.
func (s *Service) onConfigChanged(root string) func() {
	return func() {
		s.cacheMu.Lock()
		delete(s.cache, root)
		s.cacheMu.Unlock()
		s.logger.Info("config changed, scheduling full rebuild", "root", root)
	}
}

// startWatcher lazily starts a single watcher per root, routing its events
// to the cached entry's Project and keeping the cache pointed at whatever
// graph handle the Project most recently published.
func (s *Service) startWatcher(root string) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if _, ok := s.watchers[root]; ok {
		return
	}

	s.cacheMu.RLock()
	entry, ok := s.cache[root]
	s.cacheMu.RUnlock()
	if !ok {
		return
	}

	cfg, _ := config.Load(root)
	w := walker.New(root, cfg.Exclude)
	handler := &publishingHandler{svc: s, root: root, project: entry.project}
	watcher, err := watch.New(root, w, handler)
	if err != nil {
		s.logger.Warn("watcher start failed", "root", root, "error", err)
		return
	}
	s.watchers[root] = watcher
}

// publishingHandler adapts a Project's mutations into cache updates: every
// OnModified/OnDeleted republishes the cache entry's graph handle so
// resolveGraph's fast path sees the new state immediately.
type publishingHandler struct {
	svc     *Service
	root    string
	project *service.Project
}

func (h *publishingHandler) OnConfigChanged() { h.project.OnConfigChanged() }

func (h *publishingHandler) OnModified(path string) {
	h.project.OnModified(path)
	h.republish()
}

func (h *publishingHandler) OnDeleted(path string) {
	h.project.OnDeleted(path)
	h.republish()
}

func (h *publishingHandler) republish() {
	h.svc.cacheMu.Lock()
	defer h.svc.cacheMu.Unlock()
	if e, ok := h.svc.cache[h.root]; ok {
		e.graph = h.project.Graph()
	}
}

// registerProject records an alias for a project path.
func (s *Service) registerProject(path, alias string) {
	s.registeredMu.Lock()
	defer s.registeredMu.Unlock()
	s.registered[path] = alias
}

// listProjects returns a snapshot of every registered path/alias pair.
func (s *Service) listProjects() map[string]string {
	s.registeredMu.RLock()
	defer s.registeredMu.RUnlock()
	out := make(map[string]string, len(s.registered))
	for k, v := range s.registered {
		out[k] = v
	}
	return out
}

func notFoundError(kind, name string, suggestions []string) error {
	if len(suggestions) == 0 {
		return fmt.Errorf("not found: %s %q: %w", kind, name, errs.ErrNotFound)
	}
	return fmt.Errorf("not found: %s %q (did you mean: %v?): %w", kind, name, suggestions, errs.ErrNotFound)
}
