// Package cache persists a built graph to disk so the next run (or the tool
// server's resolve_graph hot path) can skip a full re-parse when nothing
// relevant has changed on disk.
package cache

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/parse"
)

// Version bumps whenever the graph's node/edge shape changes in a way that
// would break gob decoding of an older cache, forcing a rebuild instead of a
// decode failure or silent corruption.
const Version uint32 = 1

// DirName is the cache directory created in the project root.
const DirName = ".code-graph"

// FileName is the cache file within DirName.
const FileName = "graph.bin"

// FileMeta is the mtime and size recorded for one cached file, used to
// decide whether the cache is stale without re-parsing anything.
type FileMeta struct {
	MtimeSecs int64
	Size      int64
}

// Envelope wraps the serialized graph with version and staleness metadata.
// Results retains each file's raw parse output so a later staleness-diff
// rebuild can resolve across the full current file set while reparsing only
// the changed/new subset.
type Envelope struct {
	Version     uint32
	ProjectRoot string
	FileMtimes  map[string]FileMeta
	Nodes       []codegraph.NodeState
	Edges       []codegraph.Edge
	Results     map[string]parse.ParseResult
}

// Path builds the cache file path for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, DirName, FileName)
}

// CollectFileMtimes stats every file path currently indexed in the graph,
// recording mtime and size for later staleness comparison. Files that no
// longer stat successfully are simply omitted.
func CollectFileMtimes(projectRoot string, paths []string) map[string]FileMeta {
	mtimes := make(map[string]FileMeta, len(paths))
	for _, rel := range paths {
		abs := rel
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(projectRoot, rel)
		}
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		mtimes[rel] = FileMeta{MtimeSecs: info.ModTime().Unix(), Size: info.Size()}
	}
	return mtimes
}

// Save writes the graph to <projectRoot>/.code-graph/graph.bin atomically: a
// temp file in the same directory, gob-encoded, then renamed into place.
// results may be nil when the caller has no raw parse output to retain (the
// next load then only supports the exact-match fast path, not a scoped
// partial reparse).
func Save(projectRoot string, g *codegraph.Graph, results map[string]parse.ParseResult) error {
	cacheDir := filepath.Join(projectRoot, DirName)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}

	nodes, edges := g.ExportState()
	envelope := Envelope{
		Version:     Version,
		ProjectRoot: projectRoot,
		FileMtimes:  CollectFileMtimes(projectRoot, g.AllFilePaths()),
		Nodes:       nodes,
		Edges:       edges,
		Results:     results,
	}

	tmp, err := os.CreateTemp(cacheDir, "graph-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := gob.NewEncoder(tmp)
	if err := enc.Encode(envelope); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, Path(projectRoot))
}

// Load reads the cached envelope from disk. ok is false when the cache file
// is absent, corrupt, or was written by a different Version — in every case
// the caller does a full rebuild rather than trusting partial data.
func Load(projectRoot string) (Envelope, bool) {
	f, err := os.Open(Path(projectRoot))
	if err != nil {
		return Envelope{}, false
	}
	defer f.Close()

	var envelope Envelope
	if err := gob.NewDecoder(f).Decode(&envelope); err != nil {
		return Envelope{}, false
	}
	if envelope.Version != Version {
		return Envelope{}, false
	}
	return envelope, true
}

// Graph rebuilds the in-memory graph encoded in the envelope.
func (e Envelope) Graph() *codegraph.Graph {
	return codegraph.RestoreState(e.Nodes, e.Edges)
}

// IsStale reports whether any file in currentMtimes has a different mtime or
// size than what was recorded when the cache was written, or whether the
// file set itself changed (added or removed), per file count.
func (e Envelope) IsStale(currentMtimes map[string]FileMeta) bool {
	if len(currentMtimes) != len(e.FileMtimes) {
		return true
	}
	for path, meta := range currentMtimes {
		cached, ok := e.FileMtimes[path]
		if !ok || cached != meta {
			return true
		}
	}
	return false
}

// Classify partitions the current source set against the cached file_mtimes
// into changed (mtime/size differs), added (new since cache), and deleted
// (cached but no longer present) path sets, for resolve_graph's staleness
// diff.
func (e Envelope) Classify(currentMtimes map[string]FileMeta) (changed, added, deleted []string) {
	for path, meta := range currentMtimes {
		cached, ok := e.FileMtimes[path]
		if !ok {
			added = append(added, path)
		} else if cached != meta {
			changed = append(changed, path)
		}
	}
	for path := range e.FileMtimes {
		if _, ok := currentMtimes[path]; !ok {
			deleted = append(deleted, path)
		}
	}
	return changed, added, deleted
}
