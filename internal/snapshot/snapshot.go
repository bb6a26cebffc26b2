// Package snapshot implements lightweight JSON fingerprints of a graph for
// later comparison (get_diff), independent of the binary cache envelope.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// MaxSnapshots caps how many sidecars are retained per project; saving a new
// one beyond this deletes the oldest first.
const MaxSnapshots = 10

// DirName is the snapshot directory created under the project's
// .code-graph directory.
const DirName = "snapshots"

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateName enforces the non-empty, <=64 char, alphanumeric+-+_ rule.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("invalid snapshot name %q: must be 1-64 chars of [A-Za-z0-9_-]", name)
	}
	return nil
}

// SymbolFingerprint is one symbol's fingerprint within a snapshot.
type SymbolFingerprint struct {
	Name        string              `json:"name"`
	Kind        codegraph.SymbolKind `json:"kind"`
	Line        int                 `json:"line"`
	CallerCount int                 `json:"caller_count"`
}

// FileFingerprint is one file's fingerprint within a snapshot.
type FileFingerprint struct {
	SymbolCount   int                 `json:"symbol_count"`
	ImportCount   int                 `json:"import_count"`
	ImporterCount int                 `json:"importer_count"`
	Symbols       []SymbolFingerprint `json:"symbols"`
}

// Snapshot is the full sidecar document.
type Snapshot struct {
	Name        string                     `json:"name"`
	CreatedAt   int64                      `json:"created_at"`
	ProjectRoot string                     `json:"project_root"`
	Files       map[string]FileFingerprint `json:"files"`
}

// Dir returns the snapshot directory for a project root.
func Dir(projectRoot string) string {
	return filepath.Join(projectRoot, ".code-graph", DirName)
}

// Path returns the sidecar path for a named snapshot.
func Path(projectRoot, name string) string {
	return filepath.Join(Dir(projectRoot), name+".json")
}

// FromGraph materializes a Snapshot of g's current state. createdAt is
// passed in by the caller (workflow scripts and this package avoid
// time.Now()/Date.now()-style nondeterminism internally).
func FromGraph(g *codegraph.Graph, root string, name string, createdAt int64) Snapshot {
	snap := Snapshot{Name: name, CreatedAt: createdAt, ProjectRoot: root, Files: map[string]FileFingerprint{}}

	for _, path := range g.AllFilePaths() {
		fileID, ok := g.FileID(path)
		if !ok {
			continue
		}
		fp := FileFingerprint{
			ImportCount:   len(g.OutEdges(fileID, codegraph.EdgeResolvedImport, codegraph.EdgeReExport, codegraph.EdgeBarrelReExportAll)),
			ImporterCount: len(g.InEdges(fileID, codegraph.EdgeResolvedImport)),
		}
		for _, e := range g.OutEdges(fileID, codegraph.EdgeContains) {
			node, ok := g.Node(e.To)
			if !ok || node.Symbol == nil {
				continue
			}
			fp.Symbols = append(fp.Symbols, SymbolFingerprint{
				Name: node.Symbol.Name, Kind: node.Symbol.Kind, Line: node.Symbol.Line,
				CallerCount: len(g.InEdges(e.To, codegraph.EdgeCalls)),
			})
		}
		sort.Slice(fp.Symbols, func(i, j int) bool { return fp.Symbols[i].Line < fp.Symbols[j].Line })
		fp.SymbolCount = len(fp.Symbols)
		snap.Files[path] = fp
	}
	return snap
}

// Save writes the snapshot as pretty JSON under Dir(root), rotating out the
// oldest sidecar first if this write would exceed MaxSnapshots.
func Save(root string, snap Snapshot) error {
	if err := ValidateName(snap.Name); err != nil {
		return err
	}
	dir := Dir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := rotateIfNeeded(dir, snap.Name); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(root, snap.Name), data, 0o644)
}

// Load reads a named snapshot back from disk.
func Load(root, name string) (Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(Path(root, name))
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// rotateIfNeeded deletes the oldest sidecar (by file mtime) when adding
// newName would push the directory over MaxSnapshots. A rewrite of an
// existing snapshot of the same name never counts as growth.
func rotateIfNeeded(dir, newName string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type sidecar struct {
		name    string
		modTime int64
	}
	var existing []sidecar
	alreadyPresent := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := e.Name()
		if filepath.Ext(base) != ".json" {
			continue
		}
		name := base[:len(base)-len(".json")]
		if name == newName {
			alreadyPresent = true
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		existing = append(existing, sidecar{name: name, modTime: info.ModTime().Unix()})
	}

	if alreadyPresent || len(existing) < MaxSnapshots {
		return nil
	}

	sort.Slice(existing, func(i, j int) bool { return existing[i].modTime < existing[j].modTime })
	oldest := existing[0]
	return os.Remove(filepath.Join(dir, oldest.name+".json"))
}

// List returns every snapshot name present for a project, sorted by name.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(Dir(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(".json")])
	}
	sort.Strings(names)
	return names, nil
}
