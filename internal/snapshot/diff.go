package snapshot

import (
	"sort"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// ModifiedSymbol records what changed about a symbol between two snapshots.
type ModifiedSymbol struct {
	FilePath       string
	Name           string
	KindChanged    bool
	OldKind        codegraph.SymbolKind
	NewKind        codegraph.SymbolKind
	LineChanged    bool
	OldLine        int
	NewLine        int
	CallerDelta    int
}

// Diff is the deterministic comparison output between two snapshots.
type Diff struct {
	AddedFiles      []string
	RemovedFiles    []string
	AddedSymbols    []string // "file:name"
	RemovedSymbols  []string // "file:name"
	ModifiedSymbols []ModifiedSymbol
}

// Compare diffs `from` against `to`, applying deterministic sort keys to
// every output list.
func Compare(from, to Snapshot) Diff {
	var d Diff

	for path := range to.Files {
		if _, ok := from.Files[path]; !ok {
			d.AddedFiles = append(d.AddedFiles, path)
		}
	}
	for path := range from.Files {
		if _, ok := to.Files[path]; !ok {
			d.RemovedFiles = append(d.RemovedFiles, path)
		}
	}
	sort.Strings(d.AddedFiles)
	sort.Strings(d.RemovedFiles)

	for path, toFile := range to.Files {
		fromFile, existed := from.Files[path]
		fromSymbols := map[string]SymbolFingerprint{}
		if existed {
			for _, s := range fromFile.Symbols {
				fromSymbols[s.Name] = s
			}
		}
		for _, s := range toFile.Symbols {
			old, existedBefore := fromSymbols[s.Name]
			if !existedBefore {
				d.AddedSymbols = append(d.AddedSymbols, path+":"+s.Name)
				continue
			}
			mod := ModifiedSymbol{FilePath: path, Name: s.Name}
			changed := false
			if old.Kind != s.Kind {
				mod.KindChanged = true
				mod.OldKind, mod.NewKind = old.Kind, s.Kind
				changed = true
			}
			if old.Line != s.Line {
				mod.LineChanged = true
				mod.OldLine, mod.NewLine = old.Line, s.Line
				changed = true
			}
			if old.CallerCount != s.CallerCount {
				mod.CallerDelta = s.CallerCount - old.CallerCount
				changed = true
			}
			if changed {
				d.ModifiedSymbols = append(d.ModifiedSymbols, mod)
			}
		}
	}

	for path, fromFile := range from.Files {
		toFile, stillExists := to.Files[path]
		toSymbols := map[string]bool{}
		if stillExists {
			for _, s := range toFile.Symbols {
				toSymbols[s.Name] = true
			}
		}
		for _, s := range fromFile.Symbols {
			if !toSymbols[s.Name] {
				d.RemovedSymbols = append(d.RemovedSymbols, path+":"+s.Name)
			}
		}
	}

	sort.Strings(d.AddedSymbols)
	sort.Strings(d.RemovedSymbols)
	sort.Slice(d.ModifiedSymbols, func(i, j int) bool {
		if d.ModifiedSymbols[i].FilePath != d.ModifiedSymbols[j].FilePath {
			return d.ModifiedSymbols[i].FilePath < d.ModifiedSymbols[j].FilePath
		}
		return d.ModifiedSymbols[i].Name < d.ModifiedSymbols[j].Name
	})

	return d
}
