package query

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// StructureSymbol is one top-level symbol shown under a source file entry.
type StructureSymbol struct {
	Name       string
	Kind       codegraph.SymbolKind
	Visibility codegraph.SymbolVisibility
	IsExported bool
}

// StructureNode is one entry in the directory tree: either a directory with
// children, a source file with its top-level symbols, or a non-source file
// with a kind tag.
type StructureNode struct {
	Name      string
	IsDir     bool
	FileKind  lang.FileKind
	Symbols   []StructureSymbol
	Children  []*StructureNode
	Truncated int // when > 0, this node is a synthetic "N more items" marker
}

// GetStructure builds a directory tree of every indexed file under base
// (project-relative), truncating the listing at maxPerLevel items per
// directory to keep huge trees printable.
func GetStructure(g *codegraph.Graph, root, base string, maxPerLevel int) *StructureNode {
	baseAbs := base
	if base != "" && !filepath.IsAbs(base) {
		baseAbs = filepath.Join(root, base)
	}
	if baseAbs == "" {
		baseAbs = root
	}

	type fileEntry struct {
		relToBase string
		fileID    codegraph.NodeID
	}

	var entries []fileEntry
	for _, p := range g.AllFilePaths() {
		fileID, ok := g.FileID(p)
		if !ok {
			continue
		}
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, p)
		}
		rel, err := filepath.Rel(baseAbs, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		entries = append(entries, fileEntry{relToBase: filepath.ToSlash(rel), fileID: fileID})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].relToBase < entries[j].relToBase })

	rootNode := &StructureNode{Name: filepath.Base(baseAbs), IsDir: true}
	dirIndex := map[string]*StructureNode{"": rootNode}

	ensureDir := func(dirPath string) *StructureNode {
		if n, ok := dirIndex[dirPath]; ok {
			return n
		}
		parts := strings.Split(dirPath, "/")
		cur := rootNode
		curPath := ""
		for _, part := range parts {
			if curPath == "" {
				curPath = part
			} else {
				curPath = curPath + "/" + part
			}
			if n, ok := dirIndex[curPath]; ok {
				cur = n
				continue
			}
			child := &StructureNode{Name: part, IsDir: true}
			cur.Children = append(cur.Children, child)
			dirIndex[curPath] = child
			cur = child
		}
		return cur
	}

	for _, e := range entries {
		dir := filepath.Dir(e.relToBase)
		if dir == "." {
			dir = ""
		}
		parent := ensureDir(dir)

		node, ok := g.Node(e.fileID)
		if !ok || node.File == nil {
			continue
		}
		fileNode := &StructureNode{Name: filepath.Base(e.relToBase), FileKind: lang.Source}

		if _, isSourceLang := lang.ForPath(node.File.Path); isSourceLang {
			for _, ce := range g.OutEdges(e.fileID, codegraph.EdgeContains) {
				sym, ok := g.Node(ce.To)
				if !ok || sym.Symbol == nil {
					continue
				}
				fileNode.Symbols = append(fileNode.Symbols, StructureSymbol{
					Name: sym.Symbol.Name, Kind: sym.Symbol.Kind,
					Visibility: sym.Symbol.Visibility, IsExported: sym.Symbol.IsExported,
				})
			}
			sort.Slice(fileNode.Symbols, func(i, j int) bool {
				return fileNode.Symbols[i].Name < fileNode.Symbols[j].Name
			})
		} else {
			fileNode.FileKind = lang.ClassifyFileKind(node.File.Path)
		}

		parent.Children = append(parent.Children, fileNode)
	}

	truncateLevel(rootNode, maxPerLevel)
	return rootNode
}

// truncateLevel caps each directory's direct children at maxPerLevel,
// appending a Truncated marker for the remainder, and recurses into
// surviving subdirectories.
func truncateLevel(node *StructureNode, maxPerLevel int) {
	if maxPerLevel > 0 && len(node.Children) > maxPerLevel {
		kept := node.Children[:maxPerLevel]
		dropped := len(node.Children) - maxPerLevel
		node.Children = append(kept, &StructureNode{Truncated: dropped})
	}
	for _, c := range node.Children {
		if c.IsDir {
			truncateLevel(c, maxPerLevel)
		}
	}
}
