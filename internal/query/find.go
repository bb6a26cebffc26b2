package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/errs"
)

// kindToStr converts a SymbolKind to the lowercase string used for
// output and kind-filter matching. TypeAlias is the one irregular case;
// everything else is just the kind's name lowercased.
func kindToStr(kind codegraph.SymbolKind) string {
	switch kind {
	case codegraph.SymbolTypeAlias:
		return "type"
	case codegraph.SymbolImplMethod:
		return "implmethod"
	default:
		return strings.ToLower(string(kind))
	}
}

// FindSymbolOptions filters a find_symbol query.
type FindSymbolOptions struct {
	Pattern         string
	CaseInsensitive bool
	KindFilter      string // empty = no filter
	FileFilter      string // path prefix, relative to root
	LanguageFilter  string // empty = no filter
}

// FindSymbol compiles Pattern once and scans every indexed symbol name for a
// match, applying the kind/file/language filters, and returns matches
// sorted by (file path, line).
func FindSymbol(g *codegraph.Graph, root string, opts FindSymbolOptions) ([]SymbolMatch, error) {
	pattern := opts.Pattern
	if opts.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", opts.Pattern, errs.ErrUserInput)
	}

	var matches []SymbolMatch
	for _, name := range g.AllSymbolNames() {
		if !re.MatchString(name) {
			continue
		}
		for _, id := range g.SymbolsByName(name) {
			node, ok := g.Node(id)
			if !ok || node.Symbol == nil {
				continue
			}
			if opts.KindFilter != "" && kindToStr(node.Symbol.Kind) != opts.KindFilter {
				continue
			}

			filePath, fileID, ok := containingFilePath(g, id)
			if !ok {
				continue
			}
			rel := relPath(root, filePath)
			if opts.FileFilter != "" && !strings.HasPrefix(rel, opts.FileFilter) {
				continue
			}
			if opts.LanguageFilter != "" {
				fileNode, _ := g.Node(fileID)
				if fileNode.File == nil || string(fileNode.File.Language) != opts.LanguageFilter {
					continue
				}
			}

			matches = append(matches, SymbolMatch{
				Name:       node.Symbol.Name,
				Kind:       node.Symbol.Kind,
				FilePath:   rel,
				Line:       node.Symbol.Line,
				IsExported: node.Symbol.IsExported,
				Visibility: node.Symbol.Visibility,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].FilePath != matches[j].FilePath {
			return matches[i].FilePath < matches[j].FilePath
		}
		return matches[i].Line < matches[j].Line
	})
	return matches, nil
}
