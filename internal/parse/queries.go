package parse

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// queryKey identifies a compiled query by grammar and query purpose, since
// the same purpose (e.g. "jsx") compiles to a different pattern per
// grammar.
type queryKey struct {
	lang lang.Kind
	kind string
}

var (
	queryCacheMu sync.Mutex
	queryCache   = mustNewQueryCache()
)

func mustNewQueryCache() *lru.Cache[queryKey, *tree_sitter.Query] {
	c, err := lru.New[queryKey, *tree_sitter.Query](64)
	if err != nil {
		panic(err)
	}
	return c
}

// jsxElementQuery matches any JSX element or self-closing element appearing
// in a function body, used by component detection to tell a factory
// function from a component.
const jsxElementQuery = `[(jsx_element) (jsx_self_closing_element)] @jsx`

// compiledQuery returns the process-wide cached, compiled query for
// (langKind, kind), compiling it under a lock on first use. Concurrent
// extractors across a worker pool share one compiled *tree_sitter.Query per
// (grammar, query-kind) pair rather than recompiling per file.
func compiledQuery(language *tree_sitter.Language, langKind lang.Kind, kind, pattern string) (*tree_sitter.Query, error) {
	key := queryKey{lang: langKind, kind: kind}
	if q, ok := queryCache.Get(key); ok {
		return q, nil
	}

	queryCacheMu.Lock()
	defer queryCacheMu.Unlock()
	if q, ok := queryCache.Get(key); ok {
		return q, nil
	}

	q, _, err := tree_sitter.NewQuery(language, pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %s query for %s: %w", kind, langKind, err)
	}
	queryCache.Add(key, q)
	return q, nil
}

// containsJSX reports whether node's subtree contains a JSX element, using
// the cached jsxElementQuery.
func containsJSX(language *tree_sitter.Language, langKind lang.Kind, node *tree_sitter.Node, source []byte) bool {
	q, err := compiledQuery(language, langKind, "jsx", jsxElementQuery)
	if err != nil {
		return false
	}
	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(q, node, source)
	defer matches.Close()
	return matches.Next() != nil
}
