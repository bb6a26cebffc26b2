package parse

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// extractor walks a parsed tree and produces a ParseResult. One instance
// exists per language kind; instances hold no per-file state so a single
// extractor is reused across every file of its language.
type extractor interface {
	Extract(language *tree_sitter.Language, root *tree_sitter.Node, source []byte) ParseResult
}

// Parser dispatches a file to the grammar matching its language kind. A new
// tree-sitter parser is created per Parse call: individual calls are safe to
// run concurrently from a worker pool, since go-tree-sitter's Parser type
// itself is not.
type Parser struct {
	languages  map[lang.Kind]*tree_sitter.Language
	extractors map[lang.Kind]extractor
}

// New registers the TypeScript, TSX, JavaScript, and Rust grammars. TS and
// TSX are distinct grammars and must never be substituted for each other:
// the TypeScript grammar cannot parse JSX, and the TSX grammar rejects the
// `<Type>value` angle-bracket type-assertion syntax TS allows.
func New() *Parser {
	languages := map[lang.Kind]*tree_sitter.Language{
		lang.TypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		lang.TSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		lang.JavaScript:  tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
		lang.Rust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
	}

	return &Parser{
		languages: languages,
		extractors: map[lang.Kind]extractor{
			lang.TypeScript: &tsExtractor{},
			lang.TSX:        &tsExtractor{},
			lang.JavaScript: &tsExtractor{},
			lang.Rust:       &rustExtractor{},
		},
	}
}

// Parse extracts symbols, imports, exports, relationships, and (for Rust)
// use declarations from a single file's source bytes.
func (p *Parser) Parse(kind lang.Kind, source []byte) (ParseResult, error) {
	language, ok := p.languages[kind]
	if !ok {
		return ParseResult{}, fmt.Errorf("unsupported language: %s", kind)
	}
	ext := p.extractors[kind]

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(language); err != nil {
		return ParseResult{}, fmt.Errorf("set language %s: %w", kind, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return ParseResult{}, fmt.Errorf("parse error: tree-sitter returned nil tree")
	}
	defer tree.Close()

	return ext.Extract(language, tree.RootNode(), source), nil
}
