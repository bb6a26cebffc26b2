// Package parse turns a single source file into a language-neutral
// ParseResult using per-grammar tree-sitter extractors. It never touches
// the project graph or the filesystem beyond the bytes it is handed: wiring
// a ParseResult's names into graph node ids is the resolution driver's job.
package parse

import (
	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// ImportKind classifies how a TS/JS import was written.
type ImportKind string

const (
	ImportESM     ImportKind = "esm"
	ImportCJS     ImportKind = "cjs"
	ImportDynamic ImportKind = "dynamic"
)

// ImportInfo is one import/require/dynamic-import statement.
type ImportInfo struct {
	Kind       ImportKind
	ModulePath string
	Specifiers []string // named bindings imported; empty for side-effect-only or `import *`
	Line       int
}

// ExportKind classifies how a TS/JS export was written.
type ExportKind string

const (
	ExportNamed       ExportKind = "named"
	ExportDefault     ExportKind = "default"
	ExportReExport    ExportKind = "reexport"     // export { a, b } from "./mod"
	ExportReExportAll ExportKind = "reexport_all" // export * from "./mod"
)

// ExportInfo is one export statement.
type ExportInfo struct {
	Kind   ExportKind
	Names  []string // empty for ExportReExportAll and bare `export default expr`
	Source string   // module specifier, only set for ExportReExport/ExportReExportAll
	Line   int
}

// RelationshipKind classifies a structural relationship between two names.
type RelationshipKind string

const (
	RelCalls      RelationshipKind = "calls"
	RelExtends    RelationshipKind = "extends"
	RelImplements RelationshipKind = "implements"
)

// RelationshipInfo is a name-level relationship discovered by a context-free
// AST pass. FromName is empty when the call site is not inside a named
// symbol (e.g. top-level statement); the resolution driver fills it in from
// the enclosing file in that case.
type RelationshipInfo struct {
	FromName string
	ToName   string
	Kind     RelationshipKind
	Line     int
}

// RustUseInfo is one `use` (or `pub use`) declaration, stored as the raw
// path text. Classification into Builtin/IntraCrate/CrossWorkspace/External
// happens later, during resolution.
type RustUseInfo struct {
	Path     string
	IsPubUse bool
	Line     int
}

// SymbolRecord pairs a top-level symbol with the child symbols declared
// inside it (interface members, class/impl methods and properties).
type SymbolRecord struct {
	Info     codegraph.SymbolInfo
	Children []codegraph.SymbolInfo
}

// ParseResult is the language-neutral extraction of a single file.
type ParseResult struct {
	Symbols       []SymbolRecord
	Imports       []ImportInfo
	Exports       []ExportInfo
	Relationships []RelationshipInfo
	RustUses      []RustUseInfo
}
