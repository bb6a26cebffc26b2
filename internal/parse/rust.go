package parse

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

// rustExtractor handles the Rust grammar: function/struct/enum/trait/const
// items, impl blocks (with trait-impl detection), use declarations (kept as
// raw path text for the resolver), and call expressions.
type rustExtractor struct{}

type rustWalkState struct {
	source    []byte
	result    *ParseResult
	enclosing []string
}

func (e *rustExtractor) Extract(_ *tree_sitter.Language, root *tree_sitter.Node, source []byte) ParseResult {
	result := ParseResult{}
	st := &rustWalkState{source: source, result: &result}
	st.walk(root)
	return result
}

func (st *rustWalkState) currentEnclosing() string {
	if len(st.enclosing) == 0 {
		return ""
	}
	return st.enclosing[len(st.enclosing)-1]
}

func (st *rustWalkState) walk(node *tree_sitter.Node) {
	switch node.Kind() {
	case "function_item":
		name := fieldText(node, "name", st.source)
		if name != "" {
			st.result.Symbols = append(st.result.Symbols, SymbolRecord{Info: codegraph.SymbolInfo{
				Name:       name,
				Kind:       codegraph.SymbolFunction,
				Line:       int(node.StartPosition().Row) + 1,
				Col:        int(node.StartPosition().Column),
				IsExported: isRustPub(node),
				Visibility: rustVisibilityText(node, st.source),
			}})
			st.enclosing = append(st.enclosing, name)
			st.walkChildren(node)
			st.enclosing = st.enclosing[:len(st.enclosing)-1]
			return
		}

	case "struct_item":
		st.addSimpleSymbol(node, codegraph.SymbolStruct)

	case "enum_item":
		st.addSimpleSymbol(node, codegraph.SymbolEnum)

	case "trait_item":
		st.addSimpleSymbol(node, codegraph.SymbolTrait)

	case "type_item":
		st.addSimpleSymbol(node, codegraph.SymbolTypeAlias)

	case "const_item":
		st.addSimpleSymbol(node, codegraph.SymbolConst)

	case "static_item":
		st.addSimpleSymbol(node, codegraph.SymbolStatic)

	case "macro_definition":
		st.addSimpleSymbol(node, codegraph.SymbolMacro)

	case "impl_item":
		st.extractImpl(node)
		return

	case "use_declaration":
		st.extractUse(node)

	case "call_expression":
		st.extractCall(node)
	}

	st.walkChildren(node)
}

func (st *rustWalkState) walkChildren(node *tree_sitter.Node) {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		if child := node.Child(i); child != nil {
			st.walk(child)
		}
	}
}

func (st *rustWalkState) addSimpleSymbol(node *tree_sitter.Node, kind codegraph.SymbolKind) {
	name := fieldText(node, "name", st.source)
	if name == "" {
		return
	}
	st.result.Symbols = append(st.result.Symbols, SymbolRecord{Info: codegraph.SymbolInfo{
		Name:       name,
		Kind:       kind,
		Line:       int(node.StartPosition().Row) + 1,
		Col:        int(node.StartPosition().Column),
		IsExported: isRustPub(node),
		Visibility: rustVisibilityText(node, st.source),
	}})
}

// extractImpl handles `impl Type { ... }` and `impl Trait for Type { ... }`.
// The latter emits an Implements relationship (Type -> Trait) and stamps
// every method inside with TraitImpl so the resolver can exempt trait
// implementations from dead-code analysis.
func (st *rustWalkState) extractImpl(node *tree_sitter.Node) {
	traitNode := node.ChildByFieldName("trait")
	typeNode := node.ChildByFieldName("type")

	var traitName, typeName string
	if typeNode != nil {
		typeName = typeNode.Utf8Text(st.source)
	}
	if traitNode != nil {
		traitName = traitNode.Utf8Text(st.source)
	}

	if traitName != "" && typeName != "" {
		st.result.Relationships = append(st.result.Relationships, RelationshipInfo{
			FromName: typeName,
			ToName:   traitName,
			Kind:     RelImplements,
			Line:     int(node.StartPosition().Row) + 1,
		})
	}

	parentRecord := SymbolRecord{}
	hasParent := false

	body := node.ChildByFieldName("body")
	if body != nil {
		count := body.ChildCount()
		for i := uint(0); i < count; i++ {
			member := body.Child(i)
			if member == nil || member.Kind() != "function_item" {
				continue
			}
			name := fieldText(member, "name", st.source)
			if name == "" {
				continue
			}
			info := codegraph.SymbolInfo{
				Name:       name,
				Kind:       codegraph.SymbolImplMethod,
				Line:       int(member.StartPosition().Row) + 1,
				Col:        int(member.StartPosition().Column),
				IsExported: isRustPub(member),
				Visibility: rustVisibilityText(member, st.source),
				TraitImpl:  traitName,
			}
			if typeName != "" {
				// Attach methods as children of a record named after the
				// impl's type. The record is emitted whether or not the type
				// is declared in this file; only an impl with no type name
				// keeps its methods as top-level symbols.
				parentRecord.Info.Name = typeName
				parentRecord.Children = append(parentRecord.Children, info)
				hasParent = true
			} else {
				st.result.Symbols = append(st.result.Symbols, SymbolRecord{Info: info})
			}

			st.enclosing = append(st.enclosing, name)
			st.walkChildren(member)
			st.enclosing = st.enclosing[:len(st.enclosing)-1]
		}
	}

	if hasParent {
		st.result.Symbols = append(st.result.Symbols, parentRecord)
	}
}

func (st *rustWalkState) extractUse(node *tree_sitter.Node) {
	isPub := isRustPub(node)
	argNode := node.ChildByFieldName("argument")
	var path string
	if argNode != nil {
		path = argNode.Utf8Text(st.source)
	} else {
		path = node.Utf8Text(st.source)
	}
	if path == "" {
		return
	}
	st.result.RustUses = append(st.result.RustUses, RustUseInfo{
		Path:     path,
		IsPubUse: isPub,
		Line:     int(node.StartPosition().Row) + 1,
	})
}

func (st *rustWalkState) extractCall(node *tree_sitter.Node) {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return
	}

	var callee string
	switch fnNode.Kind() {
	case "identifier", "scoped_identifier", "field_expression":
		callee = fnNode.Utf8Text(st.source)
	default:
		return
	}
	if callee == "" {
		return
	}

	st.result.Relationships = append(st.result.Relationships, RelationshipInfo{
		FromName: st.currentEnclosing(),
		ToName:   callee,
		Kind:     RelCalls,
		Line:     int(node.StartPosition().Row) + 1,
	})
}

// isRustPub reports whether node's first child is a visibility_modifier,
// i.e. the item is `pub` in some form (`pub`, `pub(crate)`, `pub(super)`).
func isRustPub(node *tree_sitter.Node) bool {
	if node.ChildCount() == 0 {
		return false
	}
	first := node.Child(0)
	return first != nil && first.Kind() == "visibility_modifier"
}

func rustVisibilityText(node *tree_sitter.Node, source []byte) codegraph.SymbolVisibility {
	if node.ChildCount() == 0 {
		return codegraph.VisPrivate
	}
	first := node.Child(0)
	if first == nil || first.Kind() != "visibility_modifier" {
		return codegraph.VisPrivate
	}
	if first.Utf8Text(source) == "pub" {
		return codegraph.VisPub
	}
	return codegraph.VisPubCrate
}
