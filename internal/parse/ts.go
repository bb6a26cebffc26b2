package parse

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// tsExtractor handles TypeScript, TSX, and JavaScript alike: the three
// grammars share enough node shapes (function/class/interface declarations,
// import/export statements, call expressions) that one walker with a few
// kind-guarded branches covers all three.
type tsExtractor struct{}

type tsWalkState struct {
	language *tree_sitter.Language
	langKind lang.Kind
	source   []byte
	result   *ParseResult
	// enclosing tracks the name of the function/method the walker is
	// currently inside, used as the From side of Calls relationships.
	enclosing []string
}

func (e *tsExtractor) Extract(language *tree_sitter.Language, root *tree_sitter.Node, source []byte) ParseResult {
	result := ParseResult{}
	st := &tsWalkState{language: language, source: source, result: &result}

	cursor := root.Walk()
	defer cursor.Close()
	st.walk(cursor.Node())
	return result
}

func (st *tsWalkState) currentEnclosing() string {
	if len(st.enclosing) == 0 {
		return ""
	}
	return st.enclosing[len(st.enclosing)-1]
}

func (st *tsWalkState) walk(node *tree_sitter.Node) {
	switch node.Kind() {
	case "function_declaration":
		name := fieldText(node, "name", st.source)
		if name != "" {
			st.addTopSymbol(node, name, st.classifyFunctionLike(node))
			st.enclosing = append(st.enclosing, name)
			st.walkChildren(node)
			st.enclosing = st.enclosing[:len(st.enclosing)-1]
			return
		}

	case "class_declaration":
		name := fieldText(node, "name", st.source)
		if name != "" {
			st.extractClass(node, name)
			return
		}

	case "interface_declaration":
		name := fieldText(node, "name", st.source)
		if name != "" {
			st.extractInterface(node, name)
			return
		}

	case "type_alias_declaration":
		if name := fieldText(node, "name", st.source); name != "" {
			st.addTopSymbol(node, name, codegraph.SymbolTypeAlias)
		}

	case "enum_declaration":
		if name := fieldText(node, "name", st.source); name != "" {
			st.addTopSymbol(node, name, codegraph.SymbolEnum)
		}

	case "lexical_declaration", "variable_declaration":
		st.extractVariableDeclarators(node)

	case "import_statement":
		st.extractImportStatement(node)

	case "export_statement":
		st.extractExportStatement(node)

	case "call_expression":
		st.extractCallExpression(node)

	case "class_heritage":
		st.extractHeritage(node)
	}

	st.walkChildren(node)
}

func (st *tsWalkState) walkChildren(node *tree_sitter.Node) {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		if child := node.Child(i); child != nil {
			st.walk(child)
		}
	}
}

func (st *tsWalkState) addTopSymbol(node *tree_sitter.Node, name string, kind codegraph.SymbolKind) {
	st.result.Symbols = append(st.result.Symbols, SymbolRecord{Info: codegraph.SymbolInfo{
		Name:       name,
		Kind:       kind,
		Line:       int(node.StartPosition().Row) + 1,
		Col:        int(node.StartPosition().Column),
		IsExported: isTSExported(node),
		IsDefault:  isTSDefaultExport(node),
	}})
}

// classifyFunctionLike distinguishes a React component from a plain
// function: an uppercase-named function/arrow whose body contains JSX is a
// Component, everything else is a Function.
func (st *tsWalkState) classifyFunctionLike(node *tree_sitter.Node) codegraph.SymbolKind {
	name := fieldText(node, "name", st.source)
	if name == "" || !startsUpper(name) {
		return codegraph.SymbolFunction
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return codegraph.SymbolFunction
	}
	if containsJSX(st.language, st.langKind, body, st.source) {
		return codegraph.SymbolComponent
	}
	return codegraph.SymbolFunction
}

func (st *tsWalkState) extractClass(node *tree_sitter.Node, name string) {
	record := SymbolRecord{Info: codegraph.SymbolInfo{
		Name:       name,
		Kind:       codegraph.SymbolClass,
		Line:       int(node.StartPosition().Row) + 1,
		Col:        int(node.StartPosition().Column),
		IsExported: isTSExported(node),
		IsDefault:  isTSDefaultExport(node),
	}}

	if body := node.ChildByFieldName("body"); body != nil {
		count := body.ChildCount()
		for i := uint(0); i < count; i++ {
			member := body.Child(i)
			if member == nil {
				continue
			}
			switch member.Kind() {
			case "method_definition":
				if mname := fieldText(member, "name", st.source); mname != "" {
					record.Children = append(record.Children, codegraph.SymbolInfo{
						Name: mname,
						Kind: codegraph.SymbolMethod,
						Line: int(member.StartPosition().Row) + 1,
						Col:  int(member.StartPosition().Column),
					})
					st.enclosing = append(st.enclosing, mname)
					st.walkChildren(member)
					st.enclosing = st.enclosing[:len(st.enclosing)-1]
				}
			case "public_field_definition", "field_definition":
				if pname := fieldText(member, "name", st.source); pname != "" {
					record.Children = append(record.Children, codegraph.SymbolInfo{
						Name: pname,
						Kind: codegraph.SymbolProperty,
						Line: int(member.StartPosition().Row) + 1,
						Col:  int(member.StartPosition().Column),
					})
				}
			}
		}
	}

	st.result.Symbols = append(st.result.Symbols, record)

	if heritage := node.ChildByFieldName("heritage"); heritage != nil {
		st.extractHeritage(heritage, name)
	} else {
		count := node.ChildCount()
		for i := uint(0); i < count; i++ {
			if child := node.Child(i); child != nil && child.Kind() == "class_heritage" {
				st.extractHeritage(child, name)
			}
		}
	}
}

func (st *tsWalkState) extractInterface(node *tree_sitter.Node, name string) {
	record := SymbolRecord{Info: codegraph.SymbolInfo{
		Name:       name,
		Kind:       codegraph.SymbolInterface,
		Line:       int(node.StartPosition().Row) + 1,
		Col:        int(node.StartPosition().Column),
		IsExported: isTSExported(node),
	}}

	if body := node.ChildByFieldName("body"); body != nil {
		count := body.ChildCount()
		for i := uint(0); i < count; i++ {
			member := body.Child(i)
			if member == nil {
				continue
			}
			switch member.Kind() {
			case "property_signature":
				if pname := fieldText(member, "name", st.source); pname != "" {
					record.Children = append(record.Children, codegraph.SymbolInfo{
						Name: pname,
						Kind: codegraph.SymbolProperty,
						Line: int(member.StartPosition().Row) + 1,
						Col:  int(member.StartPosition().Column),
					})
				}
			case "method_signature":
				if mname := fieldText(member, "name", st.source); mname != "" {
					record.Children = append(record.Children, codegraph.SymbolInfo{
						Name: mname,
						Kind: codegraph.SymbolMethod,
						Line: int(member.StartPosition().Row) + 1,
						Col:  int(member.StartPosition().Column),
					})
				}
			}
		}
	}

	st.result.Symbols = append(st.result.Symbols, record)
}

func (st *tsWalkState) extractHeritage(node *tree_sitter.Node, fromName string) {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		clause := node.Child(i)
		if clause == nil {
			continue
		}
		switch clause.Kind() {
		case "extends_clause":
			for _, name := range typeIdentifiers(clause, st.source) {
				st.result.Relationships = append(st.result.Relationships, RelationshipInfo{
					FromName: fromName,
					ToName:   name,
					Kind:     RelExtends,
					Line:     int(clause.StartPosition().Row) + 1,
				})
			}
		case "implements_clause":
			for _, name := range typeIdentifiers(clause, st.source) {
				st.result.Relationships = append(st.result.Relationships, RelationshipInfo{
					FromName: fromName,
					ToName:   name,
					Kind:     RelImplements,
					Line:     int(clause.StartPosition().Row) + 1,
				})
			}
		}
	}
}

func typeIdentifiers(node *tree_sitter.Node, source []byte) []string {
	var names []string
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "type_identifier":
			names = append(names, child.Utf8Text(source))
		default:
			names = append(names, typeIdentifiers(child, source)...)
		}
	}
	return names
}

func (st *tsWalkState) extractVariableDeclarators(node *tree_sitter.Node) {
	exported := isTSExported(node)
	isDefault := isTSDefaultExport(node)
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		valueNode := child.ChildByFieldName("value")
		if nameNode == nil {
			continue
		}
		name := nameNode.Utf8Text(st.source)

		kind := codegraph.SymbolVariable
		if valueNode != nil && (valueNode.Kind() == "arrow_function" || valueNode.Kind() == "function_expression") {
			kind = codegraph.SymbolFunction
			if startsUpper(name) {
				body := valueNode.ChildByFieldName("body")
				if body != nil && containsJSX(st.language, st.langKind, body, st.source) {
					kind = codegraph.SymbolComponent
				}
			}
		}

		st.result.Symbols = append(st.result.Symbols, SymbolRecord{Info: codegraph.SymbolInfo{
			Name:       name,
			Kind:       kind,
			Line:       int(child.StartPosition().Row) + 1,
			Col:        int(child.StartPosition().Column),
			IsExported: exported,
			IsDefault:  isDefault,
		}})

		if valueNode != nil && (valueNode.Kind() == "arrow_function" || valueNode.Kind() == "function_expression") {
			st.enclosing = append(st.enclosing, name)
			st.walkChildren(valueNode)
			st.enclosing = st.enclosing[:len(st.enclosing)-1]
		}
	}
}

func (st *tsWalkState) extractImportStatement(node *tree_sitter.Node) {
	line := int(node.StartPosition().Row) + 1
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	modulePath := unquote(sourceNode.Utf8Text(st.source))
	if modulePath == "" {
		return
	}

	var specifiers []string
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		clause := node.Child(i)
		if clause == nil {
			continue
		}
		switch clause.Kind() {
		case "import_clause":
			specifiers = append(specifiers, importClauseNames(clause, st.source)...)
		}
	}

	st.result.Imports = append(st.result.Imports, ImportInfo{
		Kind:       ImportESM,
		ModulePath: modulePath,
		Specifiers: specifiers,
		Line:       line,
	})
}

func importClauseNames(clause *tree_sitter.Node, source []byte) []string {
	var names []string
	count := clause.ChildCount()
	for i := uint(0); i < count; i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			names = append(names, child.Utf8Text(source))
		case "named_imports":
			sub := child.ChildCount()
			for j := uint(0); j < sub; j++ {
				spec := child.Child(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				if n := fieldText(spec, "name", source); n != "" {
					names = append(names, n)
				}
			}
		case "namespace_import":
			names = append(names, "*")
		}
	}
	return names
}

func (st *tsWalkState) extractExportStatement(node *tree_sitter.Node) {
	line := int(node.StartPosition().Row) + 1
	sourceNode := node.ChildByFieldName("source")

	hasStar := false
	var names []string
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "*":
			hasStar = true
		case "export_clause":
			sub := child.ChildCount()
			for j := uint(0); j < sub; j++ {
				spec := child.Child(j)
				if spec == nil || spec.Kind() != "export_specifier" {
					continue
				}
				if n := fieldText(spec, "name", st.source); n != "" {
					names = append(names, n)
				}
			}
		}
	}

	if sourceNode != nil {
		modulePath := unquote(sourceNode.Utf8Text(st.source))
		if hasStar {
			st.result.Exports = append(st.result.Exports, ExportInfo{Kind: ExportReExportAll, Source: modulePath, Line: line})
		} else {
			st.result.Exports = append(st.result.Exports, ExportInfo{Kind: ExportReExport, Names: names, Source: modulePath, Line: line})
		}
		return
	}

	if len(names) > 0 {
		st.result.Exports = append(st.result.Exports, ExportInfo{Kind: ExportNamed, Names: names, Line: line})
	}
	// `export default ...` / `export function foo() {}` are captured via the
	// IsExported/IsDefault flags stamped on the symbol itself during the
	// declaration walk, not here.
}

func (st *tsWalkState) extractCallExpression(node *tree_sitter.Node) {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return
	}
	line := int(node.StartPosition().Row) + 1

	switch fnNode.Kind() {
	case "identifier":
		name := fnNode.Utf8Text(st.source)
		if name == "require" {
			st.extractRequireCall(node, line)
			return
		}
		if name == "import" {
			st.extractDynamicImport(node, line)
			return
		}
		st.result.Relationships = append(st.result.Relationships, RelationshipInfo{
			FromName: st.currentEnclosing(),
			ToName:   name,
			Kind:     RelCalls,
			Line:     line,
		})
	case "member_expression":
		propNode := fnNode.ChildByFieldName("property")
		if propNode == nil {
			return
		}
		st.result.Relationships = append(st.result.Relationships, RelationshipInfo{
			FromName: st.currentEnclosing(),
			ToName:   propNode.Utf8Text(st.source),
			Kind:     RelCalls,
			Line:     line,
		})
	case "import":
		st.extractDynamicImport(node, line)
	}
}

func (st *tsWalkState) extractRequireCall(node *tree_sitter.Node, line int) {
	args := node.ChildByFieldName("arguments")
	if args == nil || args.ChildCount() == 0 {
		return
	}
	arg := args.Child(0)
	if arg == nil || arg.Kind() != "string" {
		return
	}
	modulePath := unquote(arg.Utf8Text(st.source))
	if modulePath == "" {
		return
	}
	st.result.Imports = append(st.result.Imports, ImportInfo{Kind: ImportCJS, ModulePath: modulePath, Line: line})
}

func (st *tsWalkState) extractDynamicImport(node *tree_sitter.Node, line int) {
	args := node.ChildByFieldName("arguments")
	if args == nil || args.ChildCount() == 0 {
		return
	}
	arg := args.Child(0)
	if arg == nil || arg.Kind() != "string" {
		return
	}
	modulePath := unquote(arg.Utf8Text(st.source))
	if modulePath == "" {
		return
	}
	st.result.Imports = append(st.result.Imports, ImportInfo{Kind: ImportDynamic, ModulePath: modulePath, Line: line})
}

func isTSExported(node *tree_sitter.Node) bool {
	parent := node.Parent()
	return parent != nil && parent.Kind() == "export_statement"
}

func isTSDefaultExport(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "export_statement" {
		return false
	}
	count := parent.ChildCount()
	for i := uint(0); i < count; i++ {
		if child := parent.Child(i); child != nil && child.Kind() == "default" {
			return true
		}
	}
	return false
}

func fieldText(node *tree_sitter.Node, field string, source []byte) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

func unquote(s string) string {
	return strings.Trim(s, "\"'`")
}

func startsUpper(s string) bool {
	if s == "" {
		return false
	}
	r := s[0]
	return r >= 'A' && r <= 'Z'
}
