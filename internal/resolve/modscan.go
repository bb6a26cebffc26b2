package resolve

import (
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// readFileSource reads a file's contents as a string for mod-tree walking.
func readFileSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

// extractRustModDecls collects top-level `mod name;` declarations (no body
// child; inline `mod name { ... }` is skipped per the module-tree
// construction rules).
func extractRustModDecls(source string) []string {
	language := tree_sitter.NewLanguage(tree_sitter_rust.Language())
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return nil
	}

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var mods []string
	count := root.ChildCount()
	for i := uint(0); i < count; i++ {
		child := root.Child(i)
		if child == nil || child.Kind() != "mod_item" {
			continue
		}
		if child.ChildByFieldName("body") != nil {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		mods = append(mods, nameNode.Utf8Text(src))
	}
	return mods
}
