package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// ModTree maps a crate's module paths (`crate::a::b`) to the files that
// define them, plus the inverse lookup used when rewriting `self::`/
// `super::` relative paths to absolute ones.
type ModTree struct {
	ModMap     map[string]string // "crate::a::b" -> file path
	ReverseMap map[string]string // file path -> "crate::a::b"
}

// dirOwnerFiles are files whose sibling directory (not a `name/` subdir) is
// the probe location for `mod name;` declarations.
var dirOwnerFiles = map[string]bool{"lib.rs": true, "main.rs": true, "mod.rs": true}

// BuildModTree walks the module tree starting at crateRoot, recording every
// file-backed `mod name;` declaration. readSource is injected so tests can
// supply use-declaration-free fixtures without a real parser.
func BuildModTree(crateRoot string, readSource func(path string) (string, error), extractModDecls func(source string) []string) *ModTree {
	tree := &ModTree{ModMap: map[string]string{}, ReverseMap: map[string]string{}}
	visited := map[string]bool{}
	walkModTree(tree, visited, "crate", crateRoot, readSource, extractModDecls)
	return tree
}

func walkModTree(tree *ModTree, visited map[string]bool, modPath, file string, readSource func(string) (string, error), extractModDecls func(string) []string) {
	canonical, err := filepath.Abs(file)
	if err != nil {
		canonical = file
	}
	if visited[canonical] {
		return
	}
	visited[canonical] = true

	tree.ModMap[modPath] = file
	tree.ReverseMap[file] = modPath

	source, err := readSource(file)
	if err != nil {
		return
	}

	dir := probeDir(file)
	for _, name := range extractModDecls(source) {
		childPath := modPath + "::" + name
		if childFile, ok := findModuleFile(dir, name); ok {
			walkModTree(tree, visited, childPath, childFile, readSource, extractModDecls)
		}
	}
}

// probeDir returns the directory to look for `mod name;` targets in: the
// file's own directory for lib.rs/main.rs/mod.rs, else a `name/` directory
// next to the file (Edition 2018+ layout).
func probeDir(file string) string {
	base := filepath.Base(file)
	dir := filepath.Dir(file)
	if dirOwnerFiles[base] {
		return dir
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ".rs"))
}

func findModuleFile(dir, name string) (string, bool) {
	candidate := filepath.Join(dir, name+".rs")
	if fileExists(candidate) {
		return candidate, true
	}
	candidate = filepath.Join(dir, name, "mod.rs")
	if fileExists(candidate) {
		return candidate, true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Lookup resolves a module path, progressively stripping the last
// `::segment` until an exact match is found in ModMap (handles
// `crate::a::b::SymbolName` where only `crate::a::b` is a module).
func (t *ModTree) Lookup(modulePath string) (string, bool) {
	path := modulePath
	for {
		if file, ok := t.ModMap[path]; ok {
			return file, true
		}
		idx := strings.LastIndex(path, "::")
		if idx < 0 {
			return "", false
		}
		path = path[:idx]
	}
}

// FindCrateRoot resolves a crate's entry file: `[lib].path` if present and
// the file exists, else src/lib.rs, else src/main.rs.
func FindCrateRoot(crateDir string, libPath string) (string, bool) {
	if libPath != "" {
		candidate := filepath.Join(crateDir, libPath)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	if candidate := filepath.Join(crateDir, "src", "lib.rs"); fileExists(candidate) {
		return candidate, true
	}
	if candidate := filepath.Join(crateDir, "src", "main.rs"); fileExists(candidate) {
		return candidate, true
	}
	return "", false
}

// NormalizeCrateName applies Cargo's hyphen->underscore normalization used
// when a crate name appears as a Rust path segment.
func NormalizeCrateName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
