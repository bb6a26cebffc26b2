// Package resolve turns the raw specifiers a ParseResult records into graph
// targets: TS/JS file resolution (this file), Rust module-tree and use
// resolution, barrel re-export chasing, and the driver that orchestrates
// all of them into the final edge set.
package resolve

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// OutcomeKind is the result shape of TS/JS specifier resolution.
type OutcomeKind int

const (
	Resolved OutcomeKind = iota
	BuiltinModule
	Unresolved
)

// Outcome is what resolving one specifier produced.
type Outcome struct {
	Kind   OutcomeKind
	Path   string // relative to project root, for Resolved
	Name   string // builtin module name, for BuiltinModule
	Reason string // for Unresolved
}

var extensionProbeOrder = []string{".ts", ".tsx", ".mts", ".js", ".jsx", ".mjs", ".json", ".node"}

var indexCandidates = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}

// jsAliasOrder implements "`.js` → `{.ts,.tsx,.js}`": a literal `.js`
// specifier probes the TS/TSX source before falling back to a real .js file.
var jsAliasOrder = []string{".ts", ".tsx", ".js"}

var nodeBuiltins = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "cluster": true,
	"crypto": true, "dgram": true, "dns": true, "events": true, "fs": true,
	"http": true, "http2": true, "https": true, "net": true, "os": true,
	"path": true, "perf_hooks": true, "process": true, "punycode": true,
	"querystring": true, "readline": true, "stream": true, "string_decoder": true,
	"timers": true, "tls": true, "tty": true, "url": true, "util": true,
	"v8": true, "vm": true, "worker_threads": true, "zlib": true, "module": true,
	"async_hooks": true, "inspector": true, "repl": true, "trace_events": true,
}

// TSResolver resolves TS/JS import specifiers against a fixed set of files
// known to the graph, tsconfig path aliases, and workspace package aliases.
type TSResolver struct {
	root             string
	fileSet          map[string]bool // project-relative paths present in the graph
	tsconfigPaths    map[string][]string
	baseURL          string
	workspaceAliases map[string]string // package name -> project-relative source dir
}

// NewTSResolver builds a resolver for root, given the set of project-relative
// file paths already known to the graph.
func NewTSResolver(root string, files []string) *TSResolver {
	r := &TSResolver{root: root, fileSet: make(map[string]bool, len(files))}
	for _, f := range files {
		r.fileSet[filepath.ToSlash(f)] = true
	}
	r.loadTSConfig()
	r.workspaceAliases = discoverWorkspaceAliases(root)
	return r
}

func (r *TSResolver) loadTSConfig() {
	path := filepath.Join(r.root, "tsconfig.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var raw struct {
		CompilerOptions struct {
			BaseURL string              `json:"baseUrl"`
			Paths   map[string][]string `json:"paths"`
		} `json:"compilerOptions"`
	}
	if json.Unmarshal(data, &raw) != nil {
		return
	}
	r.baseURL = raw.CompilerOptions.BaseURL
	r.tsconfigPaths = raw.CompilerOptions.Paths
}

// ResolveImport resolves one specifier imported from fromFile (a
// project-relative path).
func (r *TSResolver) ResolveImport(fromFile, specifier string) Outcome {
	if isRelativeSpecifier(specifier) {
		fromDir := filepath.Dir(fromFile)
		if target, ok := r.resolveRelative(fromDir, specifier); ok {
			return Outcome{Kind: Resolved, Path: target}
		}
		return Outcome{Kind: Unresolved, Reason: "file not found"}
	}

	root := packageRoot(specifier)
	if nodeBuiltins[root] || strings.HasPrefix(specifier, "node:") {
		name := strings.TrimPrefix(specifier, "node:")
		return Outcome{Kind: BuiltinModule, Name: packageRoot(name)}
	}

	if target, ok := r.resolveTSConfigPath(specifier); ok {
		return Outcome{Kind: Resolved, Path: target}
	}

	if dir, ok := r.workspaceAliases[root]; ok {
		remainder := strings.TrimPrefix(specifier, root)
		remainder = strings.TrimPrefix(remainder, "/")
		if remainder == "" {
			if target, ok := r.resolveRelative(dir, "./index"); ok {
				return Outcome{Kind: Resolved, Path: target}
			}
		} else if target, ok := r.resolveRelative(dir, "./"+remainder); ok {
			return Outcome{Kind: Resolved, Path: target}
		}
		return Outcome{Kind: Unresolved, Reason: "workspace package entry not found"}
	}

	return Outcome{Kind: Unresolved, Reason: "package not in project"}
}

func (r *TSResolver) resolveTSConfigPath(specifier string) (string, bool) {
	for pattern, targets := range r.tsconfigPaths {
		prefix, hasStar := strings.CutSuffix(pattern, "*")
		if hasStar {
			if !strings.HasPrefix(specifier, prefix) {
				continue
			}
			suffix := strings.TrimPrefix(specifier, prefix)
			for _, target := range targets {
				targetPrefix, _ := strings.CutSuffix(target, "*")
				candidate := filepath.Join(r.baseURL, targetPrefix+suffix)
				if resolved, ok := r.resolveExact(filepath.ToSlash(candidate)); ok {
					return resolved, true
				}
			}
		} else if pattern == specifier {
			for _, target := range targets {
				candidate := filepath.Join(r.baseURL, target)
				if resolved, ok := r.resolveExact(filepath.ToSlash(candidate)); ok {
					return resolved, true
				}
			}
		}
	}
	return "", false
}

// resolveExact probes extension aliasing and indexes for a candidate that
// has no explicit extension, as resolveRelative does for relative imports.
func (r *TSResolver) resolveExact(candidate string) (string, bool) {
	return r.probe(candidate)
}

func (r *TSResolver) resolveRelative(fromDir, specifier string) (string, bool) {
	candidate := filepath.ToSlash(filepath.Join(fromDir, specifier))
	return r.probe(candidate)
}

func (r *TSResolver) probe(candidate string) (string, bool) {
	for _, alias := range jsAliasOrder {
		if strings.HasSuffix(candidate, ".js") {
			aliased := strings.TrimSuffix(candidate, ".js") + alias
			if r.fileSet[aliased] {
				return aliased, true
			}
		}
	}
	if r.fileSet[candidate] {
		return candidate, true
	}
	for _, ext := range extensionProbeOrder {
		if r.fileSet[candidate+ext] {
			return candidate + ext, true
		}
	}
	for _, idx := range indexCandidates {
		joined := candidate + "/" + idx
		if r.fileSet[joined] {
			return joined, true
		}
	}
	return "", false
}

func isRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/")
}

// packageRoot extracts the package-name portion of a bare specifier:
// `@scope/pkg/sub` -> `@scope/pkg`, `lodash/debounce` -> `lodash`.
func packageRoot(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// discoverWorkspaceAliases derives package_name -> source_directory from
// pnpm-workspace.yaml or package.json's `workspaces` field.
func discoverWorkspaceAliases(root string) map[string]string {
	aliases := make(map[string]string)
	patterns := readPnpmWorkspacePatterns(root)
	if patterns == nil {
		patterns = readPackageJSONWorkspaces(root)
	}

	for _, pattern := range patterns {
		matches, _ := filepath.Glob(filepath.Join(root, pattern))
		for _, dir := range matches {
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				continue
			}
			name := readPackageName(dir)
			if name == "" {
				continue
			}
			rel, err := filepath.Rel(root, dir)
			if err != nil {
				continue
			}
			aliases[name] = filepath.ToSlash(rel)
		}
	}
	return aliases
}

// readPnpmWorkspacePatterns implements the minimal line parser: lines after
// `packages:` are collected until a non-indented top-level key, accepting
// `- pattern`, `- 'pattern'`, `- "pattern"`.
func readPnpmWorkspacePatterns(root string) []string {
	f, err := os.Open(filepath.Join(root, "pnpm-workspace.yaml"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	inPackages := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if !inPackages {
			if trimmed == "packages:" {
				inPackages = true
			}
			continue
		}

		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "-") {
			break // next top-level key
		}
		if strings.HasPrefix(trimmed, "- ") {
			item := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			item = strings.Trim(item, `'"`)
			patterns = append(patterns, item)
		}
	}
	return patterns
}

func readPackageJSONWorkspaces(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil
	}
	var raw struct {
		Workspaces json.RawMessage `json:"workspaces"`
	}
	if json.Unmarshal(data, &raw) != nil || raw.Workspaces == nil {
		return nil
	}
	var list []string
	if json.Unmarshal(raw.Workspaces, &list) == nil {
		return list
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if json.Unmarshal(raw.Workspaces, &obj) == nil {
		return obj.Packages
	}
	return nil
}

func readPackageName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var raw struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(data, &raw) != nil {
		return ""
	}
	return raw.Name
}
