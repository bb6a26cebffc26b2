// Package codegraph implements the typed multi-node, labeled-edge directed
// graph described by the data model: files, symbols, external packages,
// Rust builtin crates, and unresolved-import sentinels, connected by
// Contains / ChildOf / Imports / Exports / ResolvedImport / ReExport /
// BarrelReExportAll / RustImport / Calls / Extends / Implements edges.
//
// Go has no equivalent to petgraph's StableGraph, so the graph is realized
// as an arena: a slice of nodes addressed by a NodeID that is never reused
// (removed slots are tombstoned), plus adjacency lists keyed by NodeID in
// both directions. This mirrors the "arena-style node ids + adjacency lists
// (stable across removals)" design note.
package codegraph

import (
	"sort"
	"sync"

	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

// NodeID addresses a node in the arena. It is stable across removals and
// never reused.
type NodeID int

// NodeKind tags the variant stored in a Node.
type NodeKind int

const (
	NodeFile NodeKind = iota
	NodeSymbol
	NodeExternalPackage
	NodeBuiltin
	NodeUnresolvedImport
)

// SymbolKind enumerates the closed set of symbol categories (§3.1).
type SymbolKind string

const (
	SymbolFunction   SymbolKind = "Function"
	SymbolClass      SymbolKind = "Class"
	SymbolInterface  SymbolKind = "Interface"
	SymbolTypeAlias  SymbolKind = "TypeAlias"
	SymbolEnum       SymbolKind = "Enum"
	SymbolVariable   SymbolKind = "Variable"
	SymbolComponent  SymbolKind = "Component"
	SymbolMethod     SymbolKind = "Method"
	SymbolProperty   SymbolKind = "Property"
	SymbolStruct     SymbolKind = "Struct"
	SymbolTrait      SymbolKind = "Trait"
	SymbolImplMethod SymbolKind = "ImplMethod"
	SymbolConst      SymbolKind = "Const"
	SymbolStatic     SymbolKind = "Static"
	SymbolMacro      SymbolKind = "Macro"
)

// TypeDefining reports whether kind is one of the type-defining kinds used
// by get_file_summary's role heuristic.
func (k SymbolKind) TypeDefining() bool {
	switch k {
	case SymbolStruct, SymbolEnum, SymbolInterface, SymbolTypeAlias, SymbolTrait:
		return true
	}
	return false
}

// SymbolVisibility enumerates Rust visibility levels. TS/JS symbols always
// use Private and rely on IsExported instead.
type SymbolVisibility string

const (
	VisPub      SymbolVisibility = "Pub"
	VisPubCrate SymbolVisibility = "PubCrate"
	VisPrivate  SymbolVisibility = "Private"
)

// FileInfo is the payload of a File node.
type FileInfo struct {
	Path      string
	Language  lang.Kind
	CrateName string // empty unless a Rust workspace crate owns this file
	Kind      lang.FileKind
}

// SymbolInfo is the payload of a Symbol node.
type SymbolInfo struct {
	Name       string
	Kind       SymbolKind
	Line       int // 1-based
	Col        int // 0-based
	IsExported bool
	IsDefault  bool
	Visibility SymbolVisibility
	TraitImpl  string // trait name for Rust impl methods inside `impl Trait for Type`
}

// ExternalPackageInfo is the payload of an ExternalPackage node.
type ExternalPackageInfo struct {
	Name    string
	Version string
}

// BuiltinInfo is the payload of a Builtin node (std/core/alloc).
type BuiltinInfo struct {
	Name string
}

// UnresolvedImportInfo is the payload of an UnresolvedImport node. Unlike
// every other node kind, these are never deduplicated: one is created per
// unresolved occurrence.
type UnresolvedImportInfo struct {
	Specifier string
	Reason    string
}

// Node is a tagged union over the five GraphNode variants. Exactly one of
// the payload pointers is non-nil, selected by Kind.
type Node struct {
	Kind       NodeKind
	File       *FileInfo
	Symbol     *SymbolInfo
	External   *ExternalPackageInfo
	Builtin    *BuiltinInfo
	Unresolved *UnresolvedImportInfo
	removed    bool
}

// EdgeLabel enumerates the closed set of directed edge kinds (§3.1).
type EdgeLabel string

const (
	EdgeContains          EdgeLabel = "Contains"
	EdgeChildOf           EdgeLabel = "ChildOf"
	EdgeImports           EdgeLabel = "Imports"
	EdgeExports           EdgeLabel = "Exports"
	EdgeResolvedImport    EdgeLabel = "ResolvedImport"
	EdgeReExport          EdgeLabel = "ReExport"
	EdgeBarrelReExportAll EdgeLabel = "BarrelReExportAll"
	EdgeRustImport        EdgeLabel = "RustImport"
	EdgeCalls             EdgeLabel = "Calls"
	EdgeExtends           EdgeLabel = "Extends"
	EdgeImplements        EdgeLabel = "Implements"
)

// Edge is a single directed, labeled edge. Not every field applies to every
// label; unused fields are zero-valued.
type Edge struct {
	ID         int
	From       NodeID
	To         NodeID
	Label      EdgeLabel
	Specifier  string // Imports, ResolvedImport, ReExport, RustImport, BarrelReExportAll-less
	ExportName string // Exports
	IsDefault  bool   // Exports
}

// Graph is the typed multigraph plus its four lookup indexes. Zero value is
// not usable; construct with New.
type Graph struct {
	mu sync.RWMutex

	nodes []Node

	fileIndex     map[string]NodeID
	symbolIndex   map[string][]NodeID
	externalIndex map[string]NodeID
	builtinIndex  map[string]NodeID

	out map[NodeID][]int // node id -> edge indexes in edges, outgoing
	in  map[NodeID][]int // node id -> edge indexes in edges, incoming
	edges []Edge
	nextEdgeID int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		fileIndex:     make(map[string]NodeID),
		symbolIndex:   make(map[string][]NodeID),
		externalIndex: make(map[string]NodeID),
		builtinIndex:  make(map[string]NodeID),
		out:           make(map[NodeID][]int),
		in:            make(map[NodeID][]int),
	}
}

func (g *Graph) addNode(n Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return id
}

func (g *Graph) addEdge(e Edge) {
	e.ID = g.nextEdgeID
	g.nextEdgeID++
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], idx)
	g.in[e.To] = append(g.in[e.To], idx)
}

// Node returns the node at id, taking the read lock itself; ok is false
// for an out-of-range or removed id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(g.nodes) || g.nodes[id].removed {
		return Node{}, false
	}
	return g.nodes[id], true
}

// AddFile adds a File node, idempotent on path (§4.4).
func (g *Graph) AddFile(path string, language lang.Kind) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id, ok := g.fileIndex[path]; ok {
		return id
	}
	id := g.addNode(Node{Kind: NodeFile, File: &FileInfo{
		Path:     path,
		Language: language,
		Kind:     lang.ClassifyFileKind(path),
	}})
	g.fileIndex[path] = id
	return id
}

// SetCrateName records the owning Rust workspace crate for a file node.
func (g *Graph) SetCrateName(fileID NodeID, crateName string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if int(fileID) < len(g.nodes) && g.nodes[fileID].File != nil {
		g.nodes[fileID].File.CrateName = crateName
	}
}

// AddSymbol adds a top-level Symbol node, creating a Contains edge from
// fileID and indexing the symbol by name.
func (g *Graph) AddSymbol(fileID NodeID, info SymbolInfo) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.addNode(Node{Kind: NodeSymbol, Symbol: &info})
	g.addEdge(Edge{From: fileID, To: id, Label: EdgeContains})
	g.symbolIndex[info.Name] = append(g.symbolIndex[info.Name], id)
	return id
}

// AddChildSymbol adds a Symbol node that belongs to parentID (an interface
// property/method signature or a class method), creating a ChildOf edge
// from the new child to the parent.
func (g *Graph) AddChildSymbol(parentID NodeID, info SymbolInfo) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.addNode(Node{Kind: NodeSymbol, Symbol: &info})
	g.addEdge(Edge{From: id, To: parentID, Label: EdgeChildOf})
	g.symbolIndex[info.Name] = append(g.symbolIndex[info.Name], id)
	return id
}

// AddImportsEdge records the raw, pre-resolution import edge for
// provenance (File -> File).
func (g *Graph) AddImportsEdge(from, to NodeID, specifier string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: to, Label: EdgeImports, Specifier: specifier})
}

// AddExportsEdge records an explicit export (File -> Symbol).
func (g *Graph) AddExportsEdge(from, symbolID NodeID, name string, isDefault bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: symbolID, Label: EdgeExports, ExportName: name, IsDefault: isDefault})
}

// AddResolvedImport adds a raw ResolvedImport edge from a file to any
// target node (file, external package, builtin, or unresolved-import).
func (g *Graph) AddResolvedImport(from, to NodeID, specifier string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: to, Label: EdgeResolvedImport, Specifier: specifier})
}

// AddReExportEdge adds a Rust `pub use` edge after resolution.
func (g *Graph) AddReExportEdge(from, to NodeID, path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: to, Label: EdgeReExport, Specifier: path})
}

// AddRustImportPlaceholder adds the self-loop placeholder edge the parser
// emits for each non-pub `use` statement, before C7 rewrites it.
func (g *Graph) AddRustImportPlaceholder(fileID NodeID, path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: fileID, To: fileID, Label: EdgeRustImport, Specifier: path})
}

// AddReExportPlaceholder adds the self-loop placeholder edge the parser
// emits for each `pub use` statement, before C7 rewrites it.
func (g *Graph) AddReExportPlaceholder(fileID NodeID, path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: fileID, To: fileID, Label: EdgeReExport, Specifier: path})
}

// AddExternalPackage adds (or reuses) an ExternalPackage node by name and
// always adds a ResolvedImport edge to it from `from`.
func (g *Graph) AddExternalPackage(from NodeID, name, specifier string) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.externalIndex[name]
	if !ok {
		id = g.addNode(Node{Kind: NodeExternalPackage, External: &ExternalPackageInfo{Name: name}})
		g.externalIndex[name] = id
	}
	g.addEdge(Edge{From: from, To: id, Label: EdgeResolvedImport, Specifier: specifier})
	return id
}

// AddBuiltinNode adds (or reuses) a Builtin node by name and always adds a
// ResolvedImport edge to it from `from`.
func (g *Graph) AddBuiltinNode(from NodeID, name, specifier string) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.builtinIndex[name]
	if !ok {
		id = g.addNode(Node{Kind: NodeBuiltin, Builtin: &BuiltinInfo{Name: name}})
		g.builtinIndex[name] = id
	}
	g.addEdge(Edge{From: from, To: id, Label: EdgeResolvedImport, Specifier: specifier})
	return id
}

// AddUnresolvedImport always creates a new node (never deduplicated) and an
// edge from `from`.
func (g *Graph) AddUnresolvedImport(from NodeID, specifier, reason string) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.addNode(Node{Kind: NodeUnresolvedImport, Unresolved: &UnresolvedImportInfo{
		Specifier: specifier,
		Reason:    reason,
	}})
	g.addEdge(Edge{From: from, To: id, Label: EdgeResolvedImport, Specifier: specifier})
	return id
}

// AddCallsEdge adds a Calls edge from a Symbol-or-File node to a Symbol.
func (g *Graph) AddCallsEdge(from, toSymbol NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: toSymbol, Label: EdgeCalls})
}

// AddExtendsEdge adds a Symbol -> Symbol inheritance edge.
func (g *Graph) AddExtendsEdge(from, to NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: to, Label: EdgeExtends})
}

// AddImplementsEdge adds a Symbol -> Symbol interface-implementation edge.
func (g *Graph) AddImplementsEdge(from, to NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: to, Label: EdgeImplements})
}

// AddBarrelReExportAll adds a File -> File `export *` edge. Parallel edges
// are allowed (one per export statement).
func (g *Graph) AddBarrelReExportAll(from, to NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdge(Edge{From: from, To: to, Label: EdgeBarrelReExportAll})
}

// FileID looks up a file node id by path.
func (g *Graph) FileID(path string) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.fileIndex[path]
	return id, ok
}

// FileCount returns the number of File nodes.
func (g *Graph) FileCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.fileIndex)
}

// SymbolCount returns the number of Symbol nodes.
func (g *Graph) SymbolCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, ids := range g.symbolIndex {
		n += len(ids)
	}
	return n
}

// SymbolsByName returns all symbol node ids registered under name.
func (g *Graph) SymbolsByName(name string) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]NodeID, len(g.symbolIndex[name]))
	copy(out, g.symbolIndex[name])
	return out
}

// AllSymbolNames returns every distinct symbol name in the index, sorted.
func (g *Graph) AllSymbolNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.symbolIndex))
	for name := range g.symbolIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllFilePaths returns every indexed file path, sorted.
func (g *Graph) AllFilePaths() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	paths := make([]string, 0, len(g.fileIndex))
	for p := range g.fileIndex {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// OutEdges returns a copy of the outgoing edges of id, optionally filtered
// to the given labels (no filter = all labels).
func (g *Graph) OutEdges(id NodeID, labels ...EdgeLabel) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.filterEdges(g.out[id], labels)
}

// InEdges returns a copy of the incoming edges of id, optionally filtered
// to the given labels.
func (g *Graph) InEdges(id NodeID, labels ...EdgeLabel) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.filterEdges(g.in[id], labels)
}

func (g *Graph) filterEdges(idxs []int, labels []EdgeLabel) []Edge {
	var out []Edge
	for _, idx := range idxs {
		e := g.edges[idx]
		if len(labels) == 0 {
			out = append(out, e)
			continue
		}
		for _, l := range labels {
			if e.Label == l {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// AllEdges returns a copy of every live edge in the graph.
func (g *Graph) AllEdges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// ContainingFile walks Contains (direct) or ChildOf->Contains (one level,
// for child symbols) to find the file that declares a symbol.
func (g *Graph) ContainingFile(symbolID NodeID) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, idx := range g.in[symbolID] {
		e := g.edges[idx]
		if e.Label == EdgeContains {
			return e.From, true
		}
	}
	for _, idx := range g.out[symbolID] {
		e := g.edges[idx]
		if e.Label == EdgeChildOf {
			return g.ContainingFile(e.To)
		}
	}
	return 0, false
}

// RemoveFileFromGraph removes a File node, every Symbol it Contains, every
// Symbol ChildOf those symbols, and all edges incident to any of them,
// keeping the four indexes consistent (§3.2 invariant 3).
func (g *Graph) RemoveFileFromGraph(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	fileID, ok := g.fileIndex[path]
	if !ok {
		return
	}

	toRemove := map[NodeID]bool{fileID: true}
	var topSymbols []NodeID
	for _, idx := range g.out[fileID] {
		e := g.edges[idx]
		if e.Label == EdgeContains {
			topSymbols = append(topSymbols, e.To)
			toRemove[e.To] = true
		}
	}
	for _, sym := range topSymbols {
		for _, idx := range g.in[sym] {
			e := g.edges[idx]
			if e.Label == EdgeChildOf {
				toRemove[e.From] = true
			}
		}
	}

	delete(g.fileIndex, path)
	for id := range toRemove {
		if int(id) < len(g.nodes) && g.nodes[id].Symbol != nil {
			name := g.nodes[id].Symbol.Name
			filtered := g.symbolIndex[name][:0]
			for _, sid := range g.symbolIndex[name] {
				if !toRemove[sid] {
					filtered = append(filtered, sid)
				}
			}
			if len(filtered) == 0 {
				delete(g.symbolIndex, name)
			} else {
				g.symbolIndex[name] = filtered
			}
		}
		g.nodes[id].removed = true
	}

	g.removeIncidentEdges(toRemove)
}

func (g *Graph) removeIncidentEdges(removedNodes map[NodeID]bool) {
	kept := g.edges[:0]
	newOut := make(map[NodeID][]int)
	newIn := make(map[NodeID][]int)
	for _, e := range g.edges {
		if removedNodes[e.From] || removedNodes[e.To] {
			continue
		}
		idx := len(kept)
		kept = append(kept, e)
		newOut[e.From] = append(newOut[e.From], idx)
		newIn[e.To] = append(newIn[e.To], idx)
	}
	g.edges = kept
	g.out = newOut
	g.in = newIn
}

// RemoveRustImportPlaceholders deletes every self-loop RustImport/ReExport
// edge on fileID, used by C7 once it has classified and rewritten each
// placeholder. The edges are dropped from the backing g.edges slice itself,
// not just unlinked from the adjacency maps, so they don't inflate
// Stats.EdgeCount or survive an ExportState/RestoreState round-trip.
func (g *Graph) RemoveRustImportPlaceholders(fileID NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	toRemove := make(map[int]bool)
	for _, idx := range g.out[fileID] {
		e := g.edges[idx]
		if e.From == fileID && e.To == fileID && (e.Label == EdgeRustImport || e.Label == EdgeReExport) {
			toRemove[idx] = true
		}
	}
	if len(toRemove) == 0 {
		return
	}

	kept := g.edges[:0]
	newOut := make(map[NodeID][]int)
	newIn := make(map[NodeID][]int)
	for idx, e := range g.edges {
		if toRemove[idx] {
			continue
		}
		newIdx := len(kept)
		kept = append(kept, e)
		newOut[e.From] = append(newOut[e.From], newIdx)
		newIn[e.To] = append(newIn[e.To], newIdx)
	}
	g.edges = kept
	g.out = newOut
	g.in = newIn
}

// Stats summarizes graph size for get_stats.
type Stats struct {
	FileCount     int
	SymbolCount   int
	ExternalCount int
	BuiltinCount  int
	EdgeCount     int
}

// Stats computes current graph statistics.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	symbolCount := 0
	for _, ids := range g.symbolIndex {
		symbolCount += len(ids)
	}
	return Stats{
		FileCount:     len(g.fileIndex),
		SymbolCount:   symbolCount,
		ExternalCount: len(g.externalIndex),
		BuiltinCount:  len(g.builtinIndex),
		EdgeCount:     len(g.edges),
	}
}

// Clone deep-copies the graph so that an incremental update can mutate the
// copy off any lock before being atomically published (§5).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New()
	clone.nodes = make([]Node, len(g.nodes))
	copy(clone.nodes, g.nodes)

	for k, v := range g.fileIndex {
		clone.fileIndex[k] = v
	}
	for k, v := range g.symbolIndex {
		ids := make([]NodeID, len(v))
		copy(ids, v)
		clone.symbolIndex[k] = ids
	}
	for k, v := range g.externalIndex {
		clone.externalIndex[k] = v
	}
	for k, v := range g.builtinIndex {
		clone.builtinIndex[k] = v
	}

	clone.edges = make([]Edge, len(g.edges))
	copy(clone.edges, g.edges)
	clone.nextEdgeID = g.nextEdgeID

	for k, v := range g.out {
		idxs := make([]int, len(v))
		copy(idxs, v)
		clone.out[k] = idxs
	}
	for k, v := range g.in {
		idxs := make([]int, len(v))
		copy(idxs, v)
		clone.in[k] = idxs
	}
	return clone
}

// NodeState is the serializable form of Node: gob and json only see exported
// fields, so the tombstone bit needs its own exported slot here instead of
// Node's unexported one.
type NodeState struct {
	Kind       NodeKind
	File       *FileInfo
	Symbol     *SymbolInfo
	External   *ExternalPackageInfo
	Builtin    *BuiltinInfo
	Unresolved *UnresolvedImportInfo
	Removed    bool
}

// ExportState flattens the graph to its node and edge arrays for
// persistence. The four indexes and adjacency lists are derived, not
// serialized: RestoreState rebuilds them by replaying the arrays in order.
func (g *Graph) ExportState() ([]NodeState, []Edge) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	states := make([]NodeState, len(g.nodes))
	for i, n := range g.nodes {
		states[i] = NodeState{
			Kind: n.Kind, File: n.File, Symbol: n.Symbol,
			External: n.External, Builtin: n.Builtin, Unresolved: n.Unresolved,
			Removed: n.removed,
		}
	}
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return states, edges
}

// RestoreState rebuilds a Graph from a prior ExportState call, reconstructing
// the file/symbol/external/builtin indexes and the adjacency lists from the
// node and edge arrays themselves. Node indexes in states are assumed to be
// the NodeIDs referenced by edges (slice position == NodeID), matching what
// ExportState produced.
func RestoreState(states []NodeState, edges []Edge) *Graph {
	g := New()
	g.nodes = make([]Node, len(states))
	for i, s := range states {
		g.nodes[i] = Node{
			Kind: s.Kind, File: s.File, Symbol: s.Symbol,
			External: s.External, Builtin: s.Builtin, Unresolved: s.Unresolved,
			removed: s.Removed,
		}
		if s.Removed {
			continue
		}
		id := NodeID(i)
		switch s.Kind {
		case NodeFile:
			g.fileIndex[s.File.Path] = id
		case NodeSymbol:
			g.symbolIndex[s.Symbol.Name] = append(g.symbolIndex[s.Symbol.Name], id)
		case NodeExternalPackage:
			g.externalIndex[s.External.Name] = id
		case NodeBuiltin:
			g.builtinIndex[s.Builtin.Name] = id
		}
	}

	for _, e := range edges {
		idx := len(g.edges)
		g.edges = append(g.edges, e)
		g.out[e.From] = append(g.out[e.From], idx)
		g.in[e.To] = append(g.in[e.To], idx)
		if e.ID >= g.nextEdgeID {
			g.nextEdgeID = e.ID + 1
		}
	}
	return g
}
