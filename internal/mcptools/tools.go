package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/errs"
	"github.com/MonsieurBarti/code-graph-ai/internal/export"
	"github.com/MonsieurBarti/code-graph-ai/internal/query"
	"github.com/MonsieurBarti/code-graph-ai/internal/snapshot"
)

// FindSymbolInput is find_symbol's parameters.
type FindSymbolInput struct {
	Pattern         string `json:"pattern" jsonschema:"regular expression matched against symbol names"`
	CaseInsensitive bool   `json:"caseInsensitive,omitempty"`
	KindFilter      string `json:"kindFilter,omitempty" jsonschema:"restrict to one symbol kind"`
	FileFilter      string `json:"fileFilter,omitempty" jsonschema:"restrict to files under this path prefix"`
	LanguageFilter  string `json:"languageFilter,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	ProjectPath     string `json:"projectPath,omitempty"`
}

// FindSymbolOutput is find_symbol's result.
type FindSymbolOutput struct {
	Matches     []query.SymbolMatch `json:"matches"`
	Total       int                  `json:"total"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

func (s *Service) FindSymbol(_ context.Context, _ *mcp.CallToolRequest, in FindSymbolInput) (*mcp.CallToolResult, FindSymbolOutput, error) {
	if in.Pattern == "" {
		return nil, FindSymbolOutput{}, fmt.Errorf("missing required param: pattern: %w", errs.ErrUserInput)
	}
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, FindSymbolOutput{}, err
	}

	matches, err := query.FindSymbol(g, root, query.FindSymbolOptions{
		Pattern: in.Pattern, CaseInsensitive: in.CaseInsensitive,
		KindFilter: in.KindFilter, FileFilter: in.FileFilter, LanguageFilter: in.LanguageFilter,
	})
	if err != nil {
		return nil, FindSymbolOutput{}, fmt.Errorf("invalid pattern: %w: %w", err, errs.ErrUserInput)
	}

	matches = applyLimit(matches, s.limitOrDefault(in.Limit))

	out := FindSymbolOutput{Matches: matches, Total: len(matches)}
	if len(matches) == 0 {
		out.Suggestions = query.FuzzySuggestions(g, in.Pattern)
	}
	return nil, out, nil
}

func applyLimit(matches []query.SymbolMatch, limit int) []query.SymbolMatch {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

func (s *Service) limitOrDefault(limit int) int {
	if limit > 0 {
		return limit
	}
	if s.mcpConfig.DefaultLimit > 0 {
		return s.mcpConfig.DefaultLimit
	}
	return 20
}

// symbolIndicesFor resolves a symbol name to every node id sharing it, with
// a not-found error carrying fuzzy suggestions when none match.
func symbolIndicesFor(g *codegraph.Graph, name string) ([]codegraph.NodeID, error) {
	indices := g.SymbolsByName(name)
	if len(indices) == 0 {
		return nil, notFoundError("symbol", name, query.FuzzySuggestions(g, name))
	}
	return indices, nil
}

// FindReferencesInput is find_references's parameters.
type FindReferencesInput struct {
	Name        string `json:"name" jsonschema:"symbol name to find references for"`
	ProjectPath string `json:"projectPath,omitempty"`
}

// FindReferencesOutput is find_references's result.
type FindReferencesOutput struct {
	References query.ReferencesResult `json:"references"`
}

func (s *Service) FindReferences(_ context.Context, _ *mcp.CallToolRequest, in FindReferencesInput) (*mcp.CallToolResult, FindReferencesOutput, error) {
	if in.Name == "" {
		return nil, FindReferencesOutput{}, fmt.Errorf("missing required param: name: %w", errs.ErrUserInput)
	}
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, FindReferencesOutput{}, err
	}
	indices, err := symbolIndicesFor(g, in.Name)
	if err != nil {
		return nil, FindReferencesOutput{}, err
	}
	return nil, FindReferencesOutput{References: query.FindReferences(g, root, indices)}, nil
}

// GetImpactInput is get_impact's parameters.
type GetImpactInput struct {
	Name        string `json:"name" jsonschema:"symbol name whose blast radius to compute"`
	ProjectPath string `json:"projectPath,omitempty"`
}

// GetImpactOutput is get_impact's result.
type GetImpactOutput struct {
	Impacted []query.ImpactedFile `json:"impacted"`
}

func (s *Service) GetImpact(_ context.Context, _ *mcp.CallToolRequest, in GetImpactInput) (*mcp.CallToolResult, GetImpactOutput, error) {
	if in.Name == "" {
		return nil, GetImpactOutput{}, fmt.Errorf("missing required param: name: %w", errs.ErrUserInput)
	}
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, GetImpactOutput{}, err
	}
	indices, err := symbolIndicesFor(g, in.Name)
	if err != nil {
		return nil, GetImpactOutput{}, err
	}
	return nil, GetImpactOutput{Impacted: query.GetImpact(g, root, indices)}, nil
}

// DetectCircularInput is detect_circular's parameters.
type DetectCircularInput struct {
	ProjectPath string `json:"projectPath,omitempty"`
}

// DetectCircularOutput is detect_circular's result.
type DetectCircularOutput struct {
	Cycles []query.Cycle `json:"cycles"`
}

func (s *Service) DetectCircular(_ context.Context, _ *mcp.CallToolRequest, in DetectCircularInput) (*mcp.CallToolResult, DetectCircularOutput, error) {
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, DetectCircularOutput{}, err
	}
	cycles, err := query.DetectCircular(g, root)
	if err != nil {
		return nil, DetectCircularOutput{}, err
	}
	return nil, DetectCircularOutput{Cycles: cycles}, nil
}

// GetContextInput is get_context's parameters.
type GetContextInput struct {
	Name        string `json:"name" jsonschema:"symbol name to gather context for"`
	Sections    string `json:"sections,omitempty" jsonschema:"letters from rcexXiI selecting which relationship sections to include"`
	ProjectPath string `json:"projectPath,omitempty"`
}

// GetContextOutput is get_context's result, trimmed to the requested sections.
type GetContextOutput struct {
	Definitions   []query.SymbolMatch     `json:"definitions"`
	References    *query.ReferencesResult `json:"references,omitempty"`
	Callers       []query.NamedRef        `json:"callers,omitempty"`
	Callees       []query.NamedRef        `json:"callees,omitempty"`
	Extends       []query.NamedRef        `json:"extends,omitempty"`
	Implements    []query.NamedRef        `json:"implements,omitempty"`
	ExtendedBy    []query.NamedRef        `json:"extendedBy,omitempty"`
	ImplementedBy []query.NamedRef        `json:"implementedBy,omitempty"`
}

func (s *Service) GetContext(_ context.Context, _ *mcp.CallToolRequest, in GetContextInput) (*mcp.CallToolResult, GetContextOutput, error) {
	if in.Name == "" {
		return nil, GetContextOutput{}, fmt.Errorf("missing required param: name: %w", errs.ErrUserInput)
	}
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, GetContextOutput{}, err
	}
	indices, err := symbolIndicesFor(g, in.Name)
	if err != nil {
		return nil, GetContextOutput{}, err
	}

	sections := in.Sections
	if sections == "" {
		sections = s.mcpConfig.DefaultSections
	}
	ctx := query.GetContext(g, root, in.Name, indices)
	return nil, ProjectContext(ctx, sections), nil
}

func ProjectContext(ctx query.Context, sections string) GetContextOutput {
	out := GetContextOutput{Definitions: ctx.Definitions}
	has := func(letter byte) bool { return strings.IndexByte(sections, letter) >= 0 }
	if has('r') {
		refs := ctx.References
		out.References = &refs
	}
	if has('c') {
		out.Callers = ctx.Callers
	}
	if has('e') {
		out.Callees = ctx.Callees
	}
	if has('x') {
		out.Extends = ctx.Extends
	}
	if has('i') {
		out.Implements = ctx.Implements
	}
	if has('X') {
		out.ExtendedBy = ctx.ExtendedBy
	}
	if has('I') {
		out.ImplementedBy = ctx.ImplementedBy
	}
	return out
}

// GetStatsInput is get_stats's parameters.
type GetStatsInput struct {
	ProjectPath string `json:"projectPath,omitempty"`
}

func (s *Service) GetStats(_ context.Context, _ *mcp.CallToolRequest, in GetStatsInput) (*mcp.CallToolResult, codegraph.Stats, error) {
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, codegraph.Stats{}, err
	}
	return nil, query.GetStats(g), nil
}

// GetStructureInput is get_structure's parameters.
type GetStructureInput struct {
	Path        string `json:"path,omitempty"`
	Depth       int    `json:"depth,omitempty"`
	ProjectPath string `json:"projectPath,omitempty"`
}

func (s *Service) GetStructure(_ context.Context, _ *mcp.CallToolRequest, in GetStructureInput) (*mcp.CallToolResult, *query.StructureNode, error) {
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, nil, err
	}
	depth := in.Depth
	if depth <= 0 {
		depth = 20
	}
	return nil, query.GetStructure(g, root, in.Path, depth), nil
}

// GetFileSummaryInput is get_file_summary's parameters.
type GetFileSummaryInput struct {
	FilePath    string `json:"filePath" jsonschema:"project-relative path of the file to summarize"`
	ProjectPath string `json:"projectPath,omitempty"`
}

func (s *Service) GetFileSummary(_ context.Context, _ *mcp.CallToolRequest, in GetFileSummaryInput) (*mcp.CallToolResult, query.FileSummary, error) {
	if in.FilePath == "" {
		return nil, query.FileSummary{}, fmt.Errorf("missing required param: filePath: %w", errs.ErrUserInput)
	}
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, query.FileSummary{}, err
	}
	summary, ok := query.GetFileSummary(g, root, in.FilePath)
	if !ok {
		return nil, query.FileSummary{}, fmt.Errorf("not found: file %q: %w", in.FilePath, errs.ErrNotFound)
	}
	return nil, summary, nil
}

// GetImportsInput is get_imports's parameters.
type GetImportsInput struct {
	FilePath    string `json:"filePath" jsonschema:"project-relative path of the file to list imports for"`
	ProjectPath string `json:"projectPath,omitempty"`
}

// GetImportsOutput is get_imports's result.
type GetImportsOutput struct {
	Imports []query.ImportEntry `json:"imports"`
}

func (s *Service) GetImports(_ context.Context, _ *mcp.CallToolRequest, in GetImportsInput) (*mcp.CallToolResult, GetImportsOutput, error) {
	if in.FilePath == "" {
		return nil, GetImportsOutput{}, fmt.Errorf("missing required param: filePath: %w", errs.ErrUserInput)
	}
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, GetImportsOutput{}, err
	}
	if _, ok := g.FileID(in.FilePath); !ok {
		return nil, GetImportsOutput{}, fmt.Errorf("not found: file %q: %w", in.FilePath, errs.ErrNotFound)
	}
	return nil, GetImportsOutput{Imports: query.GetImports(g, root, in.FilePath)}, nil
}

// FindDeadCodeInput is find_dead_code's parameters.
type FindDeadCodeInput struct {
	Scope       string `json:"scope,omitempty" jsonschema:"optional path prefix restricting the scan"`
	ProjectPath string `json:"projectPath,omitempty"`
}

func (s *Service) FindDeadCode(_ context.Context, _ *mcp.CallToolRequest, in FindDeadCodeInput) (*mcp.CallToolResult, query.DeadCodeResult, error) {
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, query.DeadCodeResult{}, err
	}
	result := query.FindDeadCode(g, root)
	if in.Scope != "" {
		result = filterDeadCodeByScope(result, in.Scope)
	}
	return nil, result, nil
}

func filterDeadCodeByScope(result query.DeadCodeResult, scope string) query.DeadCodeResult {
	var filtered query.DeadCodeResult
	for _, f := range result.Files {
		if strings.HasPrefix(f.FilePath, scope) {
			filtered.Files = append(filtered.Files, f)
		}
	}
	for _, sym := range result.Symbols {
		if strings.HasPrefix(sym.FilePath, scope) {
			filtered.Symbols = append(filtered.Symbols, sym)
		}
	}
	return filtered
}

// ExportGraphInput is export_graph's parameters.
type ExportGraphInput struct {
	Format      string `json:"format" jsonschema:"dot or mermaid"`
	Granularity string `json:"granularity,omitempty" jsonschema:"file, package, or symbol (default file)"`
	ProjectPath string `json:"projectPath,omitempty"`
}

// ExportGraphOutput carries the rendered diagram source.
type ExportGraphOutput struct {
	Source string `json:"source"`
}

func (s *Service) ExportGraph(_ context.Context, _ *mcp.CallToolRequest, in ExportGraphInput) (*mcp.CallToolResult, ExportGraphOutput, error) {
	format := export.Format(strings.ToLower(in.Format))
	if format != export.FormatDOT && format != export.FormatMermaid {
		return nil, ExportGraphOutput{}, fmt.Errorf("missing required param: format (dot or mermaid): %w", errs.ErrUserInput)
	}
	gran := export.Granularity(strings.ToLower(in.Granularity))
	if gran == "" {
		gran = export.GranularityFile
	}
	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, ExportGraphOutput{}, err
	}
	source, err := export.Render(g, root, format, gran)
	if err != nil {
		return nil, ExportGraphOutput{}, err
	}
	return nil, ExportGraphOutput{Source: source}, nil
}

// RegisterProjectInput is register_project's parameters.
type RegisterProjectInput struct {
	Path  string `json:"path" jsonschema:"absolute path to the project root"`
	Alias string `json:"alias,omitempty"`
}

// RegisterProjectOutput is register_project's (empty) result.
type RegisterProjectOutput struct{}

func (s *Service) RegisterProject(_ context.Context, _ *mcp.CallToolRequest, in RegisterProjectInput) (*mcp.CallToolResult, RegisterProjectOutput, error) {
	if in.Path == "" {
		return nil, RegisterProjectOutput{}, fmt.Errorf("missing required param: path: %w", errs.ErrUserInput)
	}
	s.registerProject(in.Path, in.Alias)
	return nil, RegisterProjectOutput{}, nil
}

// ListProjectsInput is list_projects's (empty) parameters.
type ListProjectsInput struct{}

// ListProjectsOutput is list_projects's result.
type ListProjectsOutput struct {
	Projects map[string]string `json:"projects"`
}

func (s *Service) ListProjects(_ context.Context, _ *mcp.CallToolRequest, _ ListProjectsInput) (*mcp.CallToolResult, ListProjectsOutput, error) {
	return nil, ListProjectsOutput{Projects: s.listProjects()}, nil
}

// GetDiffInput is get_diff's parameters. To compares against the live
// graph (a transient snapshot) when empty.
type GetDiffInput struct {
	From        string `json:"from" jsonschema:"snapshot name to diff from"`
	To          string `json:"to,omitempty" jsonschema:"snapshot name to diff to; the live graph when omitted"`
	ProjectPath string `json:"projectPath,omitempty"`
}

func (s *Service) GetDiff(_ context.Context, _ *mcp.CallToolRequest, in GetDiffInput) (*mcp.CallToolResult, snapshot.Diff, error) {
	if in.From == "" {
		return nil, snapshot.Diff{}, fmt.Errorf("missing required param: from: %w", errs.ErrUserInput)
	}
	root := s.resolveRoot(in.ProjectPath)
	from, err := snapshot.Load(root, in.From)
	if err != nil {
		return nil, snapshot.Diff{}, fmt.Errorf("not found: snapshot %q: %w", in.From, errs.ErrNotFound)
	}

	var to snapshot.Snapshot
	if in.To == "" {
		g, err := s.resolveGraph(root)
		if err != nil {
			return nil, snapshot.Diff{}, err
		}
		to = snapshot.FromGraph(g, root, "live", 0)
	} else {
		to, err = snapshot.Load(root, in.To)
		if err != nil {
			return nil, snapshot.Diff{}, fmt.Errorf("not found: snapshot %q: %w", in.To, errs.ErrNotFound)
		}
	}

	return nil, snapshot.Compare(from, to), nil
}

// BatchQueryInput bundles up to 10 sub-queries resolved against a single
// graph handle.
type BatchQueryInput struct {
	Queries     []BatchSubQuery `json:"queries"`
	ProjectPath string          `json:"projectPath,omitempty"`
}

// BatchSubQuery names one query kind and carries its parameters as a loose
// map, avoiding a second typed-struct layer for what is already typed once
// per tool.
type BatchSubQuery struct {
	Tool string            `json:"tool"`
	Args map[string]string `json:"args,omitempty"`
}

// BatchQueryOutput is the ordered list of per-sub-query results, each
// either a JSON-able payload or an error string.
type BatchQueryOutput struct {
	Results []BatchSubResult `json:"results"`
}

// BatchSubResult is one sub-query's outcome.
type BatchSubResult struct {
	Tool   string      `json:"tool"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

const maxBatchQueries = 10

func (s *Service) BatchQuery(_ context.Context, _ *mcp.CallToolRequest, in BatchQueryInput) (*mcp.CallToolResult, BatchQueryOutput, error) {
	if len(in.Queries) == 0 {
		return nil, BatchQueryOutput{}, fmt.Errorf("missing required param: queries: %w", errs.ErrUserInput)
	}
	if len(in.Queries) > maxBatchQueries {
		return nil, BatchQueryOutput{}, fmt.Errorf("batch_query accepts at most %d sub-queries: %w", maxBatchQueries, errs.ErrUserInput)
	}

	root := s.resolveRoot(in.ProjectPath)
	g, err := s.resolveGraph(root)
	if err != nil {
		return nil, BatchQueryOutput{}, err
	}

	out := BatchQueryOutput{Results: make([]BatchSubResult, len(in.Queries))}
	for i, sub := range in.Queries {
		out.Results[i] = s.runBatchSubQuery(g, root, sub)
	}
	return nil, out, nil
}

// runBatchSubQuery calls the underlying query function directly (not
// through the tool wrapper) so no additional graph lookup or lock
// operation occurs per sub-query, per the batch dispatch discipline.
func (s *Service) runBatchSubQuery(g *codegraph.Graph, root string, sub BatchSubQuery) BatchSubResult {
	res := BatchSubResult{Tool: sub.Tool}
	switch sub.Tool {
	case "find_symbol":
		matches, err := query.FindSymbol(g, root, query.FindSymbolOptions{Pattern: sub.Args["pattern"]})
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Result = matches
	case "find_references":
		indices, err := symbolIndicesFor(g, sub.Args["name"])
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Result = query.FindReferences(g, root, indices)
	case "get_impact":
		indices, err := symbolIndicesFor(g, sub.Args["name"])
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Result = query.GetImpact(g, root, indices)
	case "detect_circular":
		cycles, err := query.DetectCircular(g, root)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Result = cycles
	case "get_stats":
		res.Result = query.GetStats(g)
	case "get_file_summary":
		summary, ok := query.GetFileSummary(g, root, sub.Args["filePath"])
		if !ok {
			res.Error = fmt.Sprintf("not found: file %q: %v", sub.Args["filePath"], errs.ErrNotFound)
			return res
		}
		res.Result = summary
	case "get_imports":
		res.Result = query.GetImports(g, root, sub.Args["filePath"])
	case "find_dead_code":
		res.Result = query.FindDeadCode(g, root)
	default:
		res.Error = fmt.Sprintf("unknown tool: %s: %v", sub.Tool, errs.ErrUserInput)
	}
	return res
}
