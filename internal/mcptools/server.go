package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer registers all fifteen code-intelligence tools against svc.
func NewServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "code-graph-ai",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_symbol",
		Description: "Search symbol names by regular expression, optionally filtered by kind, file path prefix, or language.",
	}, svc.FindSymbol)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_references",
		Description: "Find every file importing a symbol's file and every call site targeting it.",
	}, svc.FindReferences)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_impact",
		Description: "Compute the set of files transitively affected by changing a symbol.",
	}, svc.GetImpact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_circular",
		Description: "Find import cycles among the project's files.",
	}, svc.DetectCircular)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_context",
		Description: "Gather a symbol's definitions, references, callers/callees, and type-hierarchy relationships.",
	}, svc.GetContext)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Return graph-wide counts: files, symbols, external deps, builtins, edges.",
	}, svc.GetStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_structure",
		Description: "Return the directory tree of indexed files, with top-level symbols per source file.",
	}, svc.GetStructure)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_file_summary",
		Description: "Summarize one file's role, label, and symbol composition.",
	}, svc.GetFileSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_imports",
		Description: "List one file's classified imports.",
	}, svc.GetImports)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_graph",
		Description: "Render the dependency graph as DOT or Mermaid source at file, package, or symbol granularity.",
	}, svc.ExportGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_dead_code",
		Description: "Find files with no importer and symbols with no incoming reference, excluding entry points and exported/public symbols.",
	}, svc.FindDeadCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "register_project",
		Description: "Register a project root under an alias for subsequent tool calls.",
	}, svc.RegisterProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List every registered project path and alias.",
	}, svc.ListProjects)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_diff",
		Description: "Diff a saved snapshot against another snapshot or the live graph.",
	}, svc.GetDiff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "batch_query",
		Description: "Run up to 10 sub-queries against a single resolved graph handle.",
	}, svc.BatchQuery)

	return server
}

// RunServer starts an HTTP server exposing the code-intelligence MCP tools.
func RunServer(ctx context.Context, svc *Service, addr string) error {
	server := NewServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
