package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MonsieurBarti/code-graph-ai/internal/cache"
	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/config"
	"github.com/MonsieurBarti/code-graph-ai/internal/export"
	"github.com/MonsieurBarti/code-graph-ai/internal/mcptools"
	"github.com/MonsieurBarti/code-graph-ai/internal/query"
	"github.com/MonsieurBarti/code-graph-ai/internal/service"
	"github.com/MonsieurBarti/code-graph-ai/internal/snapshot"
)

// version is set by the linker at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("codegraph", flag.ContinueOnError)
	projectRoot := fs.String("project-root", ".", "path to the target project")
	versionFlag := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *versionFlag {
		fmt.Println(version)
		return nil
	}

	root, err := filepath.Abs(*projectRoot)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	positional := fs.Args()
	if len(positional) == 0 {
		printUsage(fs)
		return fmt.Errorf("missing command")
	}

	cmd, rest := positional[0], positional[1:]
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	switch cmd {
	case "index":
		return runIndex(root, logger)
	case "find":
		return runFind(root, rest)
	case "refs":
		return runRefs(root, rest)
	case "impact":
		return runImpact(root, rest)
	case "circular":
		return runCircular(root)
	case "stats":
		return runStats(root)
	case "context":
		return runContext(root, rest)
	case "export":
		return runExport(root, rest)
	case "dead-code":
		return runDeadCode(root)
	case "diff":
		return runDiff(root, rest)
	case "snapshot":
		return runSnapshot(root, rest)
	case "server":
		return runServer(root, rest, logger)
	default:
		printUsage(fs)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func loadGraph(root string) (*codegraph.Graph, error) {
	result, err := service.BuildFull(root, nil)
	if err != nil {
		return nil, err
	}
	if err := cache.Save(root, result.Graph, result.Results); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache save failed: %v\n", err)
	}
	return result.Graph, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runIndex(root string, logger *slog.Logger) error {
	result, err := service.BuildFull(root, logger)
	if err != nil {
		return err
	}
	if err := cache.Save(root, result.Graph, result.Results); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache save failed: %v\n", err)
	}
	fmt.Printf("indexed %d files (%d skipped)\n", result.FileCount, result.Skipped)
	return nil
}

func runFind(root string, args []string) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	caseInsensitive := fs.Bool("i", false, "case-insensitive match")
	kind := fs.String("kind", "", "restrict to one symbol kind")
	file := fs.String("file", "", "restrict to files under this path prefix")
	lang := fs.String("lang", "", "restrict to one language")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: codegraph find [flags] <pattern>")
	}
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	matches, err := query.FindSymbol(g, root, query.FindSymbolOptions{
		Pattern: fs.Arg(0), CaseInsensitive: *caseInsensitive,
		KindFilter: *kind, FileFilter: *file, LanguageFilter: *lang,
	})
	if err != nil {
		return err
	}
	return printJSON(matches)
}

func runRefs(root string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: codegraph refs <symbol-name>")
	}
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	indices := g.SymbolsByName(args[0])
	if len(indices) == 0 {
		return fmt.Errorf("not found: symbol %q", args[0])
	}
	return printJSON(query.FindReferences(g, root, indices))
}

func runImpact(root string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: codegraph impact <symbol-name>")
	}
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	indices := g.SymbolsByName(args[0])
	if len(indices) == 0 {
		return fmt.Errorf("not found: symbol %q", args[0])
	}
	return printJSON(query.GetImpact(g, root, indices))
}

func runCircular(root string) error {
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	cycles, err := query.DetectCircular(g, root)
	if err != nil {
		return err
	}
	return printJSON(cycles)
}

func runStats(root string) error {
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	return printJSON(query.GetStats(g))
}

func runContext(root string, args []string) error {
	fs := flag.NewFlagSet("context", flag.ContinueOnError)
	sections := fs.String("sections", "rcexXiI", "which relationship sections to include")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: codegraph context [flags] <symbol-name>")
	}
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	indices := g.SymbolsByName(fs.Arg(0))
	if len(indices) == 0 {
		return fmt.Errorf("not found: symbol %q", fs.Arg(0))
	}
	ctx := query.GetContext(g, root, fs.Arg(0), indices)
	return printJSON(mcptools.ProjectContext(ctx, *sections))
}

func runExport(root string, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "dot", "dot or mermaid")
	granularity := fs.String("granularity", "file", "file, package, or symbol")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	source, err := export.Render(g, root, export.Format(*format), export.Granularity(*granularity))
	if err != nil {
		return err
	}
	fmt.Println(source)
	return nil
}

func runDeadCode(root string) error {
	g, err := loadGraph(root)
	if err != nil {
		return err
	}
	return printJSON(query.FindDeadCode(g, root))
}

func runDiff(root string, args []string) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: codegraph diff <from-snapshot> [to-snapshot]")
	}
	from, err := snapshot.Load(root, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("not found: snapshot %q", fs.Arg(0))
	}

	var to snapshot.Snapshot
	if fs.NArg() >= 2 {
		to, err = snapshot.Load(root, fs.Arg(1))
		if err != nil {
			return fmt.Errorf("not found: snapshot %q", fs.Arg(1))
		}
	} else {
		g, err := loadGraph(root)
		if err != nil {
			return err
		}
		to = snapshot.FromGraph(g, root, "live", 0)
	}
	return printJSON(snapshot.Compare(from, to))
}

func runSnapshot(root string, args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: codegraph snapshot <list|save> [name]")
	}
	switch fs.Arg(0) {
	case "list":
		names, err := snapshot.List(root)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	case "save":
		if fs.NArg() < 2 {
			return fmt.Errorf("usage: codegraph snapshot save <name>")
		}
		g, err := loadGraph(root)
		if err != nil {
			return err
		}
		return snapshot.Save(root, snapshot.FromGraph(g, root, fs.Arg(1), 0))
	default:
		return fmt.Errorf("unknown snapshot command: %s", fs.Arg(0))
	}
}

func runServer(root string, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", ":8791", "HTTP listen address for the MCP server")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	svc := mcptools.NewService(root, cfg.MCP, logger)

	fmt.Fprintf(os.Stderr, "codegraph MCP server v%s starting on %s (project: %s)\n", version, *addr, root)
	return mcptools.RunServer(context.Background(), svc, *addr)
}

func printUsage(fs *flag.FlagSet) {
	w := os.Stderr
	fmt.Fprintf(w, "codegraph v%s - dependency graph queries for TypeScript/JavaScript/Rust projects\n\n", version)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  codegraph [flags] index                 Build and cache the project graph")
	fmt.Fprintln(w, "  codegraph [flags] find <pattern>         Search symbol names")
	fmt.Fprintln(w, "  codegraph [flags] refs <symbol>          Find references to a symbol")
	fmt.Fprintln(w, "  codegraph [flags] impact <symbol>        Compute a symbol's blast radius")
	fmt.Fprintln(w, "  codegraph [flags] circular               Detect import cycles")
	fmt.Fprintln(w, "  codegraph [flags] stats                  Print graph-wide counts")
	fmt.Fprintln(w, "  codegraph [flags] context <symbol>        Gather a symbol's relationships")
	fmt.Fprintln(w, "  codegraph [flags] export                 Render the graph as DOT or Mermaid")
	fmt.Fprintln(w, "  codegraph [flags] dead-code              Find unreferenced files and symbols")
	fmt.Fprintln(w, "  codegraph [flags] diff <from> [to]        Diff two snapshots, or a snapshot vs live")
	fmt.Fprintln(w, "  codegraph [flags] snapshot <list|save>   Manage named graph snapshots")
	fmt.Fprintln(w, "  codegraph [flags] server                 Run the MCP tool server")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
