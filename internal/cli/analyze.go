package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	server      string   // named server from the config file
	serverCmd   string   // raw server command, overrides the config entry
	serverArgs  []string // extra arguments for the server command
	extensions  []string // file extensions to query symbols for
	skipSymbols bool     // structure only, no language server
	refresh     bool     // bypass the graph cache
	noCache     bool     // disable caching entirely
	output      string   // output file path
}

// analyzeCommand creates the analyze command for workspace analysis.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts
	var extStr, argsStr string

	cmd := &cobra.Command{
		Use:   "analyze [workspace]",
		Short: "Analyze a workspace into a structural graph",
		Long: `Analyze a workspace into a structural graph.

The analyze command walks the workspace directory tree, skipping hidden
files and anything matched by .gitignore files, and builds a containment
graph of folders and files. Unless --skip-symbols is given, a language
server is started and queried for the symbols inside each matching file,
which become item nodes nested under their file.

Language servers are configured in ~/.config/lspgraph/config.toml and
selected with --server. Use --server-command to bypass the config file.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.extensions = parseList(extStr)
			opts.serverArgs = parseList(argsStr)
			return c.runAnalyze(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.server, "server", "s", "", "named server from the config file (default from config)")
	cmd.Flags().StringVar(&opts.serverCmd, "server-command", "", "language server command (overrides --server)")
	cmd.Flags().StringVar(&argsStr, "server-args", "", "comma-separated language server arguments")
	cmd.Flags().StringVar(&extStr, "ext", "", "comma-separated file extensions to query symbols for")
	cmd.Flags().BoolVar(&opts.skipSymbols, "skip-symbols", false, "skip the language server, structure only")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the graph cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "graph.json", "output file")

	return cmd
}

// runAnalyze resolves the server configuration, runs the analysis
// stage, and writes the graph to disk.
func (c *CLI) runAnalyze(ctx context.Context, workspace string, opts analyzeOpts) error {
	popts := pipeline.Options{
		RootPath:    workspace,
		SkipSymbols: opts.skipSymbols,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	}

	if !opts.skipSymbols {
		if opts.serverCmd != "" {
			popts.ServerCommand = opts.serverCmd
			popts.ServerArgs = opts.serverArgs
			popts.Extensions = opts.extensions
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc, err := cfg.serverFor(opts.server)
			if err != nil {
				return err
			}
			popts.ServerCommand = sc.Command
			popts.ServerArgs = append(sc.Args, opts.serverArgs...)
			popts.Extensions = sc.Extensions
			if len(opts.extensions) > 0 {
				popts.Extensions = opts.extensions
			}
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %s...", workspace))
	spinner.Start()

	s, cacheHit, err := runner.AnalyzeWithCacheInfo(ctx, popts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return fmt.Errorf("analyze: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := graph.WriteGraphFile(s, opts.output); err != nil {
		return fmt.Errorf("write output %s: %w", opts.output, err)
	}

	printSuccess("Analysis complete")
	printFile(opts.output)
	printStats(s.NodeCount(), s.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Layout", "lspgraph layout "+opts.output)

	return nil
}
