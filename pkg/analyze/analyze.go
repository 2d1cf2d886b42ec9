package analyze

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/errors"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/lsp"
)

// Options configure a workspace analysis.
type Options struct {
	// RootPath is the workspace directory to analyze.
	RootPath string

	// ServerCommand launches the language server, e.g. "rust-analyzer".
	// Empty disables the symbol pass.
	ServerCommand string

	// ServerArgs are extra arguments for the server command.
	ServerArgs []string

	// Extensions are the file extensions handed to the language server
	// for symbol extraction, without dots (e.g. "rs", "go").
	Extensions []string

	// SkipSymbols restricts the analysis to the file structure, even
	// when a server command is configured.
	SkipSymbols bool

	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Analyze builds a structural graph of the workspace at opts.RootPath.
//
// The walk pass adds a folder/file forest rooted at the workspace
// directory. When a language server is configured, the symbol pass then
// starts it, waits for its initial indexing and nests each file's
// symbol outline beneath the file node.
func Analyze(ctx context.Context, opts Options) (*graph.Store, error) {
	opts.setDefaults()

	s := graph.NewStore()
	if _, err := populateFileStructure(s, opts.RootPath, opts.Logger); err != nil {
		return nil, err
	}
	opts.Logger.Info("walked workspace", "root", opts.RootPath, "nodes", s.NodeCount())

	if opts.SkipSymbols || opts.ServerCommand == "" {
		return s, nil
	}
	if err := errors.ValidateServerCommand(opts.ServerCommand); err != nil {
		return nil, err
	}

	client, err := lsp.Start(ctx, lsp.Options{Logger: opts.Logger}, opts.ServerCommand, opts.ServerArgs...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLSPUnavailable, err, "start language server %q", opts.ServerCommand)
	}
	defer client.Close()

	result, err := client.Initialize(ctx, opts.RootPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLSP, err, "initialize language server")
	}
	opts.Logger.Info("language server ready", "command", opts.ServerCommand)

	if err := client.WaitForIndexing(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLSP, err, "wait for indexing")
	}
	opts.Logger.Info("indexing complete")

	useMonikers := result.Capabilities.SupportsMonikers()
	if err := populateSymbols(ctx, s, client, useMonikers, opts.Extensions, opts.Logger); err != nil {
		return nil, err
	}
	opts.Logger.Info("collected symbols", "nodes", s.NodeCount(), "edges", s.EdgeCount())

	if err := client.Shutdown(ctx); err != nil {
		opts.Logger.Warn("language server shutdown failed", "error", err)
	}
	return s, nil
}
