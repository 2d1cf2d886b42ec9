// Package pkg provides the core libraries for lspgraph codebase visualization.
//
// # Overview
//
// Lspgraph turns a workspace into a containment graph and draws it with
// a force-directed layout. The file structure comes from walking the
// directory tree; the symbols inside each file come from a language
// server speaking the Language Server Protocol. The pkg directory is
// organized into five main areas:
//
//  1. [graph] - Graph structure and serialization (nodes, edges, wire format)
//  2. [analyze] - Workspace walking and language server symbol collection
//  3. [layout] - Force-directed layout engine
//  4. [render] - Output generation (SVG, DOT, PNG)
//  5. [pipeline] - Orchestration (analyze → layout → render)
//
// # Architecture
//
// The typical data flow through lspgraph:
//
//	Workspace directory
//	         ↓
//	    [analyze] package (walk files, query language server)
//	         ↓
//	    [graph] package (containment graph + wire format)
//	         ↓
//	    [layout] package (force simulation)
//	         ↓
//	    [render] package (SVG/DOT/PNG output)
//
// # Quick Start
//
// Analyze a workspace and render it:
//
//	import (
//	    "context"
//	    "github.com/timsueberkrueb/lsp-graph-poc/pkg/analyze"
//	    "github.com/timsueberkrueb/lsp-graph-poc/pkg/layout"
//	    "github.com/timsueberkrueb/lsp-graph-poc/pkg/render"
//	)
//
//	// 1. Build the containment graph
//	s, _ := analyze.Analyze(context.Background(), analyze.Options{
//	    RootPath:      "/path/to/workspace",
//	    ServerCommand: "rust-analyzer",
//	    Extensions:    []string{"rs"},
//	})
//
//	// 2. Compute the layout
//	l := layout.Compute(s, layout.Options{})
//
//	// 3. Render to SVG
//	svg := render.LayoutSVG(s, l)
//
// # Main Packages
//
// [graph] - Arena-backed graph store with integer node and edge
// handles, the folder/file/item node model, and the JSON wire format
// shared by files, cache entries and the HTTP API.
//
// [analyze] - Two-pass workspace analysis. The first pass walks the
// directory tree, honoring .gitignore files and skipping hidden
// entries. The second pass starts a language server and queries
// document symbols (and monikers where supported) for each matching
// file.
//
// [lsp] - Minimal Language Server Protocol client: stdio transport with
// Content-Length framing, the request/response lifecycle, and progress
// tracking for servers that report indexing work.
//
// [layout] - Force-directed layout engine. Repulsive forces push every
// node pair apart, attractive forces pull connected nodes together, and
// a cooling schedule scales displacements until the largest force drops
// below the convergence threshold.
//
// [render] - Output generation: positioned SVG from a computed layout,
// DOT for Graphviz, and PNG via the Graphviz library.
//
// [pipeline] - Complete pipeline (analyze → layout → render) used by
// CLI and HTTP server. Ensures consistent behavior and caching across
// entry points.
//
// [cache] - Content-addressed result cache with file, Redis and no-op
// backends. Keys hash the inputs of each stage, so unchanged inputs hit
// the cache.
//
// [store] - Document persistence for the HTTP server with in-memory and
// MongoDB backends.
//
// [errors] - Structured errors with machine-readable codes shared by
// CLI and API.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP
// events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//
// [graph]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/graph
// [analyze]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/analyze
// [lsp]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/lsp
// [layout]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/layout
// [render]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/cache
// [store]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/store
// [errors]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/errors
// [observability]: https://pkg.go.dev/github.com/timsueberkrueb/lsp-graph-poc/pkg/observability
package pkg
