// Package lsp is a minimal Language Server Protocol client for
// one-shot analysis runs.
//
// The client speaks JSON-RPC 2.0 over a server process's stdio with
// Content-Length framing. It implements exactly the slice of the
// protocol the analyzer needs: the initialize handshake, waiting for
// the server's initial indexing via $/progress, hierarchical
// textDocument/documentSymbol requests, textDocument/moniker lookups
// and the shutdown sequence. Server-initiated requests are ignored.
//
// # Common Operations
//
//	client, err := lsp.Start(ctx, lsp.Options{}, "rust-analyzer")
//	...
//	caps, err := client.Initialize(ctx, "/path/to/workspace")
//	err = client.WaitForIndexing(ctx)
//	symbols, err := client.DocumentSymbols(ctx, "/path/to/workspace/src/lib.rs")
//	err = client.Shutdown(ctx)
package lsp
