package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	// ErrFlatSymbols is returned by [Client.DocumentSymbols] when the
	// server answers with the flat SymbolInformation shape instead of
	// the hierarchical one. Flat responses carry no nesting, so they
	// cannot be mapped onto a containment graph.
	ErrFlatSymbols = errors.New("flat document symbol responses are not supported")

	// ErrClientClosed is returned for calls issued after the server
	// connection is gone.
	ErrClientClosed = errors.New("lsp client closed")
)

// rustAnalyzerIndexingToken is emitted by rust-analyzer for its initial
// indexing pass. The indexing wait is seeded with it so the wait does
// not return before the server has even begun reporting.
const rustAnalyzerIndexingToken = "rustAnalyzer/Indexing"

// Client talks to a language server over the server process's stdio.
//
// One goroutine owns the server's stdout and dispatches responses to
// their pending calls by request ID; $/progress notifications are
// diverted to the indexing tracker and everything else from the server
// is ignored. Calls may be issued from multiple goroutines.
type Client struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger *log.Logger

	writeMu sync.Mutex // serializes frames on stdin

	mu      sync.Mutex
	nextID  int
	pending map[int]chan message
	closed  bool

	progress chan ProgressParams
	done     chan struct{}
}

// Options configure a client.
type Options struct {
	// Logger receives protocol-level debug logging. Defaults to a
	// discarding logger.
	Logger *log.Logger
}

// Start launches a language server process and returns a connected
// client. The server's stderr is passed through so its own diagnostics
// remain visible.
func Start(ctx context.Context, opts Options, command string, args ...string) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("acquire server stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("acquire server stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	c := &Client{
		cmd:      cmd,
		stdin:    stdin,
		logger:   opts.Logger,
		pending:  make(map[int]chan message),
		progress: make(chan ProgressParams, 64),
		done:     make(chan struct{}),
	}
	go c.readLoop(bufio.NewReader(stdout))
	return c, nil
}

// readLoop owns stdout until the server goes away. On any read error
// every pending call is failed and the client is marked closed.
func (c *Client) readLoop(r *bufio.Reader) {
	defer func() {
		close(c.done)
		c.mu.Lock()
		c.closed = true
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.mu.Unlock()
	}()

	for {
		body, err := ReadMessage(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.logger.Debug("lsp read failed", "error", err)
			}
			return
		}
		var msg message
		if err := json.Unmarshal(body, &msg); err != nil {
			c.logger.Debug("lsp message undecodable", "error", err)
			continue
		}

		switch {
		case msg.ID != nil && msg.Method == "":
			c.mu.Lock()
			ch, ok := c.pending[*msg.ID]
			if ok {
				delete(c.pending, *msg.ID)
			}
			c.mu.Unlock()
			if ok {
				ch <- msg
			}
		case msg.Method == "$/progress":
			var p ProgressParams
			if err := json.Unmarshal(msg.Params, &p); err != nil {
				c.logger.Debug("progress params undecodable", "error", err)
				continue
			}
			select {
			case c.progress <- p:
			default:
				// Tracker fell behind; report-kind spam is droppable.
			}
		default:
			// Server-initiated requests and other notifications are
			// out of scope for a one-shot analysis client.
			c.logger.Debug("ignoring server message", "method", msg.Method)
		}
	}
}

// call issues a request and decodes its result into out (skipped when
// out is nil).
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	id := c.nextID
	c.nextID++
	ch := make(chan message, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.write(request{JSONRPC: "2.0", ID: &id, Method: method, Params: params}); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	case msg, ok := <-ch:
		if !ok {
			return ErrClientClosed
		}
		if msg.Error != nil {
			return fmt.Errorf("%s: %w", method, msg.Error)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(msg.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	}
}

// notify issues a notification, which has no response.
func (c *Client) notify(method string, params any) error {
	return c.write(request{JSONRPC: "2.0", Method: method, Params: params})
}

func (c *Client) write(req request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", req.Method, err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteMessage(c.stdin, body)
}

// Initialize performs the initialize handshake for a workspace rooted
// at rootPath and returns the server's capabilities.
func (c *Client) Initialize(ctx context.Context, rootPath string) (InitializeResult, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return InitializeResult{}, fmt.Errorf("resolve root path: %w", err)
	}
	params := InitializeParams{
		ProcessID: os.Getpid(),
		RootURI:   FileURI(abs),
		Capabilities: ClientCapabilities{
			Window: WindowClientCapabilities{WorkDoneProgress: true},
		},
	}
	var result InitializeResult
	if err := c.call(ctx, "initialize", params, &result); err != nil {
		return InitializeResult{}, err
	}
	if err := c.notify("initialized", InitializedParams{}); err != nil {
		return InitializeResult{}, err
	}
	c.logger.Debug("lsp initialized",
		"documentSymbols", result.Capabilities.DocumentSymbolProvider,
		"monikers", result.Capabilities.SupportsMonikers())
	return result, nil
}

// WaitForIndexing blocks until every in-flight progress operation has
// ended. The wait is seeded with rust-analyzer's indexing token so a
// server that has not yet reported anything still blocks the wait.
func (c *Client) WaitForIndexing(ctx context.Context) error {
	waiting := map[progressToken]struct{}{
		rustAnalyzerIndexingToken: {},
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return ErrClientClosed
		case p := <-c.progress:
			switch p.Value.Kind {
			case ProgressBegin:
				waiting[p.Token] = struct{}{}
			case ProgressEnd:
				delete(waiting, p.Token)
			}
			if len(waiting) == 0 {
				return nil
			}
		}
	}
}

// DocumentSymbols requests the hierarchical symbol outline of a file.
// Servers answering with the flat SymbolInformation shape get
// ErrFlatSymbols.
func (c *Client) DocumentSymbols(ctx context.Context, path string) ([]DocumentSymbol, error) {
	params := DocumentSymbolParams{
		TextDocument: TextDocumentIdentifier{URI: FileURI(path)},
	}
	var raw json.RawMessage
	if err := c.call(ctx, "textDocument/documentSymbol", params, &raw); err != nil {
		return nil, err
	}
	return decodeDocumentSymbols(raw)
}

// Moniker requests the stable identifiers for the symbol at a position.
// An empty slice means the server knows no moniker there.
func (c *Client) Moniker(ctx context.Context, path string, pos Position) ([]Moniker, error) {
	params := TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: FileURI(path)},
		Position:     pos,
	}
	var monikers []Moniker
	if err := c.call(ctx, "textDocument/moniker", params, &monikers); err != nil {
		return nil, err
	}
	return monikers, nil
}

// Shutdown performs the orderly shutdown sequence and reaps the server
// process.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := c.call(ctx, "shutdown", nil, nil); err != nil && !errors.Is(err, ErrClientClosed) {
		return err
	}
	if err := c.notify("exit", nil); err != nil && !errors.Is(err, ErrClientClosed) {
		return err
	}
	c.stdin.Close()
	if err := c.cmd.Wait(); err != nil {
		return fmt.Errorf("server exit: %w", err)
	}
	return nil
}

// Close tears the server down without the shutdown handshake. Safe to
// call after Shutdown.
func (c *Client) Close() error {
	c.stdin.Close()
	if c.cmd.ProcessState != nil {
		return nil
	}
	if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	c.cmd.Wait()
	return nil
}

// FileURI converts an absolute filesystem path to a file:// URI.
func FileURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// decodeDocumentSymbols decodes a documentSymbol result, rejecting the
// flat shape. The two shapes are distinguished by probing the first
// element: flat SymbolInformation carries a location field,
// hierarchical DocumentSymbol a selectionRange.
func decodeDocumentSymbols(raw json.RawMessage) ([]DocumentSymbol, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("decode documentSymbol response: %w", err)
	}
	if len(elems) == 0 {
		return nil, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(elems[0], &probe); err != nil {
		return nil, fmt.Errorf("decode documentSymbol response: %w", err)
	}
	if _, flat := probe["location"]; flat {
		return nil, ErrFlatSymbols
	}
	var symbols []DocumentSymbol
	if err := json.Unmarshal(raw, &symbols); err != nil {
		return nil, fmt.Errorf("decode documentSymbol response: %w", err)
	}
	return symbols, nil
}
