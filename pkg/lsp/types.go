package lsp

import "encoding/json"

// =============================================================================
// JSON-RPC 2.0 Envelope
// =============================================================================

// message is the union of everything a language server can send over
// its stdout: responses carry an ID and a result or error, server
// notifications carry a method and params.
type message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// request is an outgoing call or notification. Notifications omit ID.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      *int   `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// ResponseError is a JSON-RPC error object returned by the server.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return e.Message
}

// =============================================================================
// LSP Types
//
// A deliberately small subset: only the requests and notifications the
// analyzer actually sends. Everything else in the protocol is ignored.
// =============================================================================

// InitializeParams for the initialize request.
type InitializeParams struct {
	ProcessID    int                `json:"processId,omitempty"`
	RootURI      string             `json:"rootUri,omitempty"`
	Capabilities ClientCapabilities `json:"capabilities"`
}

// ClientCapabilities advertises what this client understands.
type ClientCapabilities struct {
	Window WindowClientCapabilities `json:"window"`
}

// WindowClientCapabilities opts in to $/progress notifications, which
// the indexing wait depends on.
type WindowClientCapabilities struct {
	WorkDoneProgress bool `json:"workDoneProgress"`
}

// InitializeResult is the server's answer to initialize.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities lists the server features the client cares about.
// MonikerProvider is loosely typed in the protocol (bool or options
// object), so it is captured raw and probed with a helper.
type ServerCapabilities struct {
	DocumentSymbolProvider bool            `json:"documentSymbolProvider,omitempty"`
	MonikerProvider        json.RawMessage `json:"monikerProvider,omitempty"`
}

// SupportsMonikers reports whether the server advertises moniker
// support in any of the shapes the protocol allows.
func (c ServerCapabilities) SupportsMonikers() bool {
	if len(c.MonikerProvider) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(c.MonikerProvider, &b); err == nil {
		return b
	}
	// An options object counts as support.
	return string(c.MonikerProvider) != "null"
}

// InitializedParams for the initialized notification. Intentionally
// empty.
type InitializedParams struct{}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// Position is a zero-based line/character location in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span in a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentPositionParams addresses a single position in a document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// DocumentSymbolParams for textDocument/documentSymbol.
type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DocumentSymbol is one entry of a hierarchical documentSymbol
// response. Children nest arbitrarily deep.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// Moniker is a stable, workspace-independent symbol identifier.
type Moniker struct {
	Scheme     string `json:"scheme"`
	Identifier string `json:"identifier"`
	Unique     string `json:"unique"`
	Kind       string `json:"kind,omitempty"`
}

// ProgressParams is the payload of a $/progress notification. Token
// identifies the operation; the protocol allows integer tokens, so it
// is decoded leniently into a string.
type ProgressParams struct {
	Token progressToken    `json:"token"`
	Value WorkDoneProgress `json:"value"`
}

// WorkDoneProgress is the value of a progress notification. Kind is
// one of "begin", "report" or "end".
type WorkDoneProgress struct {
	Kind    string `json:"kind"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// Progress kinds.
const (
	ProgressBegin  = "begin"
	ProgressReport = "report"
	ProgressEnd    = "end"
)

// progressToken accepts both string and integer tokens.
type progressToken string

func (t *progressToken) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = progressToken(s)
		return nil
	}
	*t = progressToken(string(data))
	return nil
}
