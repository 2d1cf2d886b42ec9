package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	if err := WriteMessage(&buf, body); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	got, err := ReadMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("ReadMessage() = %q, want %q", got, body)
	}
}

func TestReadMessageHeaders(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "content length only",
			input: "Content-Length: 2\r\n\r\nok",
			want:  "ok",
		},
		{
			name:  "extra headers skipped",
			input: "Content-Type: application/vscode-jsonrpc\r\nContent-Length: 2\r\n\r\nok",
			want:  "ok",
		},
		{
			name:  "case insensitive header name",
			input: "content-length: 2\r\n\r\nok",
			want:  "ok",
		},
		{
			name:  "bare newline termination",
			input: "Content-Length: 2\n\nok",
			want:  "ok",
		},
		{
			name:    "missing content length",
			input:   "Content-Type: application/vscode-jsonrpc\r\n\r\nok",
			wantErr: true,
		},
		{
			name:    "unparsable content length",
			input:   "Content-Length: many\r\n\r\nok",
			wantErr: true,
		},
		{
			name:    "malformed header line",
			input:   "garbage\r\n\r\n",
			wantErr: true,
		},
		{
			name:    "truncated body",
			input:   "Content-Length: 10\r\n\r\nok",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadMessage(bufio.NewReader(strings.NewReader(tt.input)))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ReadMessage() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMessage() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeDocumentSymbols(t *testing.T) {
	nested := `[
		{
			"name": "Server",
			"kind": 5,
			"range": {"start": {"line": 0, "character": 0}, "end": {"line": 10, "character": 1}},
			"selectionRange": {"start": {"line": 0, "character": 7}, "end": {"line": 0, "character": 13}},
			"children": [
				{
					"name": "Run",
					"kind": 6,
					"range": {"start": {"line": 2, "character": 0}, "end": {"line": 4, "character": 1}},
					"selectionRange": {"start": {"line": 2, "character": 8}, "end": {"line": 2, "character": 11}}
				}
			]
		}
	]`
	flat := `[
		{
			"name": "Server",
			"kind": 5,
			"location": {"uri": "file:///src/server.rs", "range": {"start": {"line": 0, "character": 0}, "end": {"line": 10, "character": 1}}}
		}
	]`

	t.Run("nested", func(t *testing.T) {
		symbols, err := decodeDocumentSymbols(json.RawMessage(nested))
		if err != nil {
			t.Fatalf("decodeDocumentSymbols() error = %v", err)
		}
		if len(symbols) != 1 {
			t.Fatalf("got %d symbols, want 1", len(symbols))
		}
		if symbols[0].Name != "Server" {
			t.Errorf("Name = %q, want %q", symbols[0].Name, "Server")
		}
		if len(symbols[0].Children) != 1 || symbols[0].Children[0].Name != "Run" {
			t.Errorf("Children = %+v, want single child Run", symbols[0].Children)
		}
	})

	t.Run("flat is rejected", func(t *testing.T) {
		_, err := decodeDocumentSymbols(json.RawMessage(flat))
		if !errors.Is(err, ErrFlatSymbols) {
			t.Errorf("error = %v, want ErrFlatSymbols", err)
		}
	})

	t.Run("null result", func(t *testing.T) {
		symbols, err := decodeDocumentSymbols(json.RawMessage("null"))
		if err != nil || symbols != nil {
			t.Errorf("decodeDocumentSymbols(null) = %v, %v, want nil, nil", symbols, err)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		symbols, err := decodeDocumentSymbols(json.RawMessage("[]"))
		if err != nil || symbols != nil {
			t.Errorf("decodeDocumentSymbols([]) = %v, %v, want nil, nil", symbols, err)
		}
	})
}

func TestProgressTokenAcceptsBothShapes(t *testing.T) {
	var p ProgressParams
	if err := json.Unmarshal([]byte(`{"token":"rustAnalyzer/Indexing","value":{"kind":"begin"}}`), &p); err != nil {
		t.Fatalf("unmarshal string token: %v", err)
	}
	if p.Token != "rustAnalyzer/Indexing" || p.Value.Kind != ProgressBegin {
		t.Errorf("got %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"token":7,"value":{"kind":"end"}}`), &p); err != nil {
		t.Fatalf("unmarshal integer token: %v", err)
	}
	if p.Token != "7" || p.Value.Kind != ProgressEnd {
		t.Errorf("got %+v", p)
	}
}

func TestSupportsMonikers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"absent", "", false},
		{"true", "true", true},
		{"false", "false", false},
		{"options object", `{"workDoneProgress":true}`, true},
		{"null", "null", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ServerCapabilities{MonikerProvider: json.RawMessage(tt.raw)}
			if got := c.SupportsMonikers(); got != tt.want {
				t.Errorf("SupportsMonikers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileURI(t *testing.T) {
	if got := FileURI("/work/proj"); got != "file:///work/proj" {
		t.Errorf("FileURI() = %q, want %q", got, "file:///work/proj")
	}
}
