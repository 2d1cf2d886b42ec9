package lsp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// =============================================================================
// Base Protocol Framing
// =============================================================================

// ReadMessage reads one framed message body from r. The base protocol
// frames each message with a header block terminated by an empty line;
// only the Content-Length header is significant, other headers are
// skipped.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header line %q", line)
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// WriteMessage frames body with a Content-Length header and writes it
// to w in a single call, so concurrent writers holding an external lock
// never interleave frames.
func WriteMessage(w io.Writer, body []byte) error {
	framed := make([]byte, 0, len(body)+32)
	framed = append(framed, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))...)
	framed = append(framed, body...)
	if _, err := w.Write(framed); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
