// Package http1 implements the HTTP/1.1 wire details consumed by the
// client: response head parsing and chunked transfer decoding. It
// reads from a LineSource so it can be tested against in-memory data
// without a socket.
package http1

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrBadStatusLine = errors.New("http1: malformed status line")
	ErrBadHeaderLine = errors.New("http1: malformed header line")
)

// LineSource is the subset of the client transport that the parsers
// need: line-delimited reads plus exact-count reads.
type LineSource interface {
	// ReadLine returns the next line including its '\n' terminator,
	// or io.EOF at end of stream.
	ReadLine() ([]byte, error)
	// ReadFull fills p exactly, looping on short reads.
	ReadFull(p []byte) error
}

// Head is the parsed status line and header block of a response.
type Head struct {
	Proto  string
	Code   int
	Reason string
	Header map[string]string
}

// ReadHead reads the status line and header lines up to and including
// the blank terminator line. Header names are canonicalized; a
// duplicate name keeps the last value seen.
func ReadHead(src LineSource) (*Head, error) {
	line, err := src.ReadLine()
	if err != nil {
		return nil, err
	}
	proto, code, reason, err := parseStatusLine(chomp(line))
	if err != nil {
		return nil, err
	}
	h := &Head{Proto: proto, Code: code, Reason: reason, Header: make(map[string]string)}
	for {
		line, err := src.ReadLine()
		if err != nil {
			return nil, err
		}
		s := chomp(line)
		if s == "" {
			// Terminator: consumed, not stored.
			return h, nil
		}
		i := strings.IndexByte(s, ':')
		if i <= 0 {
			return nil, ErrBadHeaderLine
		}
		k := strings.TrimSpace(s[:i])
		v := strings.TrimSpace(s[i+1:])
		h.Header[CanonicalKey(k)] = v
	}
}

// Get returns the header value for a name in any casing.
func (h *Head) Get(key string) string {
	return h.Header[CanonicalKey(key)]
}

// ContentLength reports the parsed Content-Length, or 0 when the
// header is missing or unparseable.
func (h *Head) ContentLength() int {
	v := h.Get("Content-Length")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Chunked reports whether the response body uses chunked transfer
// encoding. The comparison is case-insensitive to be robust.
func (h *Head) Chunked() bool {
	return strings.Contains(strings.ToLower(h.Get("Transfer-Encoding")), "chunked")
}

// GzipEncoded reports whether the body is gzip compressed.
func (h *Head) GzipEncoded() bool {
	return strings.Contains(strings.ToLower(h.Get("Content-Encoding")), "gzip")
}

// MediaType returns the Content-Type with any ;-delimited parameter
// suffix stripped and surrounding space removed.
func (h *Head) MediaType() string {
	ct := h.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

func parseStatusLine(line string) (proto string, code int, reason string, err error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return "", 0, "", ErrBadStatusLine
	}
	proto = parts[0]
	if !strings.HasPrefix(proto, "HTTP/1.") {
		return "", 0, "", ErrBadStatusLine
	}
	code, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", ErrBadStatusLine
	}
	if len(parts) == 3 {
		reason = parts[2]
	}
	return proto, code, reason, nil
}

// chomp strips a trailing CRLF or LF.
func chomp(line []byte) string {
	s := string(line)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s
}

// CanonicalKey converts a header name to canonical
// Word-Capitalized-With-Hyphens form.
func CanonicalKey(s string) string {
	b := []byte(strings.ToLower(s))
	upper := true
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			if upper {
				b[i] = byte(c - 'a' + 'A')
			}
			upper = false
		} else {
			upper = c == '-'
		}
	}
	return string(b)
}
