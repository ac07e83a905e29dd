package streamhttp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// DefaultUserAgent is sent when neither the client nor the call
// overrides it.
const DefaultUserAgent = "streamhttp/1.0"

const formContentType = "application/x-www-form-urlencoded"

// Request is the immutable wire form of one call: method, parsed URI,
// final header set, and serialized body.
type Request struct {
	Method string
	URL    *url.URL
	Header Header
	Body   []byte
}

// buildRequest resolves defaults, applies overrides, and serializes
// the body. The returned Request is not mutated afterwards.
func buildRequest(method string, u *url.URL, cfg *requestConfig) *Request {
	hdr := Header{}
	hdr.Set("User-Agent", cfg.userAgent)
	hdr.Set("Accept", "*/*")
	hdr.Set("Accept-Charset", "utf-8")
	if cfg.compression {
		hdr.Set("Accept-Encoding", "gzip")
	}

	var body []byte
	switch {
	case cfg.form != nil:
		body = []byte(encodeForm(cfg.form))
	case cfg.body != nil:
		body = cfg.body
	}
	if method == "POST" || method == "PUT" {
		ct := cfg.contentType
		if ct == "" {
			ct = formContentType
		}
		hdr.Set("Content-Type", ct)
		hdr.Set("Content-Length", fmt.Sprintf("%d", len(body)))
	}

	// user:password embedded in the URI becomes Basic auth.
	if u.User != nil {
		user := u.User.Username()
		pass, _ := u.User.Password()
		token := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
		hdr.Set("Authorization", "Basic "+token)
	}

	// Caller headers override any default with the same key.
	for k, v := range cfg.headers {
		hdr.Set(k, v)
	}

	return &Request{Method: method, URL: u, Header: hdr, Body: body}
}

// WriteTo serializes the request into wire bytes:
//
//	METHOD path[?query] HTTP/1.1\r\nHost: host\r\n<headers>\r\n\r\n[body]
func (r *Request) WriteTo(buf *bytes.Buffer) {
	path := r.URL.RequestURI()
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(buf, "%s %s HTTP/1.1\r\n", r.Method, path)
	fmt.Fprintf(buf, "Host: %s\r\n", r.URL.Host)
	// Deterministic header order keeps the wire output stable for a
	// given header set.
	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s: %s\r\n", k, sanitizeHeaderValue(r.Header[k]))
	}
	buf.WriteString("\r\n")
	if len(r.Body) > 0 {
		buf.Write(r.Body)
	}
}

// Bytes returns the full serialized request.
func (r *Request) Bytes() []byte {
	var buf bytes.Buffer
	r.WriteTo(&buf)
	return buf.Bytes()
}

// encodeForm url-encodes form pairs with %20 for spaces (not '+'),
// in sorted key order for a stable wire body.
func encodeForm(form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		for _, v := range form[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(escapeForm(k))
			b.WriteByte('=')
			b.WriteString(escapeForm(v))
		}
	}
	return b.String()
}

func escapeForm(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// sanitizeHeaderValue removes CR/LF and control chars except HTAB.
func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
