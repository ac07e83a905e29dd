package streamhttp

import "dqx0.com/go/firehose/streamhttp/internal/http1"

// Header is a case-insensitive header mapping. Keys are stored in
// canonical Word-Capitalized-With-Hyphens form; setting a key that
// already exists replaces its value (last one wins).
type Header map[string]string

func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	return h[CanonicalKey(key)]
}

func (h Header) Set(key, value string) {
	if h == nil {
		return
	}
	h[CanonicalKey(key)] = value
}

func (h Header) Del(key string) {
	if h == nil {
		return
	}
	delete(h, CanonicalKey(key))
}

func (h Header) Has(key string) bool {
	if h == nil {
		return false
	}
	_, ok := h[CanonicalKey(key)]
	return ok
}

// Clone returns a copy of h, or a fresh empty Header when h is nil.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// CanonicalKey converts a header name to canonical form: each
// hyphen-separated segment capitalized, the rest lowered, so
// "content-type" and "CONTENT-TYPE" both become "Content-Type". It is
// the same canonicalization the response parser applies.
func CanonicalKey(s string) string {
	return http1.CanonicalKey(s)
}
