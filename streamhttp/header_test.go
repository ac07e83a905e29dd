package streamhttp

import "testing"

func TestHeaderCanonicalization(t *testing.T) {
	h := Header{}
	h.Set("x-foo", "a")
	if got := h.Get("X-FOO"); got != "a" {
		t.Fatalf("Get canonical = %q, want %q", got, "a")
	}
	h.Set("X-Foo", "b")
	if got := h.Get("x-foo"); got != "b" {
		t.Fatalf("duplicate set should win, got %q", got)
	}
	if len(h) != 1 {
		t.Fatalf("len=%d, want 1 (keys unique)", len(h))
	}
	h.Set("content-type", "text/plain")
	if got := h.Get("Content-Type"); got != "text/plain" {
		t.Fatalf("content-type = %q", got)
	}
	h.Del("x-foo")
	if h.Has("X-Foo") {
		t.Fatal("Has after Del")
	}
}

func TestCanonicalKey(t *testing.T) {
	cases := map[string]string{
		"content-type":   "Content-Type",
		"CONTENT-TYPE":   "Content-Type",
		"x-rate-limit":   "X-Rate-Limit",
		"ETAG":           "Etag",
		"Authorization":  "Authorization",
		"accept-CHARSET": "Accept-Charset",
	}
	for in, want := range cases {
		if got := CanonicalKey(in); got != want {
			t.Fatalf("CanonicalKey(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestHeaderClone(t *testing.T) {
	h := Header{}
	h.Set("A", "1")
	c := h.Clone()
	c.Set("A", "2")
	if h.Get("A") != "1" {
		t.Fatal("Clone must not share storage")
	}
	var nilH Header
	if got := nilH.Clone(); got == nil {
		t.Fatal("Clone of nil should be usable")
	}
}
