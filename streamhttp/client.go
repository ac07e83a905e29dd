package streamhttp

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"dqx0.com/go/firehose/internal/obs"
	"dqx0.com/go/firehose/streamhttp/internal/http1"
)

// acceptedMediaTypes is the response content-type allow-list. Anything
// else fails before a single body byte is read.
var acceptedMediaTypes = map[string]bool{
	"application/json": true,
	"text/plain":       true,
	"text/html":        true,
}

const readBlockSize = 4096

// Client issues HTTP/1.1 requests over raw transports. One request
// runs at a time (a second concurrent call fails with
// ErrRequestRunning); Interrupt may be called from any goroutine to
// stop an in-flight streaming read.
//
// The zero value is usable and requests gzip compression; set
// DisableCompression to suppress Accept-Encoding: gzip (overridable
// per call with WithCompression).
type Client struct {
	UserAgent          string
	DisableCompression bool
	DialTimeout        time.Duration
	TLSConfig          *tls.Config
	Logger             obs.Logger
	Meter              obs.Meter

	mu          sync.Mutex
	busy        bool
	active      Transport
	interrupted atomic.Bool
}

// Get issues a GET request.
func (c *Client) Get(uri string, opts ...Option) ([]byte, error) {
	return c.Request("GET", uri, opts...)
}

// Post issues a POST request with raw body bytes.
func (c *Client) Post(uri string, body []byte, opts ...Option) ([]byte, error) {
	return c.Request("POST", uri, append([]Option{WithBody(body)}, opts...)...)
}

// PostForm issues a POST request with a form-url-encoded body.
func (c *Client) PostForm(uri string, form url.Values, opts ...Option) ([]byte, error) {
	return c.Request("POST", uri, append([]Option{WithForm(form)}, opts...)...)
}

// Interrupt asks the in-flight request to stop. It sets the
// cancellation flag and force-closes the active transport, which
// unblocks any pending read; the request then returns its partial
// result without error. Safe to call from any goroutine; never
// blocks.
func (c *Client) Interrupt() {
	c.interrupted.Store(true)
	c.mu.Lock()
	t := c.active
	c.mu.Unlock()
	if t != nil {
		_ = t.Close()
	}
}

// Request issues method against uri. Without a sink option the
// decoded body is returned; with one, decoded data streams to the
// sink and the returned slice is nil.
//
// The transport (dialed or injected) is always closed before Request
// returns, on every path.
func (c *Client) Request(method, uri string, opts ...Option) ([]byte, error) {
	start := time.Now()
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrRequestRunning
	}
	c.busy = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	cfg := c.newRequestConfig(opts)
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("streamhttp: unsupported scheme %q", u.Scheme)
	}
	c.interrupted.Store(false)

	tr := cfg.transport
	if tr == nil {
		tr, err = Dial(u, c.DialTimeout, c.TLSConfig)
		if err != nil {
			c.logf(obs.Error, "dial %s failed: %v", u.Host, err)
			c.metricCounter("streamhttp_client_requests_error", 1, obs.Label{Key: "stage", Value: "dial"})
			return nil, &TransportError{Op: "dial", Err: err}
		}
	}
	c.mu.Lock()
	c.active = tr
	c.mu.Unlock()
	defer func() {
		_ = tr.Close()
		c.mu.Lock()
		c.active = nil
		c.mu.Unlock()
	}()

	req := buildRequest(method, u, cfg)
	if _, err := tr.Write(req.Bytes()); err != nil {
		if c.interrupted.Load() {
			return nil, nil
		}
		c.logf(obs.Warn, "write request failed: %v", err)
		c.metricCounter("streamhttp_client_requests_error", 1, obs.Label{Key: "stage", Value: "write"})
		return nil, &TransportError{Op: "write", Err: err}
	}
	c.metricCounter("streamhttp_client_requests_total", 1, obs.Label{Key: "method", Value: method})

	head, err := http1.ReadHead(tr)
	if err != nil {
		if c.interrupted.Load() {
			return nil, nil
		}
		c.logf(obs.Warn, "read response head failed: %v", err)
		c.metricCounter("streamhttp_client_requests_error", 1, obs.Label{Key: "stage", Value: "read_head"})
		return nil, headReadError(err)
	}
	c.metricCounter("streamhttp_client_responses_total", 1, obs.Label{Key: "status", Value: strconv.Itoa(head.Code)})

	if mt := head.MediaType(); !acceptedMediaTypes[mt] {
		c.logf(obs.Warn, "rejected content type %q", mt)
		return nil, &ContentTypeError{ContentType: mt}
	}
	if head.Code != 200 {
		// Drain and discard the error body; the caller only gets the
		// head.
		if n := head.ContentLength(); n > 0 {
			drain := make([]byte, n)
			_ = tr.ReadFull(drain)
		}
		return nil, &StatusError{Code: head.Code, Reason: head.Reason, Header: headHeader(head)}
	}

	compressed := cfg.compression && head.GzipEncoded()
	out, err := c.readBody(tr, head, compressed, cfg.sink)
	c.metricHistogram("streamhttp_client_roundtrip_duration_ms", float64(time.Since(start).Milliseconds()),
		obs.Label{Key: "method", Value: method}, obs.Label{Key: "status", Value: strconv.Itoa(head.Code)})
	return out, err
}

// readBody dispatches on the (transfer mode × compression) matrix.
func (c *Client) readBody(tr Transport, head *http1.Head, compressed bool, sink Sink) ([]byte, error) {
	buffered := sink == nil
	var acc *bufferSink
	if buffered {
		acc = &bufferSink{}
		sink = acc
	}

	var err error
	switch {
	case head.Chunked():
		err = c.readChunked(tr, compressed, sink)
	case head.Get("Content-Length") != "":
		return c.readContentLength(tr, head.ContentLength(), compressed, buffered, acc, sink)
	default:
		err = c.readUnbounded(tr, compressed, sink)
	}
	if err != nil {
		return nil, err
	}
	if buffered {
		return acc.bytes(), nil
	}
	return nil, nil
}

// readContentLength reads exactly n bytes. A compressed body is one
// complete gzip member decoded in a single shot; the streaming
// decoder is deliberately not used here since the body is already
// whole.
func (c *Client) readContentLength(tr Transport, n int, compressed, buffered bool, acc *bufferSink, sink Sink) ([]byte, error) {
	if n == 0 {
		if buffered {
			return []byte{}, nil
		}
		return nil, nil
	}
	body := make([]byte, n)
	if err := tr.ReadFull(body); err != nil {
		if c.interrupted.Load() {
			return nil, nil
		}
		return nil, &TransportError{Op: "read", Err: err}
	}
	if compressed {
		out, err := gunzip(body)
		if err != nil {
			return nil, err
		}
		body = out
	}
	if buffered {
		return body, nil
	}
	return nil, sink.WriteChunk(body)
}

// readChunked consumes chunk payloads until the terminal chunk,
// transport EOF, or interruption. With compression active, payloads
// are fed through the streaming inflator regardless of how gzip
// frames align with chunk boundaries.
func (c *Client) readChunked(tr Transport, compressed bool, sink Sink) (err error) {
	dec := http1.NewChunkDecoder(tr)
	deliver, finish := c.deliverFunc(compressed, sink)
	defer func() { err = finishBody(err, finish, c.interrupted.Load()) }()

	for {
		payload, cerr := dec.Next()
		if cerr == io.EOF {
			return nil
		}
		if cerr != nil {
			if c.interrupted.Load() {
				return nil
			}
			if cerr == http1.ErrChunkFormat {
				return cerr
			}
			return &TransportError{Op: "read", Err: cerr}
		}
		if derr := deliver(payload); derr != nil {
			return derr
		}
		// Cancellation checkpoint: between chunks, stop politely.
		if c.interrupted.Load() {
			return nil
		}
	}
}

// readUnbounded handles bodies with neither Content-Length nor
// chunked framing: read until transport EOF. Plain bodies are
// consumed line-wise (the firehose framing); compressed bodies in
// fixed-size blocks fed to the streaming inflator.
func (c *Client) readUnbounded(tr Transport, compressed bool, sink Sink) (err error) {
	deliver, finish := c.deliverFunc(compressed, sink)
	defer func() { err = finishBody(err, finish, c.interrupted.Load()) }()

	if compressed {
		buf := make([]byte, readBlockSize)
		for {
			n, rerr := tr.Read(buf)
			if n > 0 {
				if derr := deliver(buf[:n]); derr != nil {
					return derr
				}
			}
			if rerr == io.EOF {
				return nil
			}
			if rerr != nil {
				if c.interrupted.Load() {
					return nil
				}
				return &TransportError{Op: "read", Err: rerr}
			}
			if c.interrupted.Load() {
				return nil
			}
		}
	}
	for {
		line, rerr := tr.ReadLine()
		if len(line) > 0 {
			if derr := deliver(line); derr != nil {
				return derr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			if c.interrupted.Load() {
				return nil
			}
			return &TransportError{Op: "read", Err: rerr}
		}
		if c.interrupted.Load() {
			return nil
		}
	}
}

// deliverFunc returns the per-piece delivery function and a finisher.
// Without compression, pieces go straight to the sink; with it, they
// feed the inflator and the sink receives decompressed slices. The
// finisher releases the inflator and must run on every exit path.
func (c *Client) deliverFunc(compressed bool, sink Sink) (deliver func([]byte) error, finish func() error) {
	if !compressed {
		return sink.WriteChunk, func() error { return nil }
	}
	z := NewInflator(sink.WriteChunk)
	return z.Feed, z.Close
}

// finishBody combines the body error with the decoder-close error.
// Interruption does not mask decode errors: corrupt gzip is reported
// even when it races a cancellation.
func finishBody(err error, finish func() error, interrupted bool) error {
	cerr := finish()
	if interrupted && err == nil {
		// A truncated member is expected when the stream was cut.
		return nil
	}
	return multierr.Append(err, cerr)
}

func headHeader(h *http1.Head) Header {
	out := make(Header, len(h.Header))
	for k, v := range h.Header {
		out[k] = v
	}
	return out
}

func headReadError(err error) error {
	switch err {
	case http1.ErrBadStatusLine:
		return ErrBadStatusLine
	case http1.ErrBadHeaderLine:
		return ErrBadHeaderLine
	}
	return &TransportError{Op: "read", Err: err}
}

func (c *Client) logf(level obs.Level, format string, args ...interface{}) {
	lg := c.Logger
	if lg == nil {
		lg = obs.NopLogger{}
	}
	lg.Logf(level, format, args...)
}

func (c *Client) metricCounter(name string, value float64, labels ...obs.Label) {
	c.getMeter().Counter(name, value, labels...)
}

func (c *Client) metricHistogram(name string, value float64, labels ...obs.Label) {
	c.getMeter().Histogram(name, value, labels...)
}

func (c *Client) getMeter() obs.Meter {
	if c.Meter != nil {
		return c.Meter
	}
	return obs.NopMeter{}
}
