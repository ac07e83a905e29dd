package streamhttp

import "net/url"

// requestConfig is built fresh per call from the client defaults plus
// the caller's options, and never mutated afterwards.
type requestConfig struct {
	headers     Header
	compression bool
	body        []byte
	form        url.Values
	contentType string
	userAgent   string
	transport   Transport
	sink        Sink
}

// Option configures a single request.
type Option func(*requestConfig)

// WithHeaders merges extra headers into the request; they override
// any default header with the same (case-insensitive) name.
func WithHeaders(h Header) Option {
	return func(c *requestConfig) {
		for k, v := range h {
			c.headers.Set(k, v)
		}
	}
}

// WithHeader sets a single extra header.
func WithHeader(key, value string) Option {
	return func(c *requestConfig) { c.headers.Set(key, value) }
}

// WithCompression overrides the client-wide compression default for
// this call. When true, Accept-Encoding: gzip is sent.
func WithCompression(on bool) Option {
	return func(c *requestConfig) { c.compression = on }
}

// WithBody supplies raw body bytes. Mutually exclusive with WithForm;
// the last one applied wins.
func WithBody(b []byte) Option {
	return func(c *requestConfig) {
		c.body = b
		c.form = nil
	}
}

// WithForm supplies key/value pairs to be form-url-encoded as the
// request body.
func WithForm(form url.Values) Option {
	return func(c *requestConfig) {
		c.form = form
		c.body = nil
	}
}

// WithContentType overrides the Content-Type sent with a body.
func WithContentType(ct string) Option {
	return func(c *requestConfig) { c.contentType = ct }
}

// WithUserAgent overrides the User-Agent for this call.
func WithUserAgent(ua string) Option {
	return func(c *requestConfig) { c.userAgent = ua }
}

// WithTransport injects a pre-established transport (e.g. an already
// TLS-negotiated connection). The request still owns it and closes it
// on return.
func WithTransport(t Transport) Option {
	return func(c *requestConfig) { c.transport = t }
}

// WithSink streams decoded body data to s instead of accumulating it;
// Request then returns a nil byte slice.
func WithSink(s Sink) Option {
	return func(c *requestConfig) { c.sink = s }
}

func (c *Client) newRequestConfig(opts []Option) *requestConfig {
	cfg := &requestConfig{
		headers:     Header{},
		compression: !c.DisableCompression,
		userAgent:   c.UserAgent,
	}
	if cfg.userAgent == "" {
		cfg.userAgent = DefaultUserAgent
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
