package streamhttp

import (
	"bufio"
	"crypto/tls"
	"io"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Transport is the byte-stream seam under the client. The production
// implementation wraps a TCP (optionally TLS) connection; tests and
// callers may inject their own already-connected stream.
//
// Close must be idempotent and safe to call concurrently with a
// blocked read: Interrupt relies on it to unblock the request
// goroutine.
type Transport interface {
	// ReadLine returns the next line including its '\n' terminator,
	// or io.EOF at end of stream.
	ReadLine() ([]byte, error)
	// ReadFull fills p exactly, looping on short reads.
	ReadFull(p []byte) error
	// Read returns whatever bytes are available, like io.Reader.
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// netTransport is the socket-backed Transport.
type netTransport struct {
	c    net.Conn
	br   *bufio.Reader
	once sync.Once
	cerr error
}

// Dial opens a transport for u. https connections are wrapped with
// TLS using SNI from the URL host and http/1.1 ALPN.
func Dial(u *url.URL, dialTimeout time.Duration, tlsCfg *tls.Config) (Transport, error) {
	addr := hostPort(u)
	d := net.Dialer{Timeout: dialTimeout}
	if u.Scheme == "https" {
		cfg := tlsCfg
		if cfg == nil {
			cfg = &tls.Config{}
		}
		if cfg.ServerName == "" {
			cfg = cfg.Clone()
			cfg.ServerName = hostNoPort(u.Host)
		}
		if len(cfg.NextProtos) == 0 {
			cfg = cfg.Clone()
			cfg.NextProtos = []string{"http/1.1"}
		}
		td := tls.Dialer{NetDialer: &d, Config: cfg}
		c, err := td.Dial("tcp", addr)
		if err != nil {
			return nil, err
		}
		return NewTransport(c), nil
	}
	c, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewTransport(c), nil
}

// NewTransport wraps an established connection. The caller hands over
// ownership; the client closes it when the request returns.
func NewTransport(c net.Conn) Transport {
	return &netTransport{c: c, br: bufio.NewReader(c)}
}

func (t *netTransport) ReadLine() ([]byte, error) {
	line, err := t.br.ReadBytes('\n')
	if len(line) > 0 && err == io.EOF {
		// Final unterminated line still counts; EOF surfaces on the
		// next call.
		return line, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (t *netTransport) ReadFull(p []byte) error {
	_, err := io.ReadFull(t.br, p)
	return err
}

func (t *netTransport) Read(p []byte) (int, error) {
	return t.br.Read(p)
}

func (t *netTransport) Write(p []byte) (int, error) {
	return t.c.Write(p)
}

func (t *netTransport) Close() error {
	t.once.Do(func() { t.cerr = t.c.Close() })
	return t.cerr
}

func hostPort(u *url.URL) string {
	host := u.Host
	if !strings.Contains(host, ":") {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	return host
}

func hostNoPort(h string) string {
	if i := strings.LastIndex(h, ":"); i != -1 {
		// If it's an IPv6 literal, don't strip the colon inside [].
		if strings.HasPrefix(h, "[") && strings.HasSuffix(h, "]") {
			return strings.Trim(h, "[]")
		}
		return h[:i]
	}
	return h
}
