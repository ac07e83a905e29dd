package streamhttp

import (
	"errors"
	"fmt"
)

var (
	ErrBadStatusLine = errors.New("streamhttp: malformed status line")
	ErrBadHeaderLine = errors.New("streamhttp: malformed header line")

	// ErrRequestRunning is returned by Request while another request
	// on the same Client is still in flight.
	ErrRequestRunning = errors.New("streamhttp: request already in progress")
)

// TransportError wraps a connection-level I/O failure so callers can
// tell "bad connection" from "bad data". It is suppressed when the
// failure was induced by Interrupt.
type TransportError struct {
	Op  string // "dial", "write", "read"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("streamhttp: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-200 response. The body has been drained
// and discarded; only the head survives.
type StatusError struct {
	Code   int
	Reason string
	Header Header
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("streamhttp: unexpected status %d %s", e.Code, e.Reason)
}

// ContentTypeError reports a response content type outside the
// allow-list. Raised before any body bytes are consumed.
type ContentTypeError struct {
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("streamhttp: unacceptable content type %q", e.ContentType)
}

// DecodeError reports malformed compressed data, as opposed to a
// transport failure while reading it.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("streamhttp: gzip decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
