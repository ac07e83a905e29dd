package streamhttp

import "bytes"

// Sink consumes decoded body data as it arrives. WriteChunk is called
// once per decoded unit (chunk payload, decompressed slice, or line,
// depending on the response framing); returning an error aborts the
// request.
type Sink interface {
	WriteChunk(p []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(p []byte) error

func (f SinkFunc) WriteChunk(p []byte) error { return f(p) }

// bufferSink accumulates everything; it is the default consumer when
// the caller supplies no Sink, and its contents are what Request
// returns.
type bufferSink struct {
	buf bytes.Buffer
}

func (b *bufferSink) WriteChunk(p []byte) error {
	_, _ = b.buf.Write(p)
	return nil
}

func (b *bufferSink) bytes() []byte { return b.buf.Bytes() }
