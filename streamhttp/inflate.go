package streamhttp

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Inflator incrementally decompresses a gzip stream fed to it in
// arbitrarily sized pieces: feeds need not align with chunk or gzip
// member boundaries, may end mid-deflate-block, and concatenated gzip
// members are handled. Decompressed output is delivered to the emit
// callback as soon as it is decodable.
//
// The engine holds window-buffer resources; Close must be called once
// compression starts, on every exit path.
type Inflator struct {
	pw     *io.PipeWriter
	done   chan struct{}
	err    error // decode error, set by the reader goroutine
	closed bool
}

// NewInflator starts the decode engine. emit is invoked from the
// engine's goroutine; Feed and Close provide the synchronization
// points (all output for fed data has been emitted once Close
// returns). An error from emit stops the engine and surfaces from
// Feed or Close.
func NewInflator(emit func(p []byte) error) *Inflator {
	pr, pw := io.Pipe()
	z := &Inflator{pw: pw, done: make(chan struct{})}
	go func() {
		defer close(z.done)
		zr, err := gzip.NewReader(pr)
		if err != nil {
			z.err = &DecodeError{Err: err}
			_ = pr.CloseWithError(err)
			return
		}
		defer zr.Close()
		buf := make([]byte, 4096)
		for {
			n, rerr := zr.Read(buf)
			if n > 0 {
				out := make([]byte, n)
				copy(out, buf[:n])
				if eerr := emit(out); eerr != nil {
					z.err = eerr
					_ = pr.CloseWithError(eerr)
					return
				}
			}
			if rerr == io.EOF {
				return
			}
			if rerr != nil {
				z.err = &DecodeError{Err: rerr}
				_ = pr.CloseWithError(rerr)
				return
			}
		}
	}()
	return z
}

// Feed pushes compressed bytes into the engine. It blocks until the
// engine has consumed them (and emitted whatever they complete). A
// decode failure from earlier input surfaces here as a DecodeError.
func (z *Inflator) Feed(p []byte) error {
	if _, err := z.pw.Write(p); err != nil {
		<-z.done
		if z.err != nil {
			return z.err
		}
		return &DecodeError{Err: err}
	}
	return nil
}

// Close flushes the engine, waits for it to stop, and releases its
// resources. Calling Close again is a no-op returning the first
// result. A stream truncated mid-member reports a DecodeError.
func (z *Inflator) Close() error {
	if z.closed {
		return z.err
	}
	z.closed = true
	_ = z.pw.Close()
	<-z.done
	return z.err
}

// gunzip decompresses one complete gzip body in a single shot. Used
// for content-length framed bodies, which arrive fully buffered.
func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return out, nil
}
