package http1

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

var ErrChunkFormat = errors.New("http1: invalid chunk format")

type chunkState uint8

const (
	stateSize chunkState = iota
	statePayload
	stateDone
)

// ChunkDecoder turns the chunked-transfer wire format into a sequence
// of whole chunk payloads. It is an explicit state machine
// (size → payload → size | done) over a LineSource, so it can be
// driven from an in-memory source in tests.
//
// Chunk sizes are read as whole lines because the size is
// self-delimiting by its line terminator; payload bytes are not
// line-delimited and are read by exact count.
type ChunkDecoder struct {
	src   LineSource
	state chunkState
	size  int
}

func NewChunkDecoder(src LineSource) *ChunkDecoder {
	return &ChunkDecoder{src: src, state: stateSize}
}

// Next returns the next chunk payload. It returns io.EOF after the
// terminal zero-size chunk, or when the source ends without one
// (EOF-terminated stream). Trailer headers are not consumed.
func (d *ChunkDecoder) Next() ([]byte, error) {
	for {
		switch d.state {
		case stateDone:
			return nil, io.EOF
		case stateSize:
			line, err := d.src.ReadLine()
			if err == io.EOF {
				d.state = stateDone
				return nil, io.EOF
			}
			if err != nil {
				return nil, err
			}
			s := chomp(line)
			if s == "" {
				// Blank line between chunks (trailing terminator of
				// the previous payload): skip and re-read.
				continue
			}
			if i := strings.IndexByte(s, ';'); i >= 0 {
				s = s[:i]
			}
			s = strings.TrimSpace(s)
			n, err := strconv.ParseInt(s, 16, 64)
			if err != nil || n < 0 {
				return nil, ErrChunkFormat
			}
			if n == 0 {
				d.state = stateDone
				return nil, io.EOF
			}
			d.size = int(n)
			d.state = statePayload
		case statePayload:
			buf := make([]byte, d.size)
			if err := d.src.ReadFull(buf); err != nil {
				return nil, err
			}
			d.state = stateSize
			d.size = 0
			return buf, nil
		}
	}
}

// Done reports whether the terminal chunk (or source EOF) was seen.
func (d *ChunkDecoder) Done() bool { return d.state == stateDone }
