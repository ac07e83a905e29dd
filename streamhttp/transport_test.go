package streamhttp

import (
	"io"
	"net"
	"testing"
)

func pipeTransport(t *testing.T, feed string) Transport {
	t.Helper()
	a, b := net.Pipe()
	go func() {
		_, _ = a.Write([]byte(feed))
		_ = a.Close()
	}()
	t.Cleanup(func() { _ = b.Close() })
	return NewTransport(b)
}

func TestNetTransport_ReadLine(t *testing.T) {
	tr := pipeTransport(t, "first\r\nsecond\n")
	line, err := tr.ReadLine()
	if err != nil || string(line) != "first\r\n" {
		t.Fatalf("line=%q err=%v", line, err)
	}
	line, err = tr.ReadLine()
	if err != nil || string(line) != "second\n" {
		t.Fatalf("line=%q err=%v", line, err)
	}
	if _, err := tr.ReadLine(); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestNetTransport_ReadLineUnterminated(t *testing.T) {
	tr := pipeTransport(t, "tail-without-newline")
	line, err := tr.ReadLine()
	if err != nil || string(line) != "tail-without-newline" {
		t.Fatalf("line=%q err=%v", line, err)
	}
	if _, err := tr.ReadLine(); err != io.EOF {
		t.Fatalf("want io.EOF after final partial line, got %v", err)
	}
}

func TestNetTransport_ReadFull(t *testing.T) {
	tr := pipeTransport(t, "abcdef")
	buf := make([]byte, 4)
	if err := tr.ReadFull(buf); err != nil || string(buf) != "abcd" {
		t.Fatalf("buf=%q err=%v", buf, err)
	}
	short := make([]byte, 10)
	if err := tr.ReadFull(short); err == nil {
		t.Fatal("expected error for short stream")
	}
}

func TestNetTransport_CloseIdempotent(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	tr := NewTransport(b)
	if err := tr.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
