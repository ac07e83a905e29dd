package obs

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStdLoggerLevelFloor(t *testing.T) {
	var buf bytes.Buffer
	lg := StdLogger{L: log.New(&buf, "", 0), Min: Warn}
	lg.Logf(Info, "quiet %d", 1)
	lg.Logf(Warn, "floor %d", 2)
	lg.Logf(Error, "loud %d", 3)
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("below-floor event logged: %q", out)
	}
	if !strings.Contains(out, "WARN floor 2") || !strings.Contains(out, "ERROR loud 3") {
		t.Fatalf("missing tagged lines: %q", out)
	}
}

func TestStdLoggerNilBackend(t *testing.T) {
	StdLogger{}.Logf(Error, "dropped %s", "silently")
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		Debug:     "DEBUG",
		Info:      "INFO",
		Warn:      "WARN",
		Error:     "ERROR",
		Level(42): "UNKNOWN",
		Level(-1): "UNKNOWN",
	}
	for l, want := range cases {
		if got := l.String(); got != want {
			t.Fatalf("Level(%d).String()=%q, want %q", int(l), got, want)
		}
	}
}
