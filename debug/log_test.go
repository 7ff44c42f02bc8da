package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogToWriter(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("looper", "track %d -> %s", 2, "STOP_REC")
	out := buf.String()
	if !strings.Contains(out, "cat=looper") || !strings.Contains(out, "track 2 -> STOP_REC") {
		t.Fatalf("log output %q", out)
	}
}

func TestLogDisabled(t *testing.T) {
	Disable()
	if Enabled() {
		t.Fatal("still enabled")
	}
	Log("x", "nothing") // must not panic
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 9; i++ {
		LogEvery(3, "hw", "spi error")
	}
	if n := strings.Count(buf.String(), "spi error"); n != 3 {
		t.Fatalf("logged %d times", n)
	}
}
