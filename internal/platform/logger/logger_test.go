package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf)

	l.Info("hello")
	l.Warn("careful")
	l.Error("boom")
	l.Event("LEVEL_UP", "Hero", "level 2")

	out := buf.String()
	for _, want := range []string{"[SHELL-INFO]", "hello", "[SHELL-WARN]", "careful", "[SHELL-ERROR]", "boom", "[EVENT:LEVEL_UP] Actor:Hero | level 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
