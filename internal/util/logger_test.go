package util

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// dropTime keeps output stable across runs
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, false, dropTime)

	l.Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug written without verbose: %q", buf.String())
	}

	l.Info("session %s started", "abc")
	want := "level=INFO msg=\"session abc started\"\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	l.SetVerbose(true)
	l.Debug("shown")
	if !strings.Contains(buf.String(), "level=DEBUG msg=shown") {
		t.Errorf("debug missing: %q", buf.String())
	}

	buf.Reset()
	l.Warn("w")
	l.Error("e")
	if !strings.Contains(buf.String(), "level=WARN msg=w") || !strings.Contains(buf.String(), "level=ERROR msg=e") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLogger_SetVerboseOff(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, true, dropTime)
	l.SetVerbose(false)
	l.Debug("gone")
	if buf.Len() != 0 {
		t.Errorf("debug should be off, got %q", buf.String())
	}
	// the slog handle shares the level
	l.Slog().Debug("gone too")
	if buf.Len() != 0 {
		t.Errorf("slog handle ignored level: %q", buf.String())
	}
}
