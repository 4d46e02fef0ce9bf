package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled at every level")
	}
}

func TestSetLoggerAndComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	Component("orbit").Info("settled", "x", 0)

	out := buf.String()
	if !strings.Contains(out, "component=orbit") {
		t.Errorf("output %q missing component attribute", out)
	}
	if !strings.Contains(out, "msg=settled") {
		t.Errorf("output %q missing message", out)
	}
}

func TestTextLevels(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, false)
	defer SetLogger(nil)

	Logger().Debug("hidden")
	Logger().Info("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("non-verbose output = %q", out)
	}

	buf.Reset()
	Text(&buf, true)
	Logger().Debug("detail")
	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Errorf("verbose output = %q", buf.String())
	}
}
