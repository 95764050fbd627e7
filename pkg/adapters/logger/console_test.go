package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/framepeek/pkg/ports"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelWarn, &buf)

	log.Debug("debug %d", 1)
	log.Info("info %d", 2)
	log.Warn("warn %d", 3)
	log.Error("error %d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %q", buf.String())
	}
	if lines[0] != "warn 3" || lines[1] != "error 4" {
		t.Errorf("unexpected output %q", lines)
	}
}

func TestConsoleLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &buf).WithComponent("locate")

	log.Info("seeking %d", 7)

	if got := strings.TrimSpace(buf.String()); got != "[locate] seeking 7" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestNoopLogger(t *testing.T) {
	log := NewNoop()
	if log.WithComponent("x") != ports.Logger(log) {
		t.Error("expected the same no-op logger")
	}
	log.Error("ignored %s", "message")
}
