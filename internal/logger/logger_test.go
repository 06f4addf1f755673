package logger

import (
	"testing"

	"fieldlogger/internal/config"
)

func TestNewFallsBackOnBadLevel(t *testing.T) {
	l, err := New(config.LogConfig{Level: "loud", Encoding: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Core().Enabled(0) {
		t.Fatalf("info level should be enabled")
	}
	if l.Core().Enabled(-1) {
		t.Fatalf("debug level should be disabled")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) returned nil")
	}
}
