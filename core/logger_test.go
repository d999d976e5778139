package core

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

// Ensure both loggers implement the Logger interface
var (
	_ Logger = (*DefaultLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	fn()
	return buf.String()
}

func TestDefaultLogger_LevelsAndFields(t *testing.T) {
	logger := NewDefaultLogger()

	out := captureLog(t, func() {
		logger.Info("call finished", F("call", "example"), F("attempt", 3))
	})

	for _, want := range []string{"[INFO]", "call finished", "call: example", "attempt: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}

	out = captureLog(t, func() {
		logger.Error("call failed", F("error", errors.New("broken pipe")))
	})

	if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "broken pipe") {
		t.Errorf("error output %q missing level or error text", out)
	}
}

func TestDefaultLogger_NoFields(t *testing.T) {
	logger := NewDefaultLogger()

	out := captureLog(t, func() {
		logger.Warn("bare message")
	})

	if strings.Contains(out, "{") {
		t.Errorf("field braces emitted without fields: %q", out)
	}
	if !strings.Contains(out, "[WARN] bare message") {
		t.Errorf("output %q missing message", out)
	}
}

func TestNoOpLogger_Discards(t *testing.T) {
	logger := NewNoOpLogger()

	out := captureLog(t, func() {
		logger.Debug("dropped")
		logger.Info("dropped")
		logger.Warn("dropped")
		logger.Error("dropped")
	})

	if out != "" {
		t.Errorf("NoOpLogger produced output: %q", out)
	}
}
