package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWithWriters_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriters(false, &buf)

	l.Debug("hidden")
	l.Info("hello", zap.String("key", "value"))
	_ = l.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "value") {
		t.Errorf("expected info message with field, got %q", out)
	}
}

func TestNewWithWriters_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriters(true, &buf)

	l.Debug("debug msg")
	_ = l.Sync()

	if !strings.Contains(buf.String(), "debug msg") {
		t.Errorf("expected debug message, got %q", buf.String())
	}
}

func TestNewWithWriters_MultipleWriters(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	l := NewWithWriters(false, &buf1, &buf2)

	l.Info("multi")
	_ = l.Sync()

	if !strings.Contains(buf1.String(), "multi") || !strings.Contains(buf2.String(), "multi") {
		t.Errorf("expected both writers to receive the message")
	}
}
