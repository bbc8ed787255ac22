package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{" warn ", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"bogus", log.InfoLevel},
		{"", log.InfoLevel},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn line missing: %q", out)
	}
	if !strings.Contains(out, Prefix) {
		t.Errorf("prefix %q missing: %q", Prefix, out)
	}
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCRLFWriter(&buf)

	if _, err := w.Write([]byte("a\nb\n")); err != nil {
		t.Fatal(err)
	}
	w.SetEnabled(true)
	n, err := w.Write([]byte("c\n"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Write() = %d, expected 2", n)
	}
	if got := buf.String(); got != "a\nb\nc\r\n" {
		t.Errorf("output = %q", got)
	}
}
