// Package logging builds the simulator's charmbracelet/log logger.
package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every log line.
const Prefix = "akuma"

// ParseLevel maps a level name to a log.Level.
// Unknown values default to info.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// New creates a leveled logger writing to w.
func New(level string, w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          Prefix,
		Level:           ParseLevel(level),
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OpenFile opens path for appending log output.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// CRLFWriter turns "\n" into "\r\n" while enabled. A terminal in raw mode
// does not return the carriage on a bare line feed.
type CRLFWriter struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
}

// NewCRLFWriter wraps w. Translation starts disabled.
func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

// SetEnabled turns translation on or off.
func (c *CRLFWriter) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

// Write implements io.Writer. It reports len(p) on success so callers see
// the size of what they asked to write.
func (c *CRLFWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return c.w.Write(p)
	}
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
