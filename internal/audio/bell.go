// Package audio provides the simulator's sound device: the terminal bell.
package audio

import (
	"io"
	"sync"
	"time"
)

// bel is the ASCII bell control character.
const bel = '\a'

// MinInterval is the shortest gap between two audible beeps; beeps inside
// it are merged.
const MinInterval = 50 * time.Millisecond

// Bell rings the terminal bell by writing BEL to a writer.
type Bell struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	last    time.Time
	now     func() time.Time
}

// NewBell creates a bell writing to w. A nil writer yields a disabled bell.
func NewBell(w io.Writer, enabled bool) *Bell {
	return &Bell{w: w, enabled: enabled && w != nil, now: time.Now}
}

// Enabled reports whether beeps are audible.
func (b *Bell) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// SetEnabled turns the bell on or off.
func (b *Bell) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled && b.w != nil
}

// Beep rings the bell unless it is disabled or rang within MinInterval.
func (b *Bell) Beep() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.enabled {
		return nil
	}
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < MinInterval {
		return nil
	}
	b.last = now
	_, err := b.w.Write([]byte{bel})
	return err
}
