//go:build !windows

package term

import (
	"os"
	"os/signal"
	"syscall"
)

// notifySignals registers the signals the event source turns into events.
// On Unix systems, this includes SIGINT, SIGTERM and SIGWINCH.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGWINCH)
}

// isResize reports whether sig announces a terminal size change.
func isResize(sig os.Signal) bool {
	return sig == syscall.SIGWINCH
}
