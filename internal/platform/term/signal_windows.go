//go:build windows

package term

import (
	"os"
	"os/signal"
)

// notifySignals registers the signals the event source turns into events.
// On Windows, only os.Interrupt (Ctrl+C) is supported; resizes are not
// signalled.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}

func isResize(os.Signal) bool {
	return false
}
