package term

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	xterm "golang.org/x/term"

	"github.com/vovakirdan/akuma-sim/internal/core"
)

// ANSI sequences used by the window.
const (
	enterAltScreen = "\x1b[?1049h"
	exitAltScreen  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	cursorHome     = "\x1b[H"
	clearScreen    = "\x1b[2J"
	clearLine      = "\x1b[K"
)

// titleRows is the height of the title bar above the frame.
const titleRows = 1

// Binding is the runtime side of the graphics context.
type Binding interface {
	DetectGfxContext(screen *core.Screen)
	ReleaseGfxContext()
	SetScreenSize(width, height int)
}

// RawModeToggle is told when the terminal enters and leaves raw mode.
type RawModeToggle interface {
	SetEnabled(enabled bool)
}

// WindowOptions configures a Window.
type WindowOptions struct {
	Out io.Writer
	// Fd is the terminal put into raw mode; -1 disables raw mode.
	Fd int
	// Size reports the terminal size.
	Size    func() (width, height int, err error)
	Binding Binding
	// RawMode is switched alongside the terminal, typically the log
	// output's CRLF translation.
	RawMode RawModeToggle
	Logger  *log.Logger
}

// Window is a char-cell window on the terminal's alternate screen. It
// implements sim.Window.
type Window struct {
	opts WindowOptions

	mu       sync.Mutex
	open     bool
	title    string
	reqW     int // requested size, 0 follows the terminal
	reqH     int
	screen   *core.Screen
	state    *xterm.State
	out      bytes.Buffer
}

// NewWindow creates a closed window.
func NewWindow(opts WindowOptions) *Window {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Window{opts: opts}
}

// TerminalSize returns a size function for fd.
func TerminalSize(fd int) func() (int, int, error) {
	return func() (int, int, error) {
		return xterm.GetSize(fd)
	}
}

// OpenWindow shows the window. A zero width or height follows the
// terminal; larger sizes are clamped to it. Opening an open window
// retitles and resizes it.
func (w *Window) OpenWindow(title string, width, height int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if width < 0 || height < 0 {
		return fmt.Errorf("term: invalid window size %dx%d", width, height)
	}

	w.title = title
	w.reqW, w.reqH = width, height
	fw, fh, err := w.frameSize(width, height)
	if err != nil {
		return err
	}

	if !w.open {
		if err := w.enter(); err != nil {
			return err
		}
		w.screen = core.NewScreen(fw, fh)
		w.open = true
		if w.opts.Binding != nil {
			w.opts.Binding.DetectGfxContext(w.screen)
		}
	} else {
		w.screen.Resize(fw, fh)
	}
	if w.opts.Binding != nil {
		w.opts.Binding.SetScreenSize(fw, fh)
	}

	w.opts.Logger.Info("window opened", "title", title, "width", fw, "height", fh)
	return nil
}

// frameSize returns the drawable size for a requested size.
func (w *Window) frameSize(width, height int) (int, int, error) {
	tw, th, err := w.terminalSize()
	if err != nil {
		return 0, 0, err
	}
	th -= titleRows
	if width == 0 || width > tw {
		width = tw
	}
	if height == 0 || height > th {
		height = th
	}
	if width <= 0 || height <= 0 {
		return 0, 0, errors.New("term: terminal too small")
	}
	return width, height, nil
}

func (w *Window) terminalSize() (int, int, error) {
	if w.opts.Size == nil {
		return 80, 24, nil
	}
	tw, th, err := w.opts.Size()
	if err != nil {
		return 0, 0, fmt.Errorf("term: cannot read terminal size: %w", err)
	}
	return tw, th, nil
}

// enter switches the terminal into raw mode on the alternate screen.
func (w *Window) enter() error {
	if w.opts.Fd >= 0 && xterm.IsTerminal(w.opts.Fd) {
		state, err := xterm.MakeRaw(w.opts.Fd)
		if err != nil {
			return fmt.Errorf("term: cannot enter raw mode: %w", err)
		}
		w.state = state
	}
	if w.opts.RawMode != nil {
		w.opts.RawMode.SetEnabled(true)
	}
	_, err := io.WriteString(w.opts.Out, enterAltScreen+hideCursor+clearScreen)
	return err
}

// EnterFullscreen is not supported by the terminal window.
func (w *Window) EnterFullscreen() {
	w.opts.Logger.Info("fullscreen mode is not supported")
}

// ExitFullscreen is not supported by the terminal window.
func (w *Window) ExitFullscreen() {
	w.opts.Logger.Info("fullscreen mode is not supported")
}

// Screen returns the frame buffer, nil while closed.
func (w *Window) Screen() *core.Screen {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.screen
}

// IsOpen reports whether the window is shown.
func (w *Window) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Clear wipes the frame buffer.
func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.open {
		w.screen.Clear()
	}
}

// Present draws the frame buffer below the title bar. A closed window
// presents nothing.
func (w *Window) Present() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open {
		return nil
	}
	if err := w.fit(); err != nil {
		return err
	}

	w.out.Reset()
	w.out.WriteString(cursorHome)
	w.out.WriteString(RenderTitle(w.title, w.screen.Width()))
	w.out.WriteString(clearLine)
	for _, line := range RenderScreen(w.screen) {
		w.out.WriteString("\r\n")
		w.out.WriteString(line)
		w.out.WriteString(clearLine)
	}

	if _, err := w.opts.Out.Write(w.out.Bytes()); err != nil {
		return fmt.Errorf("term: present: %w", err)
	}
	return nil
}

// FrameSize fits the frame to the current terminal and returns its size.
// A window that cannot shrink further keeps its last size. ok is false
// while the window is closed.
func (w *Window) FrameSize() (width, height int, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open {
		return 0, 0, false
	}
	if err := w.fit(); err != nil {
		w.opts.Logger.Debug("cannot fit window to terminal", "error", err)
	}
	return w.screen.Width(), w.screen.Height(), true
}

// fit resizes the frame to the requested size clamped to the terminal.
func (w *Window) fit() error {
	if w.opts.Size == nil {
		return nil
	}
	fw, fh, err := w.frameSize(w.reqW, w.reqH)
	if err != nil {
		return err
	}
	if fw == w.screen.Width() && fh == w.screen.Height() {
		return nil
	}
	w.screen.Resize(fw, fh)
	if w.opts.Binding != nil {
		w.opts.Binding.SetScreenSize(fw, fh)
	}
	_, err = io.WriteString(w.opts.Out, clearScreen)
	return err
}

// Close releases the runtime binding and restores the terminal. Safe to
// call repeatedly and on a window that was never opened.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open {
		return
	}
	w.open = false

	if w.opts.Binding != nil {
		w.opts.Binding.ReleaseGfxContext()
	}
	w.screen = nil

	if _, err := io.WriteString(w.opts.Out, showCursor+exitAltScreen); err != nil {
		w.opts.Logger.Debug("cannot leave alternate screen", "error", err)
	}
	if w.state != nil {
		if err := xterm.Restore(w.opts.Fd, w.state); err != nil {
			w.opts.Logger.Warn("cannot restore terminal", "error", err)
		}
		w.state = nil
	}
	if w.opts.RawMode != nil {
		w.opts.RawMode.SetEnabled(false)
	}
	w.opts.Logger.Debug("window closed")
}
