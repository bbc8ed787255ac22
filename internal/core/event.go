package core

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EventType identifies the kind of a native event.
type EventType int

const (
	EventNone   EventType = iota
	EventKey              // A key press
	EventQuit             // The user asked to close the window
	EventResize           // The hosting terminal changed size
)

// Key identifies a non-printable key. Printable keys use KeyRune together
// with Event.Rune.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
)

var keyNames = map[Key]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
}

// Mod is a bit mask of keyboard modifiers.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// Names returns the modifier names in ctrl, alt, shift order.
func (m Mod) Names() []string {
	var names []string
	if m&ModCtrl != 0 {
		names = append(names, "ctrl")
	}
	if m&ModAlt != 0 {
		names = append(names, "alt")
	}
	if m&ModShift != 0 {
		names = append(names, "shift")
	}
	return names
}

// Event is a native window event, produced by the platform layer and
// consumed by the game loop.
type Event struct {
	Type EventType
	Key  Key
	Rune rune // Set when Key is KeyRune
	Mods Mod

	// Width and Height are set for EventResize.
	Width  int
	Height int
}

// KeyEvent builds a key press event.
func KeyEvent(k Key, r rune, mods Mod) Event {
	return Event{Type: EventKey, Key: k, Rune: r, Mods: mods}
}

// RuneEvent builds a key press event for a printable rune.
func RuneEvent(r rune, mods Mod) Event {
	return KeyEvent(KeyRune, r, mods)
}

// QuitEvent builds a window close request.
func QuitEvent() Event {
	return Event{Type: EventQuit}
}

// ResizeEvent builds a resize notification.
func ResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

// KeyName returns the name scripts see for the key of a key event,
// for example "a", "space" or "up".
func (e Event) KeyName() string {
	if e.Key != KeyRune {
		return keyNames[e.Key]
	}
	if e.Rune == ' ' {
		return "space"
	}
	return string(e.Rune)
}

// String returns a chord-like description such as "ctrl+r".
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		return strings.Join(append(e.Mods.Names(), e.KeyName()), "+")
	case EventQuit:
		return "quit"
	case EventResize:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	default:
		return "none"
	}
}

// KeyChord is a key together with the modifiers that must be held.
type KeyChord struct {
	Key  Key
	Rune rune
	Mods Mod
}

// ParseKeyChord parses chords of the form "ctrl+r", "alt+shift+up" or "f".
func ParseKeyChord(s string) (KeyChord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return KeyChord{}, fmt.Errorf("core: empty key chord %q", s)
	}

	var chord KeyChord
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl", "control":
			chord.Mods |= ModCtrl
		case "alt", "meta":
			chord.Mods |= ModAlt
		case "shift":
			chord.Mods |= ModShift
		default:
			return KeyChord{}, fmt.Errorf("core: unknown modifier %q in %q", p, s)
		}
	}

	name := parts[len(parts)-1]
	if name == "space" {
		chord.Key, chord.Rune = KeyRune, ' '
		return chord, nil
	}
	for k, n := range keyNames {
		if n == name {
			chord.Key = k
			return chord, nil
		}
	}
	if utf8.RuneCountInString(name) != 1 {
		return KeyChord{}, fmt.Errorf("core: unknown key %q in %q", name, s)
	}
	r, _ := utf8.DecodeRuneInString(name)
	chord.Key, chord.Rune = KeyRune, r
	return chord, nil
}

// MustParseKeyChord is like ParseKeyChord but panics on error.
func MustParseKeyChord(s string) KeyChord {
	c, err := ParseKeyChord(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Matches reports whether ev is a key press of this chord.
// Printable keys compare case-insensitively.
func (c KeyChord) Matches(ev Event) bool {
	if ev.Type != EventKey || ev.Key != c.Key || ev.Mods != c.Mods {
		return false
	}
	if c.Key != KeyRune {
		return true
	}
	return unicode.ToLower(ev.Rune) == unicode.ToLower(c.Rune)
}

// String returns the chord in the form accepted by ParseKeyChord.
func (c KeyChord) String() string {
	return KeyEvent(c.Key, c.Rune, c.Mods).String()
}
