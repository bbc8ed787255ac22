package term

import (
	"unicode/utf8"

	"github.com/vovakirdan/akuma-sim/internal/core"
)

const esc = 0x1b

// csiKeys maps the final byte of a CSI or SS3 sequence to a key.
var csiKeys = map[byte]core.Key{
	'A': core.KeyUp,
	'B': core.KeyDown,
	'C': core.KeyRight,
	'D': core.KeyLeft,
	'H': core.KeyHome,
	'F': core.KeyEnd,
}

// tildeKeys maps the number of a "CSI n ~" sequence to a key.
var tildeKeys = map[int]core.Key{
	1: core.KeyHome,
	2: core.KeyInsert,
	3: core.KeyDelete,
	4: core.KeyEnd,
	5: core.KeyPageUp,
	6: core.KeyPageDown,
	7: core.KeyHome,
	8: core.KeyEnd,
}

// DecodeKeys turns raw terminal input into key events. An incomplete UTF-8
// sequence at the end of buf is returned as rest for the next read.
func DecodeKeys(buf []byte) (events []core.Event, rest []byte) {
	for len(buf) > 0 {
		ev, n, ok := decodeOne(buf)
		if n == 0 {
			return events, buf
		}
		if ok {
			events = append(events, ev)
		}
		buf = buf[n:]
	}
	return events, nil
}

// decodeOne decodes the first key of buf and returns how many bytes it
// used, 0 if more input is needed. Bytes that are no key are consumed with
// ok false.
func decodeOne(buf []byte) (ev core.Event, n int, ok bool) {
	b := buf[0]
	switch {
	case b == esc:
		return decodeEscape(buf)
	case b == '\r' || b == '\n':
		return core.KeyEvent(core.KeyEnter, 0, 0), 1, true
	case b == '\t':
		return core.KeyEvent(core.KeyTab, 0, 0), 1, true
	case b == 0x7f:
		return core.KeyEvent(core.KeyBackspace, 0, 0), 1, true
	case b == 0x08:
		return core.KeyEvent(core.KeyBackspace, 0, core.ModCtrl), 1, true
	case b == 0:
		return core.RuneEvent(' ', core.ModCtrl), 1, true
	case b >= 0x01 && b <= 0x1a:
		return core.RuneEvent(rune('a'+b-1), core.ModCtrl), 1, true
	case b < 0x20:
		// ctrl+\ ctrl+] ctrl+^ ctrl+_
		return core.RuneEvent(rune(b+0x40), core.ModCtrl), 1, true
	}

	if !utf8.FullRune(buf) {
		return core.Event{}, 0, false
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return core.Event{}, size, false
	}
	return core.RuneEvent(r, 0), size, true
}

func decodeEscape(buf []byte) (core.Event, int, bool) {
	if len(buf) == 1 {
		return core.KeyEvent(core.KeyEscape, 0, 0), 1, true
	}

	switch buf[1] {
	case '[':
		if ev, n, ok := decodeCSI(buf); n > 0 {
			return ev, n, ok
		}
	case 'O':
		if len(buf) >= 3 {
			if k, ok := csiKeys[buf[2]]; ok {
				return core.KeyEvent(k, 0, 0), 3, true
			}
		}
	case esc:
		return core.KeyEvent(core.KeyEscape, 0, 0), 1, true
	}

	// ESC followed by a key is that key with alt held.
	ev, n, ok := decodeOne(buf[1:])
	if n == 0 || !ok {
		return core.KeyEvent(core.KeyEscape, 0, 0), 1, true
	}
	ev.Mods |= core.ModAlt
	return ev, n + 1, true
}

// decodeCSI decodes "ESC [ params final". Unknown sequences are consumed
// whole and reported as not ok; n is 0 when the sequence is malformed or
// cut short.
func decodeCSI(buf []byte) (core.Event, int, bool) {
	var params []int
	cur, hasCur := 0, false

	for i := 2; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
			hasCur = true
		case b == ';':
			params = append(params, cur)
			cur, hasCur = 0, false
		case b >= 0x40 && b <= 0x7e:
			if hasCur {
				params = append(params, cur)
			}
			return csiEvent(params, b, i+1)
		default:
			return core.Event{}, 0, false
		}
	}
	return core.Event{}, 0, false
}

func csiEvent(params []int, final byte, n int) (core.Event, int, bool) {
	if final == 'Z' {
		return core.KeyEvent(core.KeyTab, 0, core.ModShift), n, true
	}

	var key core.Key
	var ok bool
	if final == '~' {
		if len(params) == 0 {
			return core.Event{}, n, false
		}
		key, ok = tildeKeys[params[0]]
	} else {
		key, ok = csiKeys[final]
	}
	if !ok {
		return core.Event{}, n, false
	}

	var mods core.Mod
	if len(params) >= 2 {
		mods = modsFromParam(params[1])
	}
	return core.KeyEvent(key, 0, mods), n, true
}

// modsFromParam decodes the xterm modifier parameter (1 + bitmask).
func modsFromParam(p int) core.Mod {
	bits := p - 1
	var mods core.Mod
	if bits&1 != 0 {
		mods |= core.ModShift
	}
	if bits&2 != 0 {
		mods |= core.ModAlt
	}
	if bits&4 != 0 {
		mods |= core.ModCtrl
	}
	return mods
}
