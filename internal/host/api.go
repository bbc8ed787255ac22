package host

import (
	"fmt"
	"strings"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/akuma-sim/internal/core"
)

// install creates the sim, gfx, input and audio tables and routes print
// to the logger.
func (r *Runtime) install() {
	L := r.L

	L.SetGlobal("sim", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"openWindow":          r.luaOpenWindow,
		"enterFullscreenMode": r.luaEnterFullscreen,
		"exitFullscreenMode":  r.luaExitFullscreen,
		"onUpdate":            r.setter(&r.onUpdate),
		"onRender":            r.setter(&r.onRender),
		"workingDirectory":    r.luaWorkingDirectory,
		"log":                 r.luaLog,
	}))

	L.SetGlobal("gfx", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"clear":  r.luaClear,
		"text":   r.luaText,
		"rect":   r.luaRect,
		"box":    r.luaBox,
		"width":  r.luaWidth,
		"height": r.luaHeight,
	}))

	L.SetGlobal("input", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"onKey":    r.setter(&r.onKey),
		"onResize": r.setter(&r.onResize),
	}))

	L.SetGlobal("audio", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"beep":    r.luaBeep,
		"enabled": r.luaAudioEnabled,
	}))

	// print would write over the frame.
	L.SetGlobal("print", L.NewFunction(r.luaLog))
}

// setter returns a function storing its optional function argument in dst.
func (r *Runtime) setter(dst **lua.LFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		*dst = L.OptFunction(1, nil)
		return 0
	}
}

// sim.openWindow(title, w, h)
func (r *Runtime) luaOpenWindow(L *lua.LState) int {
	title := L.OptString(1, "")
	if title == "" {
		title = r.opts.DefaultTitle
	}
	w := L.OptInt(2, 0)
	h := L.OptInt(3, 0)
	if w < 0 || h < 0 {
		L.ArgError(2, "window size must not be negative")
	}
	if r.hooks == nil {
		L.RaiseError("no window available")
		return 0
	}
	if err := r.hooks.OpenWindow(title, w, h); err != nil {
		L.RaiseError("open window: %s", err.Error())
	}
	return 0
}

func (r *Runtime) luaEnterFullscreen(L *lua.LState) int {
	if r.hooks != nil {
		r.hooks.EnterFullscreen()
	}
	return 0
}

func (r *Runtime) luaExitFullscreen(L *lua.LState) int {
	if r.hooks != nil {
		r.hooks.ExitFullscreen()
	}
	return 0
}

func (r *Runtime) luaWorkingDirectory(L *lua.LState) int {
	L.Push(lua.LString(r.workDir))
	return 1
}

// sim.log(...) and print(...) join their arguments like print does.
func (r *Runtime) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.opts.Logger.Info(strings.Join(parts, "\t"), "source", "lua")
	return 0
}

func (r *Runtime) luaClear(L *lua.LState) int {
	if r.screen != nil {
		r.screen.Clear()
	}
	return 0
}

// gfx.text(x, y, s [, color])
func (r *Runtime) luaText(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	s := L.CheckString(3)
	color := checkColor(L, 4)
	if r.screen != nil {
		r.screen.DrawText(x, y, s, color)
	}
	return 0
}

// gfx.rect(x, y, w, h, ch [, color])
func (r *Runtime) luaRect(L *lua.LState) int {
	rect := checkRect(L)
	ch, _ := utf8.DecodeRuneInString(L.CheckString(5))
	if ch == utf8.RuneError {
		L.ArgError(5, "fill character expected")
	}
	color := checkColor(L, 6)
	if r.screen != nil {
		r.screen.DrawRect(rect, ch, color)
	}
	return 0
}

// gfx.box(x, y, w, h [, color])
func (r *Runtime) luaBox(L *lua.LState) int {
	rect := checkRect(L)
	color := checkColor(L, 5)
	if r.screen != nil {
		r.screen.DrawBox(rect, color)
	}
	return 0
}

func (r *Runtime) luaWidth(L *lua.LState) int {
	L.Push(lua.LNumber(r.width))
	return 1
}

func (r *Runtime) luaHeight(L *lua.LState) int {
	L.Push(lua.LNumber(r.height))
	return 1
}

func (r *Runtime) luaBeep(L *lua.LState) int {
	if !r.audioReady {
		return 0
	}
	if err := r.opts.Sound.Beep(); err != nil {
		r.opts.Logger.Debug("beep failed", "error", err)
	}
	return 0
}

func (r *Runtime) luaAudioEnabled(L *lua.LState) int {
	L.Push(lua.LBool(r.audioReady))
	return 1
}

func checkRect(L *lua.LState) core.Rect {
	return core.NewRect(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))
}

// checkColor reads an optional color given by name or number.
func checkColor(L *lua.LState, n int) core.Color {
	switch v := L.Get(n).(type) {
	case *lua.LNilType:
		return core.ColorDefault
	case lua.LString:
		c, ok := core.ParseColor(string(v))
		if !ok {
			L.ArgError(n, fmt.Sprintf("unknown color %q", string(v)))
		}
		return c
	case lua.LNumber:
		if v < 0 || v > lua.LNumber(core.ColorGray) {
			L.ArgError(n, "color out of range")
		}
		return core.Color(v)
	default:
		L.TypeError(n, lua.LTString)
		return core.ColorDefault
	}
}
