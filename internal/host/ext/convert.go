package ext

import (
	"errors"
	"fmt"
	"math"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// maxDepth bounds nesting when converting tables, which may be cyclic.
const maxDepth = 64

var errTooDeep = errors.New("ext: value nested too deeply")

// ToLua converts a Go value decoded from YAML or SQL into a Lua value.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case uint64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case []byte:
		return lua.LString(v)
	case time.Time:
		return lua.LString(v.Format(time.RFC3339))
	case []any:
		t := L.CreateTable(len(v), 0)
		for _, item := range v {
			t.Append(ToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(v))
		for k, item := range v {
			t.RawSetString(k, ToLua(L, item))
		}
		return t
	case map[any]any:
		t := L.CreateTable(0, len(v))
		for k, item := range v {
			t.RawSet(ToLua(L, k), ToLua(L, item))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(v))
	}
}

// FromLua converts a Lua value into plain Go values. Tables with only the
// keys 1..n become slices, other tables become maps with string keys.
// Integral numbers become int64.
func FromLua(v lua.LValue) (any, error) {
	return fromLua(v, 0)
}

func fromLua(v lua.LValue, depth int) (any, error) {
	if depth > maxDepth {
		return nil, errTooDeep
	}

	switch v := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		return tableFromLua(v, depth)
	default:
		return nil, fmt.Errorf("ext: cannot convert %s", v.Type())
	}
}

func tableFromLua(t *lua.LTable, depth int) (any, error) {
	n := t.MaxN()
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })

	if n > 0 && n == count {
		list := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			item, err := fromLua(t.RawGetInt(i), depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	}

	m := make(map[string]any, count)
	var err error
	t.ForEach(func(k, val lua.LValue) {
		if err != nil {
			return
		}
		var item any
		item, err = fromLua(val, depth+1)
		m[keyString(k)] = item
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func keyString(k lua.LValue) string {
	if n, ok := k.(lua.LNumber); ok && float64(n) == math.Trunc(float64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return k.String()
}
