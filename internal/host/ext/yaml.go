package ext

import (
	"os"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

func init() {
	Register("yaml", openYAML)
}

// openYAML exposes yaml.decode(text), yaml.encode(value) and
// yaml.load(path). Failures return nil and an error message.
func openYAML(env Env) lua.LGFunction {
	return func(L *lua.LState) int {
		mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"decode": func(L *lua.LState) int {
				return decodeYAML(L, []byte(L.CheckString(1)))
			},
			"encode": yamlEncode,
			"load": func(L *lua.LState) int {
				data, err := os.ReadFile(env.resolve(L.CheckString(1)))
				if err != nil {
					return pushError(L, err)
				}
				return decodeYAML(L, data)
			},
		})
		L.Push(mod)
		return 1
	}
}

func decodeYAML(L *lua.LState, data []byte) int {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return pushError(L, err)
	}
	L.Push(ToLua(L, v))
	return 1
}

func yamlEncode(L *lua.LState) int {
	v, err := FromLua(L.CheckAny(1))
	if err != nil {
		return pushError(L, err)
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LString(out))
	return 1
}

// pushError returns nil, message to Lua.
func pushError(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}
