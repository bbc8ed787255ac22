package ext

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/akuma-sim/internal/storage"
)

const dbTypeName = "akuma.sql.db"

func init() {
	Register("sql", openSQL)
}

// openSQL exposes SQLite databases:
//
//	local db = sql.open("scores.db")
//	db:exec("INSERT INTO t VALUES (?)", 1)
//	for _, row in ipairs(db:query("SELECT * FROM t")) do ... end
//	db:close()
func openSQL(env Env) lua.LGFunction {
	return func(L *lua.LState) int {
		mt := L.NewTypeMetatable(dbTypeName)
		L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"exec":  dbExec,
			"query": dbQuery,
			"close": dbClose,
		}))

		mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"open": func(L *lua.LState) int {
				path := L.CheckString(1)
				if path != storage.Memory {
					path = env.resolve(path)
				}
				store, err := storage.Open(path)
				if err != nil {
					L.Push(lua.LNil)
					L.Push(lua.LString(err.Error()))
					return 2
				}
				env.track(store)

				ud := L.NewUserData()
				ud.Value = store
				L.SetMetatable(ud, L.GetTypeMetatable(dbTypeName))
				L.Push(ud)
				return 1
			},
		})
		L.SetField(mod, "MEMORY", lua.LString(storage.Memory))
		L.Push(mod)
		return 1
	}
}

func checkDB(L *lua.LState) *storage.Store {
	ud := L.CheckUserData(1)
	if store, ok := ud.Value.(*storage.Store); ok {
		return store
	}
	L.ArgError(1, "sql database expected")
	return nil
}

// queryArgs converts the bind parameters following the statement.
func queryArgs(L *lua.LState) []any {
	var args []any
	for i := 3; i <= L.GetTop(); i++ {
		v, err := FromLua(L.Get(i))
		if err != nil {
			L.ArgError(i, err.Error())
		}
		args = append(args, v)
	}
	return args
}

// db:exec(stmt, ...) -> rowsAffected, lastInsertId | nil, err
func dbExec(L *lua.LState) int {
	store := checkDB(L)
	res, err := store.Exec(L.CheckString(2), queryArgs(L)...)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(res.RowsAffected))
	L.Push(lua.LNumber(res.LastInsertID))
	return 2
}

// db:query(stmt, ...) -> { {col = value, ...}, ... } | nil, err
func dbQuery(L *lua.LState) int {
	store := checkDB(L)
	rows, err := store.Query(L.CheckString(2), queryArgs(L)...)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}

	list := L.CreateTable(len(rows.Values), 0)
	for _, row := range rows.Maps() {
		list.Append(ToLua(L, row))
	}
	L.Push(list)
	return 1
}

func dbClose(L *lua.LState) int {
	if err := checkDB(L).Close(); err != nil {
		L.Push(lua.LString(err.Error()))
		return 1
	}
	return 0
}
