package ext

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/crypto/blake2b"
)

func init() {
	Register("crypto", openCrypto)
}

// openCrypto exposes hex-encoded digests.
func openCrypto(Env) lua.LGFunction {
	return func(L *lua.LState) int {
		mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"sha256": func(L *lua.LState) int {
				sum := sha256.Sum256([]byte(L.CheckString(1)))
				return pushHex(L, sum[:])
			},
			"md5": func(L *lua.LState) int {
				sum := md5.Sum([]byte(L.CheckString(1)))
				return pushHex(L, sum[:])
			},
			"blake2b": cryptoBlake2b,
			"hmac_sha256": func(L *lua.LState) int {
				mac := hmac.New(sha256.New, []byte(L.CheckString(1)))
				mac.Write([]byte(L.CheckString(2)))
				return pushHex(L, mac.Sum(nil))
			},
		})
		L.Push(mod)
		return 1
	}
}

// crypto.blake2b(data [, size]) hashes to size bytes, 64 by default.
func cryptoBlake2b(L *lua.LState) int {
	data := L.CheckString(1)
	size := L.OptInt(2, blake2b.Size)
	if size < 1 || size > blake2b.Size {
		L.ArgError(2, "size must be between 1 and 64")
	}

	h, err := blake2b.New(size, nil)
	if err != nil {
		return pushError(L, err)
	}
	h.Write([]byte(data))
	return pushHex(L, h.Sum(nil))
}

func pushHex(L *lua.LState, b []byte) int {
	L.Push(lua.LString(hex.EncodeToString(b)))
	return 1
}
