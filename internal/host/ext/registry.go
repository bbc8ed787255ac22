// Package ext provides the optional modules scripts load with require.
// Extensions register themselves in init() functions; the runtime preloads
// the ones named in the configuration into each new context.
package ext

import (
	"fmt"
	"io"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Env is what an extension may ask of the runtime that loads it.
type Env struct {
	// Resolve maps a script path to a filesystem path, relative paths
	// resolving against the working directory.
	Resolve func(path string) string
	// Track hands over a resource that must be released with the context.
	Track func(io.Closer)
}

func (e Env) resolve(path string) string {
	if e.Resolve == nil {
		return path
	}
	return e.Resolve(path)
}

func (e Env) track(c io.Closer) {
	if e.Track != nil {
		e.Track(c)
	}
}

// Loader builds the module loader for one context.
type Loader func(env Env) lua.LGFunction

var (
	loaders = make(map[string]Loader)
	mu      sync.RWMutex
)

// Register adds an extension under name.
// Typically called from an extension's init() function.
// Panics if an extension with the same name is already registered.
func Register(name string, l Loader) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := loaders[name]; exists {
		panic(fmt.Sprintf("ext: extension %q already registered", name))
	}
	loaders[name] = l
}

// Names returns every registered extension, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exists reports whether an extension is registered under name.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := loaders[name]
	return ok
}

// Preload makes the named extensions available to require in L.
// Unknown names fail before anything is preloaded.
func Preload(L *lua.LState, env Env, names []string) error {
	mu.RLock()
	defer mu.RUnlock()

	for _, name := range names {
		if _, ok := loaders[name]; !ok {
			return fmt.Errorf("ext: unknown extension %q", name)
		}
	}
	for _, name := range names {
		L.PreloadModule(name, loaders[name](env))
	}
	return nil
}
