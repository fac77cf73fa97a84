package descriptor

import (
	"reflect"
	"sync"
)

// The registry maps pattern-facing type names to host types so that
// record patterns and type tests can be resolved against any-typed
// positions, where the static descriptor carries no structure.
var (
	registryMu sync.RWMutex
	registry   = map[string]*Desc{}
)

// Register associates a pattern-facing name with a host type. Later
// registrations for the same name replace earlier ones.
func Register(name string, t reflect.Type) {
	d := Build(t)
	registryMu.Lock()
	registry[name] = d
	registryMu.Unlock()
}

// Lookup resolves a registered type name.
func Lookup(name string) (*Desc, bool) {
	registryMu.RLock()
	d, ok := registry[name]
	registryMu.RUnlock()
	return d, ok
}
