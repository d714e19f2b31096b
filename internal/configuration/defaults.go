package configuration

import (
	"reflect"
	"sync"
)

// BindingKey identifies a group of bindings that share a set of defaults.
// The zero value is not a valid key; use GlobalDefaultsKey or a caller-
// supplied key (typically derived from a binding annotation).
type BindingKey struct {
	Type reflect.Type
	Name string // empty for the distinguished global-defaults key
}

// GlobalDefaultsKey returns the sentinel key that collects defaults
// applied to every binding of t, regardless of which BindingKey a
// particular provider was registered under.
func GlobalDefaultsKey(t reflect.Type) BindingKey {
	return BindingKey{Type: t, Name: ""}
}

// DefaultsHolder pairs a binding key with a default-setter callback. Apply
// receives the freshly constructed, addressable configuration value and
// may mutate it; it is not expected to be idempotent, but the engine
// guarantees it runs exactly once per build.
type DefaultsHolder struct {
	Key   BindingKey
	Apply func(reflect.Value)
}

// DefaultsRegistry is an ordered, per-key multimap of DefaultsHolder,
// guarded by a RWMutex: registration happens during module scanning
// (rare, write-heavy only at startup), composition happens on every build
// (frequent, read-only) — the same register-once/read-often shape as the
// teacher's DefaultConfigReloader component registry.
type DefaultsRegistry struct {
	mu      sync.RWMutex
	holders map[BindingKey][]DefaultsHolder
}

// NewDefaultsRegistry returns an empty registry.
func NewDefaultsRegistry() *DefaultsRegistry {
	return &DefaultsRegistry{holders: map[BindingKey][]DefaultsHolder{}}
}

// Register appends a default-setter under key. Registration order is
// preserved and is the ordering used when composing multiple holders for
// the same key (the Go equivalent of the original's stable holder
// comparator — Go slices already preserve append order, so no sort is
// needed).
func (r *DefaultsRegistry) Register(key BindingKey, apply func(reflect.Value)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holders[key] = append(r.holders[key], DefaultsHolder{Key: key, Apply: apply})
}

// Composed returns every default-setter that applies to key: first the
// global defaults for key.Type, then key's own per-key defaults, each
// group in registration order.
func (r *DefaultsRegistry) Composed(key BindingKey) []DefaultsHolder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []DefaultsHolder
	out = append(out, r.holders[GlobalDefaultsKey(key.Type)]...)
	if key.Name != "" {
		out = append(out, r.holders[key]...)
	}
	return out
}
