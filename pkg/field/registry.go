package field

import "fmt"

// Registry maps every field type to its definition. It is populated once at
// construction and never mutated afterwards; callers share a single instance
// by injection instead of reaching for package-level state.
type Registry struct {
	defs  map[Type]Definition
	order []Type
}

// NewRegistry builds a registry holding the built-in definitions, total over
// the closed type set.
func NewRegistry() *Registry {
	builtins := builtinDefinitions()
	reg := &Registry{
		defs:  make(map[Type]Definition, len(builtins)),
		order: make([]Type, 0, len(builtins)),
	}
	for _, def := range builtins {
		reg.defs[def.Type] = def
		reg.order = append(reg.order, def.Type)
	}
	return reg
}

// Resolve returns the definition for a type. Tags outside the closed set fail
// with ErrUnknownFieldType; given the document invariants this is defensive
// and should be unreachable.
func (r *Registry) Resolve(t Type) (Definition, error) {
	def, ok := r.defs[t]
	if !ok {
		return Definition{}, fmt.Errorf("field: %w: %q", ErrUnknownFieldType, t)
	}
	return def, nil
}

// MustResolve panics on an unknown type. Useful for wiring code that only
// handles built-in tags.
func (r *Registry) MustResolve(t Type) Definition {
	def, err := r.Resolve(t)
	if err != nil {
		panic(err)
	}
	return def
}

// Has reports whether a type is registered.
func (r *Registry) Has(t Type) bool {
	_, ok := r.defs[t]
	return ok
}

// Types returns the registered tags in registration order.
func (r *Registry) Types() []Type {
	return append([]Type(nil), r.order...)
}
