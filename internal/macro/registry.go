package macro

import (
	"fmt"
	"sort"

	"mex/internal/source"
)

// Registry maps macro names to their definitions. It is populated once,
// before any expansion begins, and is read-only from then on. That ordering
// is a caller obligation, not enforced by locking: under it, concurrent
// expansions may share one Registry freely.
type Registry struct {
	defs map[string]*Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Define registers def under name. A second definition for the same name is
// a DuplicateDefinition error; definitions must have at least one rule.
func (r *Registry) Define(name string, def *Definition) error {
	if def == nil || len(def.Rules) == 0 {
		return newError(KindMalformedDefinition, def.span(), fmt.Sprintf("macro %s has no rules", name))
	}
	if prev, exists := r.defs[name]; exists {
		err := newError(KindDuplicateDefinition, def.Span, fmt.Sprintf("macro %s is already defined", name))
		err.Macro = name
		err.Expected = "a unique macro name"
		err.Actual = fmt.Sprintf("previous definition at %s", prev.Span)
		return err
	}
	def.Name = name
	r.defs[name] = def
	return nil
}

// Lookup returns the definition for name, if any.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Len returns the number of registered macros.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Definition) span() source.Span {
	if d == nil {
		return source.Span{}
	}
	return d.Span
}
