package macro

import (
	"fmt"

	"mex/internal/source"
	"mex/internal/token"
)

// Binding is what one metavariable captured: either a single token-tree
// subsequence (a view into the invocation, not a copy), or one nested
// Binding per repetition iteration, recursively to arbitrary depth.
type Binding struct {
	// Trees is the captured subsequence when the binding is a leaf.
	Trees []token.Tree
	// Iters holds per-iteration sub-bindings when the metavariable was
	// captured under a repetition. A zero-or-more repetition may leave
	// this empty; one-or-more guarantees at least one entry.
	Iters []*Binding
	// Repeated distinguishes an empty repetition capture from a leaf.
	Repeated bool
}

func leafBinding(trees []token.Tree) *Binding {
	return &Binding{Trees: trees}
}

func repeatedBinding() *Binding {
	return &Binding{Repeated: true}
}

// Len returns the iteration count of a repeated binding; leaves have no
// meaningful length.
func (b *Binding) Len() int {
	return len(b.Iters)
}

// Env is the binding environment produced by a successful match: one entry
// per metavariable name in the matched pattern.
type Env map[string]*Binding

// bind inserts a capture, rejecting a second binding of the same name.
// Distinct repetition iterations never collide here: each iteration matches
// into its own Env before being folded into the parent's repeated bindings.
func (e Env) bind(name string, b *Binding, at source.Span) *Error {
	if _, dup := e[name]; dup {
		err := newError(KindDuplicateMetavariableBinding, at,
			fmt.Sprintf("metavariable $%s is bound more than once in one pattern", name))
		return err
	}
	e[name] = b
	return nil
}

// fold appends one iteration's environment into the parent's repeated
// bindings. names is the static set of metavariables declared in the
// repetition body, so zero-iteration repetitions still produce (empty)
// repeated bindings for each of them.
func (e Env) fold(names map[string]struct{}, iter Env) {
	for name := range names {
		parent, ok := e[name]
		if !ok {
			parent = repeatedBinding()
			e[name] = parent
		}
		if sub, ok := iter[name]; ok {
			parent.Iters = append(parent.Iters, sub)
		}
	}
}

// declare ensures every name has a repeated binding entry even when no
// iteration matched.
func (e Env) declare(names map[string]struct{}) {
	for name := range names {
		if _, ok := e[name]; !ok {
			e[name] = repeatedBinding()
		}
	}
}
