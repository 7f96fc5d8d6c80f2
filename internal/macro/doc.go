// Package macro implements the declarative macro expansion engine: an
// ordered-rule pattern matcher over token trees, a binding environment with
// nested repetition captures, hygienic stamping of template-introduced
// identifiers, and a recursion-guarded expander.
//
// Control flow for one invocation:
//
//	Registry lookup -> per-rule match (bindings or furthest failure) ->
//	hygiene mark allocation -> template expansion -> nested invocation
//	re-entry -> output trees or a typed *Error with the frame chain.
//
// The Registry must be fully populated before the first Expand call and is
// treated as immutable afterwards; under that precondition any number of
// expansions may run concurrently against it without locking. Hygiene marks
// are allocated from an atomic counter so concurrent expansions never share
// an identity.
//
// Expansion is all-or-nothing: on failure no output trees are produced.
package macro
