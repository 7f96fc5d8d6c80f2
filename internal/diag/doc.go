// Package diag defines the diagnostic model shared by the expansion engine's
// phases (registry, matcher, expander, fragment grammar, textsubst).
//
// Diagnostic is a deterministic, serialisable record: severity, a stable
// numeric code, a message, a primary span, and optional notes. Expansion
// traces ("in this expansion of X") are carried as ordered notes, oldest
// frame first.
//
// Producers emit through a Reporter so storage and formatting stay
// decoupled; BagReporter aggregates into a Bag, which supports sorting,
// deduplication, and merging. Rendering lives in render.go and is the only
// place that touches color or terminal state.
package diag
