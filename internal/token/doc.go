// Package token defines the token-tree representation consumed and produced
// by the macro expansion engine.
// Invariants:
//   - Trees are immutable once built; Cursor and Binding captures are views
//     into the original slice, never copies.
//   - A Tree is either a leaf (Delim == DelimNone, Leaf valid) or a delimited
//     group (Delim != DelimNone, Kids valid); never both.
//   - Token.Mark is NoMark for every token that came from a front end.
//     Non-zero marks are allocated by the expansion engine only.
//   - Identifier equality for name resolution is (NFC-normalized Text, Mark).
//     Plain Eq ignores marks; resolution must use ResolvesEqual.
package token
