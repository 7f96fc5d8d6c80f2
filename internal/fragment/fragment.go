// Package fragment defines the grammar boundary between the macro matcher and
// the host language. A metavariable's fragment specifier names a grammar
// category; deciding how many token trees an instance of that category
// occupies is delegated to an Oracle. The matcher treats the oracle as opaque:
// it either reports a consumed length or a malformed-fragment failure.
package fragment

import (
	"fmt"

	"mex/internal/source"
	"mex/internal/token"
)

// Kind enumerates the grammar categories a metavariable may capture.
type Kind uint8

const (
	// Invalid indicates an unrecognized specifier.
	Invalid Kind = iota
	// Expr captures one expression.
	Expr
	// Ident captures a single identifier.
	Ident
	// Literal captures a single literal token.
	Literal
	// Type captures one type.
	Type
	// TokenTree captures any single token tree.
	TokenTree
	// Block captures one brace-delimited group.
	Block
)

var kindNames = map[Kind]string{
	Expr:      "expr",
	Ident:     "ident",
	Literal:   "literal",
	Type:      "ty",
	TokenTree: "tt",
	Block:     "block",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// KindOf resolves a specifier spelling ("expr", "ident", ...) to its Kind.
func KindOf(name string) (Kind, bool) {
	for k, s := range kindNames {
		if s == name {
			return k, true
		}
	}
	return Invalid, false
}

// Oracle decides fragment extents. Consume inspects the trees ahead of c and
// returns how many of them form one instance of kind. It never consumes zero
// trees on success; an empty or ungrammatical prefix is a *MalformedError.
type Oracle interface {
	Consume(kind Kind, c token.Cursor) (int, error)
}

// MalformedError reports that the input at a position is not a valid instance
// of the requested fragment kind.
type MalformedError struct {
	Kind Kind
	At   source.Span
	Got  string // description of the offending token, "" at end of input
}

func (e *MalformedError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("expected %s fragment, found end of input", e.Kind)
	}
	return fmt.Sprintf("expected %s fragment, found %s", e.Kind, e.Got)
}

func malformed(kind Kind, c token.Cursor) *MalformedError {
	err := &MalformedError{Kind: kind, At: c.Span()}
	if t, ok := c.Peek(); ok {
		err.Got = describe(t)
	}
	return err
}

func describe(t token.Tree) string {
	if t.IsLeaf() {
		if t.Leaf.Text != "" && t.Leaf.Kind != token.Ident && !t.Leaf.IsLiteral() {
			return t.Leaf.Kind.String()
		}
		return fmt.Sprintf("%s %q", t.Leaf.Kind, t.Leaf.Text)
	}
	return "group in " + t.Delim.String()
}
