package token

import (
	"strings"

	"mex/internal/source"
)

// Delim identifies the bracket pair enclosing a delimited group.
type Delim uint8

const (
	// DelimNone marks a leaf tree.
	DelimNone Delim = iota
	// DelimParen is a '(' ... ')' group.
	DelimParen
	// DelimBracket is a '[' ... ']' group.
	DelimBracket
	// DelimBrace is a '{' ... '}' group.
	DelimBrace
)

func (d Delim) Open() Kind {
	switch d {
	case DelimParen:
		return LParen
	case DelimBracket:
		return LBracket
	case DelimBrace:
		return LBrace
	}
	return Invalid
}

func (d Delim) Close() Kind {
	switch d {
	case DelimParen:
		return RParen
	case DelimBracket:
		return RBracket
	case DelimBrace:
		return RBrace
	}
	return Invalid
}

func (d Delim) String() string {
	switch d {
	case DelimParen:
		return "parentheses"
	case DelimBracket:
		return "brackets"
	case DelimBrace:
		return "braces"
	}
	return "none"
}

// Tree is one node of a token tree: either a single leaf token or a
// delimited group of child trees.
type Tree struct {
	// Leaf holds the token when Delim == DelimNone.
	Leaf Token
	// Delim selects the bracket pair for a group; DelimNone for leaves.
	Delim Delim
	// Kids are the group's children, in order. Nil for leaves.
	Kids []Tree
	// OpenSpan/CloseSpan locate the delimiter tokens of a group.
	OpenSpan  source.Span
	CloseSpan source.Span
}

// NewLeaf wraps a single token as a tree node.
func NewLeaf(t Token) Tree {
	return Tree{Leaf: t}
}

// NewGroup builds a delimited group node.
func NewGroup(d Delim, open, close source.Span, kids []Tree) Tree {
	return Tree{Delim: d, Kids: kids, OpenSpan: open, CloseSpan: close}
}

// IsLeaf reports whether the node is a single token.
func (t Tree) IsLeaf() bool { return t.Delim == DelimNone }

// Span returns the full source extent of the node.
func (t Tree) Span() source.Span {
	if t.IsLeaf() {
		return t.Leaf.Span
	}
	return t.OpenSpan.Cover(t.CloseSpan)
}

// Eq reports deep structural equality, using Token.Eq for leaves.
func (t Tree) Eq(o Tree) bool {
	if t.Delim != o.Delim {
		return false
	}
	if t.IsLeaf() {
		return t.Leaf.Eq(o.Leaf)
	}
	if len(t.Kids) != len(o.Kids) {
		return false
	}
	for i := range t.Kids {
		if !t.Kids[i].Eq(o.Kids[i]) {
			return false
		}
	}
	return true
}

// TreesEq reports elementwise Eq over two sequences.
func TreesEq(a, b []Tree) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// String renders the node back to approximate source text. Intended for
// diagnostics and tests, not for round-tripping.
func (t Tree) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

// TreesString renders a sequence space-separated.
func TreesString(trees []Tree) string {
	var sb strings.Builder
	for i, t := range trees {
		if i > 0 {
			sb.WriteByte(' ')
		}
		t.write(&sb)
	}
	return sb.String()
}

func (t Tree) write(sb *strings.Builder) {
	if t.IsLeaf() {
		if t.Leaf.Text != "" {
			sb.WriteString(t.Leaf.Text)
		} else {
			sb.WriteString(t.Leaf.Kind.String())
		}
		return
	}
	open, close := "(", ")"
	switch t.Delim {
	case DelimBracket:
		open, close = "[", "]"
	case DelimBrace:
		open, close = "{", "}"
	}
	sb.WriteString(open)
	for i, k := range t.Kids {
		if i > 0 {
			sb.WriteByte(' ')
		}
		k.write(sb)
	}
	sb.WriteString(close)
}
