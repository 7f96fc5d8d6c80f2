package token_test

import (
	"testing"

	"mex/internal/source"
	"mex/internal/token"
)

func leaf(kind token.Kind, text string) token.Tree {
	return token.NewLeaf(token.Token{Kind: kind, Text: text})
}

func parens(kids ...token.Tree) token.Tree {
	return token.NewGroup(token.DelimParen, source.Span{}, source.Span{}, kids)
}

func TestTreeShape(t *testing.T) {
	l := leaf(token.Ident, "x")
	if !l.IsLeaf() {
		t.Fatalf("leaf must report IsLeaf")
	}
	g := parens(l, leaf(token.Comma, ","))
	if g.IsLeaf() {
		t.Fatalf("group must not report IsLeaf")
	}
	if len(g.Kids) != 2 {
		t.Fatalf("group kids = %d, want 2", len(g.Kids))
	}
}

func TestTreeSpan(t *testing.T) {
	open := source.Span{File: 1, Start: 0, End: 1}
	close := source.Span{File: 1, Start: 8, End: 9}
	g := token.NewGroup(token.DelimBracket, open, close, nil)
	sp := g.Span()
	if sp.Start != 0 || sp.End != 9 {
		t.Fatalf("group span = %v, want 1:0-9", sp)
	}
}

func TestTreeEq(t *testing.T) {
	a := parens(leaf(token.IntLit, "1"), leaf(token.Comma, ","), leaf(token.IntLit, "2"))
	b := parens(leaf(token.IntLit, "1"), leaf(token.Comma, ","), leaf(token.IntLit, "2"))
	if !a.Eq(b) {
		t.Fatalf("structurally identical groups must be equal")
	}
	c := parens(leaf(token.IntLit, "1"))
	if a.Eq(c) {
		t.Fatalf("different kid counts must not be equal")
	}
	d := token.NewGroup(token.DelimBrace, source.Span{}, source.Span{}, b.Kids)
	if a.Eq(d) {
		t.Fatalf("different delimiters must not be equal")
	}
	if !token.TreesEq(a.Kids, b.Kids) {
		t.Fatalf("TreesEq must agree with elementwise Eq")
	}
}

func TestTreeString(t *testing.T) {
	g := parens(leaf(token.Ident, "f"), parens(leaf(token.IntLit, "1")))
	if got := g.String(); got != "(f (1))" {
		t.Fatalf("String() = %q", got)
	}
	seq := []token.Tree{leaf(token.Ident, "LIST"), token.NewGroup(token.DelimBracket, source.Span{}, source.Span{}, []token.Tree{leaf(token.IntLit, "1")})}
	if got := token.TreesString(seq); got != "LIST [1]" {
		t.Fatalf("TreesString = %q", got)
	}
}
