package token_test

import (
	"testing"

	"mex/internal/token"
)

func ident(text string, mark token.Mark) token.Token {
	return token.Token{Kind: token.Ident, Text: text, Mark: mark}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.BoolLit}
	for _, k := range lits {
		if !(token.Token{Kind: k}).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Plus, token.LParen, token.EOF}
	for _, k := range non {
		if (token.Token{Kind: k}).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestTokenEq(t *testing.T) {
	if !ident("x", token.NoMark).Eq(ident("x", 7)) {
		t.Fatalf("Eq must ignore hygiene marks")
	}
	if ident("x", 0).Eq(ident("y", 0)) {
		t.Fatalf("different spellings must not compare equal")
	}
	a := token.Token{Kind: token.IntLit, Text: "12"}
	b := token.Token{Kind: token.IntLit, Text: "13"}
	if a.Eq(b) {
		t.Fatalf("literal text participates in equality")
	}
	// punctuation compares by kind alone
	p := token.Token{Kind: token.Comma, Text: ","}
	q := token.Token{Kind: token.Comma}
	if !p.Eq(q) {
		t.Fatalf("punctuation equality is kind-only")
	}
}

func TestTokenEqNormalizesIdents(t *testing.T) {
	// U+00E9 vs e + U+0301: same identifier after NFC
	composed := ident("café", 0)
	decomposed := ident("café", 0)
	if !composed.Eq(decomposed) {
		t.Fatalf("NFC-equivalent identifiers must compare equal")
	}
}

func TestResolvesEqual(t *testing.T) {
	caller := ident("tmp", token.NoMark)
	stamped := ident("tmp", 3)
	if caller.ResolvesEqual(stamped) {
		t.Fatalf("marked and unmarked identifiers must resolve apart")
	}
	if !stamped.ResolvesEqual(ident("tmp", 3)) {
		t.Fatalf("same spelling and mark must resolve together")
	}
}

func TestWithMark(t *testing.T) {
	got := ident("x", token.NoMark).WithMark(9)
	if got.Mark != 9 {
		t.Fatalf("WithMark did not apply, mark = %d", got.Mark)
	}
	comma := token.Token{Kind: token.Comma}.WithMark(9)
	if comma.Mark != token.NoMark {
		t.Fatalf("non-identifiers must not take marks")
	}
}
