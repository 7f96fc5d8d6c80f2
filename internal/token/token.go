package token

import (
	"golang.org/x/text/unicode/norm"

	"mex/internal/source"
)

// Mark is a hygiene identity attached to identifier tokens. Every expansion
// event allocates a fresh mark; identifiers stamped with it resolve
// independently from same-spelled identifiers carrying a different mark.
type Mark uint32

// NoMark is the identity of every token produced by a front end.
const NoMark Mark = 0

// Token represents a single atomic token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Mark Mark
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Eq reports syntactic equality: same kind and, for idents and literals, the
// same text. Identifier spellings are compared in NFC so visually identical
// names match regardless of the front end's normalization. Marks are ignored;
// pattern literals must match caller tokens whatever their hygiene identity.
func (t Token) Eq(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Ident:
		return normIdent(t.Text) == normIdent(o.Text)
	case IntLit, FloatLit, StringLit, BoolLit:
		return t.Text == o.Text
	default:
		return true
	}
}

// ResolvesEqual reports resolution identity: Eq plus an equal hygiene mark.
// This is the comparison downstream name resolution is expected to use.
func (t Token) ResolvesEqual(o Token) bool {
	return t.Eq(o) && t.Mark == o.Mark
}

// WithMark returns a copy of t carrying mark. Only identifiers take marks;
// other kinds are returned unchanged.
func (t Token) WithMark(m Mark) Token {
	if t.Kind != Ident {
		return t
	}
	t.Mark = m
	return t
}

func normIdent(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
