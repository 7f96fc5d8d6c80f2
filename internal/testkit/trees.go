// Package testkit provides compact token-tree constructors for tests. Spans
// are synthesized with monotonically increasing offsets in a shared virtual
// file so diagnostics and furthest-failure ordering stay meaningful.
package testkit

import (
	"mex/internal/source"
	"mex/internal/token"
)

// B builds token trees with synthetic spans.
type B struct {
	File source.FileID
	off  uint32
}

// NewB starts a builder for file. A zero FileID is fine for tests that never
// render source excerpts.
func NewB(file source.FileID) *B {
	return &B{File: file}
}

func (b *B) span(width uint32) source.Span {
	sp := source.Span{File: b.File, Start: b.off, End: b.off + width}
	b.off += width + 1
	return sp
}

func (b *B) leaf(kind token.Kind, text string) token.Tree {
	return token.NewLeaf(token.Token{
		Kind: kind,
		Span: b.span(uint32(max(len(text), 1))),
		Text: text,
	})
}

// Ident builds an identifier leaf.
func (b *B) Ident(name string) token.Tree { return b.leaf(token.Ident, name) }

// Int builds an integer literal leaf.
func (b *B) Int(text string) token.Tree { return b.leaf(token.IntLit, text) }

// Str builds a string literal leaf.
func (b *B) Str(text string) token.Tree { return b.leaf(token.StringLit, text) }

// Punct builds a punctuation or operator leaf.
func (b *B) Punct(kind token.Kind, text string) token.Tree { return b.leaf(kind, text) }

// Comma, Semi, Dollar, Colon, FatArrow are shorthands for common leaves.
func (b *B) Comma() token.Tree    { return b.leaf(token.Comma, ",") }
func (b *B) Semi() token.Tree     { return b.leaf(token.Semicolon, ";") }
func (b *B) Dollar() token.Tree   { return b.leaf(token.Dollar, "$") }
func (b *B) Colon() token.Tree    { return b.leaf(token.Colon, ":") }
func (b *B) FatArrow() token.Tree { return b.leaf(token.FatArrow, "=>") }
func (b *B) Star() token.Tree     { return b.leaf(token.Star, "*") }
func (b *B) Plus() token.Tree     { return b.leaf(token.Plus, "+") }

// Parens builds a parenthesized group.
func (b *B) Parens(kids ...token.Tree) token.Tree {
	return b.group(token.DelimParen, kids)
}

// Brackets builds a bracketed group.
func (b *B) Brackets(kids ...token.Tree) token.Tree {
	return b.group(token.DelimBracket, kids)
}

// Braces builds a braced group.
func (b *B) Braces(kids ...token.Tree) token.Tree {
	return b.group(token.DelimBrace, kids)
}

func (b *B) group(d token.Delim, kids []token.Tree) token.Tree {
	open := b.span(1)
	close := b.span(1)
	return token.NewGroup(d, open, close, kids)
}

// Metavar builds the `$name:frag` pattern spelling as its four leaves.
func (b *B) Metavar(name, frag string) []token.Tree {
	return []token.Tree{b.Dollar(), b.Ident(name), b.Colon(), b.Ident(frag)}
}

// Ref builds the `$name` template spelling as two trees.
func (b *B) Ref(name string) []token.Tree {
	return []token.Tree{b.Dollar(), b.Ident(name)}
}

// Cat concatenates tree slices and single trees into one sequence.
func Cat(parts ...any) []token.Tree {
	var out []token.Tree
	for _, p := range parts {
		switch v := p.(type) {
		case token.Tree:
			out = append(out, v)
		case []token.Tree:
			out = append(out, v...)
		default:
			panic("testkit.Cat: unsupported part")
		}
	}
	return out
}
