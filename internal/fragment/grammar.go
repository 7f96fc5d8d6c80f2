package fragment

import (
	"mex/internal/token"
)

// Grammar is the default Oracle. It scans fragment extents over token trees
// with a conventional precedence-climbing expression grammar, single-token
// ident/literal consumers, and a small type grammar. It never backtracks:
// each consumer takes the maximal prefix its grammar allows.
//
// The expression grammar deliberately has no struct-literal form: an
// identifier directly followed by a brace group is malformed. Hosts whose
// expression grammar differs supply their own Oracle.
type Grammar struct{}

// NewGrammar returns the default fragment oracle.
func NewGrammar() *Grammar { return &Grammar{} }

// Consume implements Oracle.
func (g *Grammar) Consume(kind Kind, c token.Cursor) (int, error) {
	start := c.Pos()
	var (
		end token.Cursor
		err error
	)
	switch kind {
	case Expr:
		end, err = g.expr(c)
	case Ident:
		end, err = g.single(Ident, c, func(t token.Token) bool { return t.Kind == token.Ident })
	case Literal:
		end, err = g.single(Literal, c, token.Token.IsLiteral)
	case Type:
		end, err = g.typ(c)
	case TokenTree:
		if _, next, ok := c.Next(); ok {
			end = next
		} else {
			err = malformed(TokenTree, c)
		}
	case Block:
		t, next, ok := c.Next()
		if ok && !t.IsLeaf() && t.Delim == token.DelimBrace {
			end = next
		} else {
			err = malformed(Block, c)
		}
	default:
		err = malformed(Invalid, c)
	}
	if err != nil {
		return 0, err
	}
	return end.Pos() - start, nil
}

func (g *Grammar) single(kind Kind, c token.Cursor, ok func(token.Token) bool) (token.Cursor, error) {
	t, next, have := c.Next()
	if !have || !t.IsLeaf() || !ok(t.Leaf) {
		return c, malformed(kind, c)
	}
	return next, nil
}

// expr consumes one full expression starting at c.
func (g *Grammar) expr(c token.Cursor) (token.Cursor, error) {
	return g.binary(c, 0)
}

// binary implements precedence climbing over the operator table in ops.go.
func (g *Grammar) binary(c token.Cursor, minPrec int) (token.Cursor, error) {
	c, err := g.unary(c)
	if err != nil {
		return c, err
	}
	for {
		t, ok := c.Peek()
		if !ok || !t.IsLeaf() {
			return c, nil
		}
		prec := binaryPrec(t.Leaf.Kind)
		if prec < 0 || prec < minPrec {
			return c, nil
		}
		after := c.Advance(1)
		after, err = g.binary(after, prec+1)
		if err != nil {
			return after, err
		}
		c = after
	}
}

func (g *Grammar) unary(c token.Cursor) (token.Cursor, error) {
	for {
		t, ok := c.Peek()
		if !ok || !t.IsLeaf() || !isPrefixOp(t.Leaf.Kind) {
			break
		}
		c = c.Advance(1)
	}
	return g.primary(c)
}

func (g *Grammar) primary(c token.Cursor) (token.Cursor, error) {
	t, ok := c.Peek()
	if !ok {
		return c, malformed(Expr, c)
	}
	switch {
	case !t.IsLeaf() && (t.Delim == token.DelimParen || t.Delim == token.DelimBracket):
		// parenthesized expression or array literal
		return g.postfix(c.Advance(1))
	case t.IsLeaf() && t.Leaf.IsLiteral():
		return g.postfix(c.Advance(1))
	case t.IsLeaf() && t.Leaf.Kind == token.Ident:
		after := g.path(c.Advance(1))
		// no struct-literal form: `Name { ... }` is not an expression here
		if follow, ok := after.Peek(); ok && !follow.IsLeaf() && follow.Delim == token.DelimBrace {
			return c, &MalformedError{
				Kind: Expr,
				At:   t.Span(),
				Got:  describe(t) + " followed by a brace group",
			}
		}
		return g.postfix(after)
	default:
		return c, malformed(Expr, c)
	}
}

// path consumes trailing `:: ident` segments after an identifier.
func (g *Grammar) path(c token.Cursor) token.Cursor {
	for {
		sep, ok := c.Peek()
		if !ok || !sep.IsLeaf() || sep.Leaf.Kind != token.ColonColon {
			return c
		}
		seg, ok := c.PeekAt(1)
		if !ok || !seg.IsLeaf() || seg.Leaf.Kind != token.Ident {
			return c
		}
		c = c.Advance(2)
	}
}

// postfix consumes call, index, field-access, and try suffixes.
func (g *Grammar) postfix(c token.Cursor) (token.Cursor, error) {
	for {
		t, ok := c.Peek()
		if !ok {
			return c, nil
		}
		switch {
		case !t.IsLeaf() && (t.Delim == token.DelimParen || t.Delim == token.DelimBracket):
			c = c.Advance(1)
		case t.IsLeaf() && t.Leaf.Kind == token.Question:
			c = c.Advance(1)
		case t.IsLeaf() && t.Leaf.Kind == token.Dot:
			member, ok := c.PeekAt(1)
			if !ok || !member.IsLeaf() ||
				(member.Leaf.Kind != token.Ident && member.Leaf.Kind != token.IntLit) {
				return c, malformed(Expr, c.Advance(1))
			}
			c = c.Advance(2)
		default:
			return c, nil
		}
	}
}

// typ consumes one type: optional reference sigils, then a path with optional
// angle-bracketed arguments, or a paren/bracket group (tuple, array form).
func (g *Grammar) typ(c token.Cursor) (token.Cursor, error) {
	for {
		t, ok := c.Peek()
		if !ok || !t.IsLeaf() || t.Leaf.Kind != token.Amp {
			break
		}
		c = c.Advance(1)
	}
	t, ok := c.Peek()
	if !ok {
		return c, malformed(Type, c)
	}
	switch {
	case !t.IsLeaf() && (t.Delim == token.DelimParen || t.Delim == token.DelimBracket):
		return c.Advance(1), nil
	case t.IsLeaf() && t.Leaf.Kind == token.Ident:
		c = g.path(c.Advance(1))
		return g.generics(c), nil
	default:
		return c, malformed(Type, c)
	}
}

// generics consumes a balanced `< ... >` run if one starts at c.
// Left unconsumed when the brackets never balance; the matcher's caller will
// then fail on the leftover tokens with a better position.
func (g *Grammar) generics(c token.Cursor) token.Cursor {
	t, ok := c.Peek()
	if !ok || !t.IsLeaf() || t.Leaf.Kind != token.Lt {
		return c
	}
	depth := 0
	scan := c
	for {
		t, next, ok := scan.Next()
		if !ok {
			return c
		}
		scan = next
		if !t.IsLeaf() {
			continue
		}
		switch t.Leaf.Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return scan
			}
		case token.Shr:
			depth -= 2
			if depth <= 0 {
				return scan
			}
		}
	}
}
