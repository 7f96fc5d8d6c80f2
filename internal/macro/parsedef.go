package macro

import (
	"fmt"

	"mex/internal/diag"
	"mex/internal/fragment"
	"mex/internal/source"
	"mex/internal/token"
)

// ParseDefinition reads a macro definition from token trees written in the
// rule DSL:
//
//	( pattern ) => ( template ) ;
//	( pattern ) => ( template ) ;
//	...
//
// Inside a pattern, `$name:frag` declares a metavariable, `$( ... ) sep *`
// (or `+`, `?`) a repetition, and any delimited group a structural group.
// Templates mirror the shape with `$name` references and `$( ... ) sep *`
// echoes. The trailing semicolon after the last rule is optional.
//
// Every rule is validated: a template may only reference metavariables its
// own pattern binds, and never at a shallower repetition depth than they
// were bound at.
func ParseDefinition(trees []token.Tree, span source.Span) (*Definition, *Error) {
	def := &Definition{Span: span}
	c := token.NewCursor(trees)
	for !c.Done() {
		rule, next, err := parseRule(c)
		if err != nil {
			return nil, err
		}
		def.Rules = append(def.Rules, rule)
		c = next
	}
	if len(def.Rules) == 0 {
		return nil, defError(diag.MacDefExpectRule, span, "macro definition has no rules")
	}
	for i := range def.Rules {
		if err := validateRule(&def.Rules[i]); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func parseRule(c token.Cursor) (Rule, token.Cursor, *Error) {
	pat, next, ok := c.Next()
	if !ok || pat.IsLeaf() {
		return Rule{}, c, defError(diag.MacDefExpectRule, c.Span(),
			"expected a delimited pattern group at the start of a rule")
	}
	arrow, next2, ok := next.Next()
	if !ok || !arrow.IsLeaf() || arrow.Leaf.Kind != token.FatArrow {
		return Rule{}, c, defError(diag.MacDefExpectFatArrow, next.Span(),
			"expected '=>' between a rule's pattern and template")
	}
	tmpl, next3, ok := next2.Next()
	if !ok || tmpl.IsLeaf() {
		return Rule{}, c, defError(diag.MacDefExpectRule, next2.Span(),
			"expected a delimited template group after '=>'")
	}

	pattern, err := parsePattern(pat.Kids)
	if err != nil {
		return Rule{}, c, err
	}
	template, err := parseTemplate(tmpl.Kids)
	if err != nil {
		return Rule{}, c, err
	}

	// optional ';' after a rule
	if t, after, ok := next3.Next(); ok && t.IsLeaf() && t.Leaf.Kind == token.Semicolon {
		next3 = after
	}
	return Rule{Pattern: pattern, Template: template}, next3, nil
}

func parsePattern(trees []token.Tree) ([]PatNode, *Error) {
	var nodes []PatNode
	c := token.NewCursor(trees)
	for {
		t, next, ok := c.Next()
		if !ok {
			return nodes, nil
		}
		switch {
		case t.IsLeaf() && t.Leaf.Kind == token.Dollar:
			node, after, err := parseDollarPattern(t, next)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			c = after
		case !t.IsLeaf():
			inner, err := parsePattern(t.Kids)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, PatNode{
				Kind:  PatGroup,
				Span:  t.Span(),
				Delim: t.Delim,
				Inner: inner,
			})
			c = next
		default:
			nodes = append(nodes, PatNode{Kind: PatLiteral, Span: t.Span(), Tok: t.Leaf})
			c = next
		}
	}
}

// parseDollarPattern handles `$name:frag` and `$( ... ) sep quant` after the
// dollar has been consumed.
func parseDollarPattern(dollar token.Tree, c token.Cursor) (PatNode, token.Cursor, *Error) {
	t, next, ok := c.Next()
	if !ok {
		return PatNode{}, c, defError(diag.MacDefBadMetavariable, dollar.Span(),
			"dangling '$' at the end of a pattern")
	}

	// repetition: $( body ) sep? quant
	if !t.IsLeaf() {
		if t.Delim != token.DelimParen {
			return PatNode{}, c, defError(diag.MacDefBadRepetition, t.Span(),
				"repetition body must be parenthesized")
		}
		body, err := parsePattern(t.Kids)
		if err != nil {
			return PatNode{}, c, err
		}
		sep, quant, after, err := parseRepSuffix(next)
		if err != nil {
			return PatNode{}, c, err
		}
		return PatNode{
			Kind:  PatRepetition,
			Span:  dollar.Span().Cover(t.Span()),
			Body:  body,
			Sep:   sep,
			Quant: quant,
		}, after, nil
	}

	// metavariable: $name : frag
	if t.Leaf.Kind != token.Ident {
		return PatNode{}, c, defError(diag.MacDefBadMetavariable, t.Span(),
			fmt.Sprintf("expected a metavariable name after '$', found %s", describeTree(t)))
	}
	colon, next2, ok := next.Next()
	if !ok || !colon.IsLeaf() || colon.Leaf.Kind != token.Colon {
		return PatNode{}, c, defError(diag.MacDefBadMetavariable, next.Span(),
			fmt.Sprintf("metavariable $%s needs a ':fragment' specifier", t.Leaf.Text))
	}
	frag, next3, ok := next2.Next()
	if !ok || !frag.IsLeaf() || frag.Leaf.Kind != token.Ident {
		return PatNode{}, c, defError(diag.MacDefBadFragmentKind, next2.Span(),
			fmt.Sprintf("expected a fragment kind after '$%s:'", t.Leaf.Text))
	}
	kind, known := fragment.KindOf(frag.Leaf.Text)
	if !known {
		return PatNode{}, c, defError(diag.MacDefBadFragmentKind, frag.Span(),
			fmt.Sprintf("unknown fragment kind %q", frag.Leaf.Text))
	}
	return PatNode{
		Kind: PatMetavar,
		Span: dollar.Span().Cover(frag.Span()),
		Name: t.Leaf.Text,
		Frag: kind,
	}, next3, nil
}

// parseRepSuffix reads the optional separator and the quantifier after a
// repetition body group.
func parseRepSuffix(c token.Cursor) (*token.Token, Quantifier, token.Cursor, *Error) {
	t, next, ok := c.Next()
	if !ok || !t.IsLeaf() {
		return nil, ZeroOrMore, c, defError(diag.MacDefBadRepetition, c.Span(),
			"repetition needs a quantifier ('*', '+', or '?')")
	}
	var sep *token.Token
	if q, isQuant := quantOf(t.Leaf.Kind); isQuant {
		return sep, q, next, nil
	}
	// a single non-quantifier leaf is the separator
	sepTok := t.Leaf
	sep = &sepTok
	t, next2, ok := next.Next()
	if !ok || !t.IsLeaf() {
		return nil, ZeroOrMore, c, defError(diag.MacDefBadRepetition, next.Span(),
			"repetition needs a quantifier after its separator")
	}
	q, isQuant := quantOf(t.Leaf.Kind)
	if !isQuant {
		return nil, ZeroOrMore, c, defError(diag.MacDefBadRepetition, t.Span(),
			fmt.Sprintf("expected '*', '+', or '?', found %s", describeToken(t.Leaf)))
	}
	if q == ZeroOrOne {
		return nil, ZeroOrMore, c, defError(diag.MacDefBadRepetition, t.Span(),
			"'?' repetitions cannot take a separator")
	}
	return sep, q, next2, nil
}

func quantOf(k token.Kind) (Quantifier, bool) {
	switch k {
	case token.Star:
		return ZeroOrMore, true
	case token.Plus:
		return OneOrMore, true
	case token.Question:
		return ZeroOrOne, true
	default:
		return ZeroOrMore, false
	}
}

func parseTemplate(trees []token.Tree) ([]TmplNode, *Error) {
	var nodes []TmplNode
	c := token.NewCursor(trees)
	for {
		t, next, ok := c.Next()
		if !ok {
			return nodes, nil
		}
		switch {
		case t.IsLeaf() && t.Leaf.Kind == token.Dollar:
			node, after, err := parseDollarTemplate(t, next)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			c = after
		case !t.IsLeaf():
			inner, err := parseTemplate(t.Kids)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, TmplNode{
				Kind:  TmplGroup,
				Span:  t.Span(),
				Delim: t.Delim,
				Inner: inner,
				Open:  t.OpenSpan,
				Close: t.CloseSpan,
			})
			c = next
		default:
			nodes = append(nodes, TmplNode{Kind: TmplLiteral, Span: t.Span(), Tok: t.Leaf})
			c = next
		}
	}
}

func parseDollarTemplate(dollar token.Tree, c token.Cursor) (TmplNode, token.Cursor, *Error) {
	t, next, ok := c.Next()
	if !ok {
		return TmplNode{}, c, defError(diag.MacDefBadMetavariable, dollar.Span(),
			"dangling '$' at the end of a template")
	}
	if !t.IsLeaf() {
		if t.Delim != token.DelimParen {
			return TmplNode{}, c, defError(diag.MacDefBadRepetition, t.Span(),
				"repetition body must be parenthesized")
		}
		body, err := parseTemplate(t.Kids)
		if err != nil {
			return TmplNode{}, c, err
		}
		sep, quant, after, err := parseRepSuffix(next)
		if err != nil {
			return TmplNode{}, c, err
		}
		return TmplNode{
			Kind:  TmplRepetitionEcho,
			Span:  dollar.Span().Cover(t.Span()),
			Body:  body,
			Sep:   sep,
			Quant: quant,
		}, after, nil
	}
	if t.Leaf.Kind != token.Ident {
		return TmplNode{}, c, defError(diag.MacDefBadMetavariable, t.Span(),
			fmt.Sprintf("expected a metavariable name after '$', found %s", describeTree(t)))
	}
	return TmplNode{
		Kind: TmplMetavarRef,
		Span: dollar.Span().Cover(t.Span()),
		Name: t.Leaf.Text,
	}, next, nil
}

// validateRule checks template references against the pattern's bindings:
// every referenced name must be bound, at a repetition depth no greater than
// the depth of the reference.
func validateRule(r *Rule) *Error {
	depths := make(map[string]int)
	patternDepths(r.Pattern, 0, depths)
	return checkRefs(r.Template, 0, depths)
}

func patternDepths(nodes []PatNode, depth int, into map[string]int) {
	for i := range nodes {
		switch nodes[i].Kind {
		case PatMetavar:
			into[nodes[i].Name] = depth
		case PatRepetition:
			patternDepths(nodes[i].Body, depth+1, into)
		case PatGroup:
			patternDepths(nodes[i].Inner, depth, into)
		}
	}
}

func checkRefs(nodes []TmplNode, depth int, depths map[string]int) *Error {
	for i := range nodes {
		n := &nodes[i]
		switch n.Kind {
		case TmplMetavarRef:
			bound, ok := depths[n.Name]
			if !ok {
				return defError(diag.MacDefUnboundMetavar, n.Span,
					fmt.Sprintf("template references $%s, which the pattern does not bind", n.Name))
			}
			if bound > depth {
				return defError(diag.MacDefRepetitionDepth, n.Span,
					fmt.Sprintf("$%s is bound under %d repetition(s) but referenced under %d", n.Name, bound, depth))
			}
		case TmplRepetitionEcho:
			if err := checkRefs(n.Body, depth+1, depths); err != nil {
				return err
			}
		case TmplGroup:
			if err := checkRefs(n.Inner, depth, depths); err != nil {
				return err
			}
		}
	}
	return nil
}

func defError(code diag.Code, sp source.Span, msg string) *Error {
	err := newError(KindMalformedDefinition, sp, msg)
	err.Code = code
	return err
}
