package macro

import (
	"errors"
	"fmt"

	"mex/internal/diag"
	"mex/internal/fragment"
	"mex/internal/token"
)

// matcher attempts one rule's pattern against an invocation's argument
// trees. It walks pattern and input left to right with no backtracking:
// fragment captures are maximal, and a capture that later starves a pattern
// element is a failure for that rule, not grounds for a retry.
type matcher struct {
	oracle fragment.Oracle
	// progress counts input trees consumed across the whole walk, nested
	// groups included. Rule selection uses it to pick the furthest failure
	// for the NoMatchingRule diagnostic.
	progress int
}

// matchFailure carries the failure of one rule attempt plus how far the
// rule got before failing.
type matchFailure struct {
	err      *Error
	progress int
}

// matchRule tries pattern against the full argument sequence. Leftover
// input after the pattern is exhausted fails the rule.
func matchRule(oracle fragment.Oracle, pattern []PatNode, args []token.Tree) (Env, *matchFailure) {
	m := &matcher{oracle: oracle}
	env := make(Env)
	c, fail := m.matchSeq(pattern, token.NewCursor(args), env)
	if fail != nil {
		return nil, fail
	}
	if !c.Done() {
		left, _ := c.Peek()
		err := newError(KindNoMatchingRule, c.Span(), "invocation has tokens left over after the pattern")
		err.Code = diag.MacUnexpectedLeftover
		err.Expected = "end of arguments"
		err.Actual = describeTree(left)
		return nil, m.fail(err)
	}
	return env, nil
}

func (m *matcher) fail(err *Error) *matchFailure {
	return &matchFailure{err: err, progress: m.progress}
}

// matchSeq walks nodes against c, binding captures into env, and returns the
// cursor position after the last consumed tree.
func (m *matcher) matchSeq(nodes []PatNode, c token.Cursor, env Env) (token.Cursor, *matchFailure) {
	for i := range nodes {
		var fail *matchFailure
		c, fail = m.matchNode(&nodes[i], c, env)
		if fail != nil {
			return c, fail
		}
	}
	return c, nil
}

func (m *matcher) matchNode(n *PatNode, c token.Cursor, env Env) (token.Cursor, *matchFailure) {
	switch n.Kind {
	case PatLiteral:
		return m.matchLiteral(n, c)
	case PatMetavar:
		return m.matchMetavar(n, c, env)
	case PatRepetition:
		return m.matchRepetition(n, c, env)
	case PatGroup:
		return m.matchGroup(n, c, env)
	}
	return c, m.fail(newError(KindUnknown, n.Span, "corrupt pattern node"))
}

func (m *matcher) matchLiteral(n *PatNode, c token.Cursor) (token.Cursor, *matchFailure) {
	t, next, ok := c.Next()
	if !ok || !t.IsLeaf() || !t.Leaf.Eq(n.Tok) {
		err := newError(KindNoMatchingRule, c.Span(), "literal token does not match")
		err.Code = diag.MacExpectedLiteral
		err.Expected = describeToken(n.Tok)
		if ok {
			err.Actual = describeTree(t)
		} else {
			err.Actual = "end of arguments"
		}
		return c, m.fail(err)
	}
	m.progress++
	return next, nil
}

func (m *matcher) matchMetavar(n *PatNode, c token.Cursor, env Env) (token.Cursor, *matchFailure) {
	if _, ok := c.Peek(); !ok {
		// running out of input is a plain mismatch, not a malformed fragment
		err := newError(KindNoMatchingRule, c.Span(),
			fmt.Sprintf("expected a %s fragment for $%s", n.Frag, n.Name))
		err.Expected = fmt.Sprintf("a %s fragment", n.Frag)
		err.Actual = "end of arguments"
		return c, m.fail(err)
	}
	consumed, err := m.oracle.Consume(n.Frag, c)
	if err != nil {
		var mf *fragment.MalformedError
		fe := newError(KindMalformedFragment, c.Span(), fmt.Sprintf("malformed %s fragment for $%s", n.Frag, n.Name))
		if errors.As(err, &mf) {
			fe.Span = mf.At
			fe.Expected = fmt.Sprintf("a %s fragment", mf.Kind)
			fe.Actual = mf.Got
		}
		return c, m.fail(fe)
	}
	end := c.Advance(consumed)
	if bindErr := env.bind(n.Name, leafBinding(c.Slice(end)), n.Span); bindErr != nil {
		return c, m.fail(bindErr)
	}
	m.progress += consumed
	return end, nil
}

func (m *matcher) matchGroup(n *PatNode, c token.Cursor, env Env) (token.Cursor, *matchFailure) {
	t, next, ok := c.Next()
	if !ok || t.IsLeaf() || t.Delim != n.Delim {
		err := newError(KindNoMatchingRule, c.Span(), "delimited group does not match")
		err.Code = diag.MacExpectedGroup
		err.Expected = "a group in " + n.Delim.String()
		if ok {
			err.Actual = describeTree(t)
		} else {
			err.Actual = "end of arguments"
		}
		return c, m.fail(err)
	}
	m.progress++
	inner, fail := m.matchSeq(n.Inner, token.NewCursor(t.Kids), env)
	if fail != nil {
		return c, fail
	}
	if !inner.Done() {
		left, _ := inner.Peek()
		err := newError(KindNoMatchingRule, inner.Span(), "group has tokens left over after the pattern")
		err.Code = diag.MacUnexpectedLeftover
		err.Expected = "end of group"
		err.Actual = describeTree(left)
		return c, m.fail(err)
	}
	// kid consumption was already counted by the inner matchSeq
	return next, nil
}

// matchRepetition loops the body over the remaining input. A separator, when
// present, is consumed between iterations and never after the last one: the
// loop checks for the separator first and stops cleanly when it is absent.
// A body failure after a consumed separator is a hard failure, because the
// separator promised another iteration.
func (m *matcher) matchRepetition(n *PatNode, c token.Cursor, env Env) (token.Cursor, *matchFailure) {
	names := make(map[string]struct{})
	metavarsOf(n.Body, names)
	for name := range names {
		if _, exists := env[name]; exists {
			return c, m.fail(newError(KindDuplicateMetavariableBinding, n.Span,
				fmt.Sprintf("metavariable $%s is bound more than once in one pattern", name)))
		}
	}
	env.declare(names)

	iterations := 0
	for {
		if n.Quant == ZeroOrOne && iterations == 1 {
			break
		}
		start := c
		sepConsumed := false
		if iterations > 0 && n.Sep != nil {
			t, next, ok := start.Next()
			if !ok || !t.IsLeaf() || !t.Leaf.Eq(*n.Sep) {
				break // no separator: the repetition is over
			}
			start = next
			sepConsumed = true
		}

		iterEnv := make(Env)
		save := m.progress
		end, fail := m.matchSeq(n.Body, start, iterEnv)
		if fail != nil {
			m.progress = save
			if sepConsumed {
				// `a , b ,` style trailing separators are the caller's
				// problem; a separator inside the stream must introduce a
				// full iteration.
				return c, fail
			}
			if iterations == 0 && n.Quant == OneOrMore {
				fail.err.Code = diag.MacRepetitionTooFew
				return c, fail
			}
			break
		}
		if end.Pos() == start.Pos() && !sepConsumed {
			// empty body match consumes nothing; bail out instead of looping
			break
		}
		if sepConsumed {
			m.progress++
		}
		env.fold(names, iterEnv)
		c = end
		iterations++
	}
	return c, nil
}

func describeToken(t token.Token) string {
	if t.Text != "" && (t.Kind == token.Ident || t.IsLiteral()) {
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

func describeTree(t token.Tree) string {
	if t.IsLeaf() {
		return describeToken(t.Leaf)
	}
	return "group in " + t.Delim.String()
}
