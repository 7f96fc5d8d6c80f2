package macro

import (
	"fmt"

	"mex/internal/fragment"
	"mex/internal/source"
	"mex/internal/token"
)

// DefaultMaxDepth bounds the expansion frame stack when Options leaves
// MaxDepth unset.
const DefaultMaxDepth = 128

// Options tunes one Engine.
type Options struct {
	// MaxDepth is the expansion stack limit; DefaultMaxDepth when <= 0.
	MaxDepth int
	// Oracle decides fragment extents; fragment.NewGrammar() when nil.
	Oracle fragment.Oracle
}

// Engine expands macro invocations against a read-only Registry. One Engine
// may serve concurrent expansions: per-invocation state lives on the stack
// of Expand, and hygiene marks come from an atomic allocator.
type Engine struct {
	reg      *Registry
	oracle   fragment.Oracle
	hygiene  *Hygiene
	maxDepth int
}

func NewEngine(reg *Registry, opts Options) *Engine {
	oracle := opts.Oracle
	if oracle == nil {
		oracle = fragment.NewGrammar()
	}
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Engine{
		reg:      reg,
		oracle:   oracle,
		hygiene:  NewHygiene(),
		maxDepth: depth,
	}
}

// FreshMark allocates a hygiene mark outside of any expansion. Consumers
// that replay previously produced output (caches) use it to re-key marks so
// replayed identities never collide with live ones.
func (e *Engine) FreshMark() token.Mark {
	return e.hygiene.Fresh()
}

// Expand runs one full expansion of the named macro against the
// invocation's argument trees. On success the returned sequence is complete
// and hygienically stamped; on failure no output is produced and the error
// carries the expansion frame chain, oldest frame first.
func (e *Engine) Expand(name string, site source.Span, args []token.Tree) ([]token.Tree, *Error) {
	st := newFrameStack(e.maxDepth)
	return e.expand(st, name, site, args)
}

// expand is the re-entrant expansion point: nested invocations discovered
// while emitting come back through here with the same frame stack.
func (e *Engine) expand(st *frameStack, name string, site source.Span, args []token.Tree) ([]token.Tree, *Error) {
	if st.depth() >= e.maxDepth {
		err := newError(KindRecursionLimitExceeded, site,
			fmt.Sprintf("expansion of %s exceeds the recursion limit of %d", name, e.maxDepth))
		err.Macro = name
		err.Frames = st.chain()
		return nil, err
	}

	def, ok := e.reg.Lookup(name)
	if !ok {
		err := newError(KindNotFound, site, fmt.Sprintf("unknown macro %s", name))
		err.Macro = name
		err.Frames = st.chain()
		return nil, err
	}

	env, ruleIdx, matchErr := e.selectRule(def, args)
	if matchErr != nil {
		matchErr.Macro = name
		matchErr.Frames = st.chain()
		return nil, matchErr
	}

	st.push(Frame{Macro: name, Site: site, Rule: ruleIdx})
	defer st.pop()

	mark := e.hygiene.Fresh()
	out, err := e.expandSeq(st, def.Rules[ruleIdx].Template, env, mark)
	if err != nil {
		return nil, err
	}
	return e.resolveNested(st, out)
}

// selectRule tries the definition's rules in declaration order and returns
// the bindings of the first full match. When every rule fails, the failure
// that progressed furthest is reported; fragment rejections keep their own
// kind so the caller sees MalformedFragment rather than a generic mismatch.
func (e *Engine) selectRule(def *Definition, args []token.Tree) (Env, int, *Error) {
	var best *matchFailure
	for i := range def.Rules {
		env, fail := matchRule(e.oracle, def.Rules[i].Pattern, args)
		if fail == nil {
			return env, i, nil
		}
		if best == nil || fail.progress > best.progress {
			best = fail
		}
	}
	err := best.err
	if err.Kind != KindMalformedFragment && err.Kind != KindDuplicateMetavariableBinding {
		err.Kind = KindNoMatchingRule
	}
	err.Message = fmt.Sprintf("no rule of %s matches this invocation: %s", def.Name, err.Message)
	return nil, -1, err
}

func (e *Engine) expandSeq(st *frameStack, nodes []TmplNode, env Env, mark token.Mark) ([]token.Tree, *Error) {
	out := make([]token.Tree, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		switch n.Kind {
		case TmplLiteral:
			tok := n.Tok.WithMark(mark)
			out = append(out, token.NewLeaf(tok))

		case TmplMetavarRef:
			b, ok := env[n.Name]
			if !ok {
				err := newError(KindMalformedDefinition, n.Span,
					fmt.Sprintf("template references unbound metavariable $%s", n.Name))
				err.Frames = st.chain()
				return nil, err
			}
			if b.Repeated {
				err := newError(KindRepetitionCountMismatch, n.Span,
					fmt.Sprintf("metavariable $%s is still repeating at this depth", n.Name))
				err.Frames = st.chain()
				return nil, err
			}
			// captured trees splice verbatim, caller identity intact
			out = append(out, b.Trees...)

		case TmplGroup:
			inner, err := e.expandSeq(st, n.Inner, env, mark)
			if err != nil {
				return nil, err
			}
			out = append(out, token.NewGroup(n.Delim, n.Open, n.Close, inner))

		case TmplRepetitionEcho:
			emitted, err := e.expandEcho(st, n, env, mark)
			if err != nil {
				return nil, err
			}
			out = append(out, emitted...)
		}
	}
	return out, nil
}

// expandEcho re-emits a repetition body once per bound iteration. Every
// repeating metavariable referenced in the body must agree on its length at
// this depth; this is validated before any output is produced.
func (e *Engine) expandEcho(st *frameStack, n *TmplNode, env Env, mark token.Mark) ([]token.Tree, *Error) {
	refs := make(map[string]struct{})
	refsOf(n.Body, refs)

	count := -1
	var countedBy string
	for name := range refs {
		b, ok := env[name]
		if !ok || !b.Repeated {
			continue // non-repeating bindings repeat verbatim
		}
		if count == -1 {
			count, countedBy = b.Len(), name
			continue
		}
		if b.Len() != count {
			err := newError(KindRepetitionCountMismatch, n.Span,
				fmt.Sprintf("metavariable $%s repeats %d times but $%s repeats %d times",
					countedBy, count, name, b.Len()))
			err.Frames = st.chain()
			return nil, err
		}
	}
	if count == -1 {
		err := newError(KindRepetitionCountMismatch, n.Span,
			"repetition in template references no repeating metavariable")
		err.Frames = st.chain()
		return nil, err
	}

	var out []token.Tree
	for i := 0; i < count; i++ {
		if i > 0 && n.Sep != nil {
			out = append(out, token.NewLeaf(n.Sep.WithMark(mark)))
		}
		iterEnv := make(Env, len(env))
		for name, b := range env {
			if _, referenced := refs[name]; referenced && b.Repeated {
				iterEnv[name] = b.Iters[i]
			} else {
				iterEnv[name] = b
			}
		}
		emitted, err := e.expandSeq(st, n.Body, iterEnv, mark)
		if err != nil {
			return nil, err
		}
		out = append(out, emitted...)
	}
	return out, nil
}

// resolveNested rescans freshly emitted trees for invocations of registered
// macros (an identifier immediately followed by a delimited group) and
// re-enters the expansion entry point for each, splicing the results in
// place. Each re-entry pushes its own frame, so runaway self-reference is
// caught by the depth guard rather than by the Go runtime.
func (e *Engine) resolveNested(st *frameStack, trees []token.Tree) ([]token.Tree, *Error) {
	out := make([]token.Tree, 0, len(trees))
	for i := 0; i < len(trees); i++ {
		t := trees[i]
		if t.IsLeaf() && t.Leaf.Kind == token.Ident && i+1 < len(trees) && !trees[i+1].IsLeaf() {
			if _, registered := e.reg.Lookup(t.Leaf.Text); registered {
				argGroup := trees[i+1]
				site := t.Span().Cover(argGroup.Span())
				sub, err := e.expand(st, t.Leaf.Text, site, argGroup.Kids)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
				i++ // the argument group is consumed by the invocation
				continue
			}
		}
		if !t.IsLeaf() {
			kids, err := e.resolveNested(st, t.Kids)
			if err != nil {
				return nil, err
			}
			t.Kids = kids
		}
		out = append(out, t)
	}
	return out, nil
}
