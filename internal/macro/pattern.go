package macro

import (
	"mex/internal/fragment"
	"mex/internal/source"
	"mex/internal/token"
)

// Quantifier bounds how many times a repetition may match or emit.
type Quantifier uint8

const (
	// ZeroOrMore matches any number of iterations, including none.
	ZeroOrMore Quantifier = iota
	// OneOrMore requires at least one iteration.
	OneOrMore
	// ZeroOrOne matches at most one iteration and takes no separator.
	ZeroOrOne
)

func (q Quantifier) String() string {
	switch q {
	case OneOrMore:
		return "+"
	case ZeroOrOne:
		return "?"
	}
	return "*"
}

// PatKind discriminates pattern node variants.
type PatKind uint8

const (
	// PatLiteral requires the next input token to compare equal.
	PatLiteral PatKind = iota
	// PatMetavar captures one fragment of the specified kind.
	PatMetavar
	// PatRepetition matches its body repeatedly, separated by Sep.
	PatRepetition
	// PatGroup matches a delimited group of the same delimiter.
	PatGroup
)

// PatNode is one node of a rule's pattern.
type PatNode struct {
	Kind PatKind
	Span source.Span

	// Tok is the literal token for PatLiteral; unused otherwise.
	Tok token.Token

	// Name and Frag describe a PatMetavar.
	Name string
	Frag fragment.Kind

	// Body, Sep, Quant describe a PatRepetition.
	Body  []PatNode
	Sep   *token.Token
	Quant Quantifier

	// Delim and Inner describe a PatGroup.
	Delim token.Delim
	Inner []PatNode
}

// TmplKind discriminates template node variants.
type TmplKind uint8

const (
	// TmplLiteral emits its token, stamped with the expansion's mark.
	TmplLiteral TmplKind = iota
	// TmplMetavarRef splices a captured binding verbatim.
	TmplMetavarRef
	// TmplRepetitionEcho re-emits its body once per bound iteration.
	TmplRepetitionEcho
	// TmplGroup emits a delimited group around its inner template.
	TmplGroup
)

// TmplNode is one node of a rule's template.
type TmplNode struct {
	Kind TmplKind
	Span source.Span

	Tok  token.Token // TmplLiteral
	Name string      // TmplMetavarRef

	Body  []TmplNode // TmplRepetitionEcho
	Sep   *token.Token
	Quant Quantifier

	Delim token.Delim // TmplGroup
	Inner []TmplNode
	Open  source.Span // TmplGroup delimiter spans
	Close source.Span
}

// Rule pairs a pattern sequence with its template sequence.
type Rule struct {
	Pattern  []PatNode
	Template []TmplNode
}

// Definition is a non-empty ordered sequence of rules, tried top to bottom.
type Definition struct {
	Name  string
	Rules []Rule
	Span  source.Span
}

// metavarsOf collects the metavariable names declared anywhere inside nodes,
// including within nested repetitions and groups.
func metavarsOf(nodes []PatNode, into map[string]struct{}) {
	for i := range nodes {
		switch nodes[i].Kind {
		case PatMetavar:
			into[nodes[i].Name] = struct{}{}
		case PatRepetition:
			metavarsOf(nodes[i].Body, into)
		case PatGroup:
			metavarsOf(nodes[i].Inner, into)
		}
	}
}

// refsOf collects metavariable names referenced anywhere inside template
// nodes, including within nested echoes and groups.
func refsOf(nodes []TmplNode, into map[string]struct{}) {
	for i := range nodes {
		switch nodes[i].Kind {
		case TmplMetavarRef:
			into[nodes[i].Name] = struct{}{}
		case TmplRepetitionEcho:
			refsOf(nodes[i].Body, into)
		case TmplGroup:
			refsOf(nodes[i].Inner, into)
		}
	}
}
