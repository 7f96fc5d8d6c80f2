// Package textsubst implements the preprocessor-style text substitution
// mode: unstructured, non-hygienic splicing of token trees with no pattern
// matching and no fragment grammar. It is deliberately a separate component
// from the hygienic engine in internal/macro; mixing the two silently would
// reintroduce the capture bugs hygiene exists to prevent.
package textsubst

import (
	"fmt"

	"mex/internal/diag"
	"mex/internal/source"
	"mex/internal/token"
)

// Define is one substitution: object-like (no parameter list) or
// function-like (positional parameters spliced into the body).
type Define struct {
	Name   string
	Params []string // nil for object-like defines
	Body   []token.Tree
	Span   source.Span
}

// IsObject reports whether the define takes no arguments.
func (d *Define) IsObject() bool { return d.Params == nil }

// Error is the typed failure for the substitution mode.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Diagnostic converts the error to the shared diagnostic model.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

// Table holds the active defines. Like the macro Registry, it is populated
// up front and read-only during substitution.
type Table struct {
	defs map[string]*Define
}

func NewTable() *Table {
	return &Table{defs: make(map[string]*Define)}
}

// Add registers a define; a second define of the same name is an error.
func (t *Table) Add(d *Define) error {
	if _, dup := t.defs[d.Name]; dup {
		return &Error{
			Code: diag.SubDuplicateDefine,
			Span: d.Span,
			Msg:  fmt.Sprintf("%s is already defined", d.Name),
		}
	}
	t.defs[d.Name] = d
	return nil
}

// Lookup returns the define for name or a typed unknown-name error.
func (t *Table) Lookup(name string) (*Define, error) {
	d, ok := t.defs[name]
	if !ok {
		return nil, &Error{Code: diag.SubUnknownName, Msg: fmt.Sprintf("%s is not defined", name)}
	}
	return d, nil
}

// Substitute rewrites trees, replacing every occurrence of a defined name
// (for function-like defines, a name followed by a paren group). Replacement
// output is rescanned so defines may reference each other; a name is inert
// inside its own replacement, which keeps self-referential defines finite
// exactly the way a C preprocessor does.
func (t *Table) Substitute(trees []token.Tree) ([]token.Tree, error) {
	return t.subst(trees, make(map[string]bool))
}

func (t *Table) subst(trees []token.Tree, hidden map[string]bool) ([]token.Tree, error) {
	out := make([]token.Tree, 0, len(trees))
	for i := 0; i < len(trees); i++ {
		tr := trees[i]
		if !tr.IsLeaf() {
			kids, err := t.subst(tr.Kids, hidden)
			if err != nil {
				return nil, err
			}
			tr.Kids = kids
			out = append(out, tr)
			continue
		}
		name := tr.Leaf.Text
		d, known := t.defs[name]
		if tr.Leaf.Kind != token.Ident || !known || hidden[name] {
			out = append(out, tr)
			continue
		}

		if d.IsObject() {
			replaced, err := t.rescan(d.Body, name, hidden)
			if err != nil {
				return nil, err
			}
			out = append(out, replaced...)
			continue
		}

		// function-like: needs `name ( args )`; otherwise the name is plain
		if i+1 >= len(trees) || trees[i+1].IsLeaf() || trees[i+1].Delim != token.DelimParen {
			out = append(out, tr)
			continue
		}
		args := splitArgs(trees[i+1].Kids)
		if len(args) != len(d.Params) {
			return nil, &Error{
				Code: diag.SubArityMismatch,
				Span: trees[i+1].Span(),
				Msg: fmt.Sprintf("%s expects %d argument(s), got %d",
					name, len(d.Params), len(args)),
			}
		}
		body := spliceParams(d.Body, d.Params, args)
		replaced, err := t.rescan(body, name, hidden)
		if err != nil {
			return nil, err
		}
		out = append(out, replaced...)
		i++ // argument group consumed
	}
	return out, nil
}

func (t *Table) rescan(body []token.Tree, name string, hidden map[string]bool) ([]token.Tree, error) {
	hidden[name] = true
	defer delete(hidden, name)
	return t.subst(body, hidden)
}

// splitArgs divides a paren group's children on top-level commas. An empty
// group is zero arguments; a trailing comma does not add an empty one.
func splitArgs(kids []token.Tree) [][]token.Tree {
	if len(kids) == 0 {
		return nil
	}
	var args [][]token.Tree
	start := 0
	for i, tr := range kids {
		if tr.IsLeaf() && tr.Leaf.Kind == token.Comma {
			args = append(args, kids[start:i])
			start = i + 1
		}
	}
	if start < len(kids) {
		args = append(args, kids[start:])
	}
	return args
}

// spliceParams replaces parameter identifiers in body with their argument
// trees, recursing into groups. Purely positional and spelling-based: there
// is no hygiene in this mode.
func spliceParams(body []token.Tree, params []string, args [][]token.Tree) []token.Tree {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}
	out := make([]token.Tree, 0, len(body))
	for _, tr := range body {
		switch {
		case tr.IsLeaf() && tr.Leaf.Kind == token.Ident:
			if i, ok := index[tr.Leaf.Text]; ok {
				out = append(out, args[i]...)
				continue
			}
			out = append(out, tr)
		case !tr.IsLeaf():
			tr.Kids = spliceParams(tr.Kids, params, args)
			out = append(out, tr)
		default:
			out = append(out, tr)
		}
	}
	return out
}
