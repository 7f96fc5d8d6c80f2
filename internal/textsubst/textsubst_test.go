package textsubst_test

import (
	"errors"
	"testing"

	"mex/internal/diag"
	"mex/internal/testkit"
	"mex/internal/textsubst"
	"mex/internal/token"
)

func table(t *testing.T, defs ...*textsubst.Define) *textsubst.Table {
	t.Helper()
	tab := textsubst.NewTable()
	for _, d := range defs {
		if err := tab.Add(d); err != nil {
			t.Fatalf("Add(%s): %v", d.Name, err)
		}
	}
	return tab
}

func substitute(t *testing.T, tab *textsubst.Table, trees []token.Tree) string {
	t.Helper()
	out, err := tab.Substitute(trees)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	return token.TreesString(out)
}

func TestObjectDefine(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{
		Name: "MAX",
		Body: []token.Tree{b.Int("4096")},
	})

	got := substitute(t, tab, testkit.Cat(b.Ident("len"), b.Punct(token.Lt, "<"), b.Ident("MAX")))
	if got != "len < 4096" {
		t.Fatalf("output = %q", got)
	}
}

func TestObjectDefineInsideGroups(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{Name: "N", Body: []token.Tree{b.Int("3")}})

	got := substitute(t, tab, []token.Tree{b.Ident("f"), b.Parens(b.Ident("N"), b.Comma(), b.Brackets(b.Ident("N")))})
	if got != "f (3 , [3])" {
		t.Fatalf("output = %q", got)
	}
}

func TestFunctionDefine(t *testing.T) {
	b := testkit.NewB(0)
	// SQ(x) -> ((x) * (x))
	tab := table(t, &textsubst.Define{
		Name:   "SQ",
		Params: []string{"x"},
		Body: []token.Tree{
			b.Parens(b.Parens(b.Ident("x")), b.Star(), b.Parens(b.Ident("x"))),
		},
	})

	got := substitute(t, tab, []token.Tree{b.Ident("SQ"), b.Parens(b.Ident("a"), b.Plus(), b.Int("1"))})
	if got != "((a + 1) * (a + 1))" {
		t.Fatalf("output = %q", got)
	}
}

func TestFunctionDefineWithoutArgsIsPlain(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{
		Name:   "SQ",
		Params: []string{"x"},
		Body:   []token.Tree{b.Ident("x")},
	})

	// bare name with no paren group stays untouched
	got := substitute(t, tab, testkit.Cat(b.Ident("SQ"), b.Semi()))
	if got != "SQ ;" {
		t.Fatalf("output = %q", got)
	}
}

func TestRescanChainsDefines(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t,
		&textsubst.Define{Name: "A", Body: []token.Tree{b.Ident("B")}},
		&textsubst.Define{Name: "B", Body: []token.Tree{b.Int("7")}},
	)

	got := substitute(t, tab, []token.Tree{b.Ident("A")})
	if got != "7" {
		t.Fatalf("output = %q", got)
	}
}

func TestSelfReferenceIsInert(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{
		Name: "LOOP",
		Body: testkit.Cat(b.Ident("LOOP"), b.Plus(), b.Int("1")),
	})

	got := substitute(t, tab, []token.Tree{b.Ident("LOOP")})
	if got != "LOOP + 1" {
		t.Fatalf("self-reference must stop after one replacement, got %q", got)
	}
}

func TestMutualReferenceIsFinite(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t,
		&textsubst.Define{Name: "PING", Body: []token.Tree{b.Ident("PONG")}},
		&textsubst.Define{Name: "PONG", Body: []token.Tree{b.Ident("PING")}},
	)

	// PING -> PONG -> PING, and there PING is hidden, so it stays
	got := substitute(t, tab, []token.Tree{b.Ident("PING")})
	if got != "PING" {
		t.Fatalf("output = %q", got)
	}
}

func TestArityMismatch(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{
		Name:   "ADD",
		Params: []string{"a", "b"},
		Body:   testkit.Cat(b.Ident("a"), b.Plus(), b.Ident("b")),
	})

	_, err := tab.Substitute([]token.Tree{b.Ident("ADD"), b.Parens(b.Int("1"))})
	var serr *textsubst.Error
	if !errors.As(err, &serr) || serr.Code != diag.SubArityMismatch {
		t.Fatalf("want SubArityMismatch, got %v", err)
	}

	got := substitute(t, tab, []token.Tree{b.Ident("ADD"), b.Parens(b.Int("1"), b.Comma(), b.Int("2"))})
	if got != "1 + 2" {
		t.Fatalf("output = %q", got)
	}
}

func TestZeroParamFunction(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{
		Name:   "NOW",
		Params: []string{},
		Body:   []token.Tree{b.Int("0")},
	})
	if (&textsubst.Define{Name: "NOW", Params: []string{}}).IsObject() {
		t.Fatalf("empty-but-non-nil params must mean function-like")
	}

	got := substitute(t, tab, []token.Tree{b.Ident("NOW"), b.Parens()})
	if got != "0" {
		t.Fatalf("output = %q", got)
	}
}

func TestDuplicateDefine(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{Name: "X", Body: []token.Tree{b.Int("1")}})

	err := tab.Add(&textsubst.Define{Name: "X", Body: []token.Tree{b.Int("2")}})
	var serr *textsubst.Error
	if !errors.As(err, &serr) || serr.Code != diag.SubDuplicateDefine {
		t.Fatalf("want SubDuplicateDefine, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	b := testkit.NewB(0)
	tab := table(t, &textsubst.Define{Name: "X", Body: []token.Tree{b.Int("1")}})

	if d, err := tab.Lookup("X"); err != nil || d.Name != "X" {
		t.Fatalf("Lookup(X) = %v, %v", d, err)
	}
	_, err := tab.Lookup("missing")
	var serr *textsubst.Error
	if !errors.As(err, &serr) || serr.Code != diag.SubUnknownName {
		t.Fatalf("want SubUnknownName, got %v", err)
	}
}
