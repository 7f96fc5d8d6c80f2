package fragment_test

import (
	"errors"
	"testing"

	"mex/internal/fragment"
	"mex/internal/testkit"
	"mex/internal/token"
)

func consume(t *testing.T, kind fragment.Kind, trees []token.Tree) (int, error) {
	t.Helper()
	return fragment.NewGrammar().Consume(kind, token.NewCursor(trees))
}

func TestExprExtents(t *testing.T) {
	b := testkit.NewB(0)
	cases := []struct {
		name  string
		trees []token.Tree
		want  int
	}{
		{"single literal", testkit.Cat(b.Int("1"), b.Semi()), 1},
		{"binary chain", testkit.Cat(b.Int("1"), b.Plus(), b.Int("2"), b.Star(), b.Int("3"), b.Semi()), 5},
		{"stops at semicolon", testkit.Cat(b.Int("1"), b.Semi(), b.Int("2")), 1},
		{"stops at comma", testkit.Cat(b.Int("1"), b.Plus(), b.Int("2"), b.Comma(), b.Int("3")), 3},
		{"call postfix", testkit.Cat(b.Ident("f"), b.Parens(b.Int("1")), b.Comma()), 2},
		{"index postfix", testkit.Cat(b.Ident("xs"), b.Brackets(b.Int("0"))), 2},
		{"field access", testkit.Cat(b.Ident("p"), b.Punct(token.Dot, "."), b.Ident("x")), 3},
		{"path expression", testkit.Cat(b.Ident("std"), b.Punct(token.ColonColon, "::"), b.Ident("io")), 3},
		{"parenthesized", testkit.Cat(b.Parens(b.Int("1"), b.Plus(), b.Int("2")), b.Int("9")), 1},
		{"prefix ops", testkit.Cat(b.Punct(token.Minus, "-"), b.Punct(token.Bang, "!"), b.Ident("ok")), 3},
		{"try postfix", testkit.Cat(b.Ident("r"), b.Punct(token.Question, "?"), b.Comma()), 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := consume(t, fragment.Expr, c.trees)
			if err != nil {
				t.Fatalf("Consume: %v", err)
			}
			if got != c.want {
				t.Fatalf("consumed %d trees, want %d", got, c.want)
			}
		})
	}
}

func TestExprRejectsStructLiteralForm(t *testing.T) {
	b := testkit.NewB(0)
	foo := b.Ident("Foo")
	trees := testkit.Cat(foo, b.Braces())
	_, err := consume(t, fragment.Expr, trees)
	var mf *fragment.MalformedError
	if !errors.As(err, &mf) {
		t.Fatalf("want MalformedError, got %v", err)
	}
	if mf.Kind != fragment.Expr {
		t.Fatalf("kind = %v, want Expr", mf.Kind)
	}
	// the error points at Foo, not at the brace group
	if mf.At != foo.Span() {
		t.Fatalf("error at %v, want %v", mf.At, foo.Span())
	}
}

func TestExprMalformedAtOperator(t *testing.T) {
	b := testkit.NewB(0)
	_, err := consume(t, fragment.Expr, testkit.Cat(b.Comma(), b.Int("1")))
	var mf *fragment.MalformedError
	if !errors.As(err, &mf) {
		t.Fatalf("want MalformedError, got %v", err)
	}
	_, err = consume(t, fragment.Expr, nil)
	if !errors.As(err, &mf) {
		t.Fatalf("empty input: want MalformedError, got %v", err)
	}
	if mf.Got != "" {
		t.Fatalf("end-of-input failure must have empty Got, got %q", mf.Got)
	}
}

func TestSingleTokenKinds(t *testing.T) {
	b := testkit.NewB(0)
	if n, err := consume(t, fragment.Ident, testkit.Cat(b.Ident("x"), b.Int("1"))); err != nil || n != 1 {
		t.Fatalf("ident: n=%d err=%v", n, err)
	}
	if _, err := consume(t, fragment.Ident, testkit.Cat(b.Int("1"))); err == nil {
		t.Fatalf("ident must reject a literal")
	}
	if n, err := consume(t, fragment.Literal, testkit.Cat(b.Str("hi"))); err != nil || n != 1 {
		t.Fatalf("literal: n=%d err=%v", n, err)
	}
	if _, err := consume(t, fragment.Literal, testkit.Cat(b.Ident("x"))); err == nil {
		t.Fatalf("literal must reject an identifier")
	}
}

func TestTokenTreeAndBlock(t *testing.T) {
	b := testkit.NewB(0)
	if n, err := consume(t, fragment.TokenTree, testkit.Cat(b.Braces(b.Int("1")), b.Int("2"))); err != nil || n != 1 {
		t.Fatalf("tt: n=%d err=%v", n, err)
	}
	if n, err := consume(t, fragment.Block, testkit.Cat(b.Braces(b.Int("1")))); err != nil || n != 1 {
		t.Fatalf("block: n=%d err=%v", n, err)
	}
	if _, err := consume(t, fragment.Block, testkit.Cat(b.Parens())); err == nil {
		t.Fatalf("block must reject a paren group")
	}
}

func TestTypeExtents(t *testing.T) {
	b := testkit.NewB(0)
	cases := []struct {
		name  string
		trees []token.Tree
		want  int
	}{
		{"plain path", testkit.Cat(b.Ident("Vec"), b.Comma()), 1},
		{"qualified path", testkit.Cat(b.Ident("std"), b.Punct(token.ColonColon, "::"), b.Ident("Vec")), 3},
		{"reference", testkit.Cat(b.Punct(token.Amp, "&"), b.Ident("T")), 2},
		{"generic args", testkit.Cat(b.Ident("Vec"), b.Punct(token.Lt, "<"), b.Ident("T"), b.Punct(token.Gt, ">"), b.Comma()), 4},
		{"tuple form", testkit.Cat(b.Parens(b.Ident("A"), b.Comma(), b.Ident("B"))), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := consume(t, fragment.Type, c.trees)
			if err != nil {
				t.Fatalf("Consume: %v", err)
			}
			if got != c.want {
				t.Fatalf("consumed %d trees, want %d", got, c.want)
			}
		})
	}
	if _, err := consume(t, fragment.Type, testkit.Cat(b.Comma())); err == nil {
		t.Fatalf("type must reject a comma")
	}
}

func TestKindOf(t *testing.T) {
	for _, name := range []string{"expr", "ident", "literal", "ty", "tt", "block"} {
		if _, ok := fragment.KindOf(name); !ok {
			t.Fatalf("KindOf(%q) must resolve", name)
		}
	}
	if _, ok := fragment.KindOf("stmt"); ok {
		t.Fatalf("unknown specifier must not resolve")
	}
}
