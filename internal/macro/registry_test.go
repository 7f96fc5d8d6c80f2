package macro_test

import (
	"testing"

	"mex/internal/macro"
	"mex/internal/source"
	"mex/internal/testkit"
	"mex/internal/token"
)

// defineDSL parses rule trees and registers them under name.
func defineDSL(t *testing.T, reg *macro.Registry, name string, rules []token.Tree) {
	t.Helper()
	def, err := macro.ParseDefinition(rules, source.Span{})
	if err != nil {
		t.Fatalf("ParseDefinition(%s): %v", name, err)
	}
	if err := reg.Define(name, def); err != nil {
		t.Fatalf("Define(%s): %v", name, err)
	}
}

// identityRules is the smallest valid definition: ($x:tt) => ($x).
func identityRules(b *testkit.B) []token.Tree {
	return testkit.Cat(
		b.Parens(testkit.Cat(b.Metavar("x", "tt"))...),
		b.FatArrow(),
		b.Parens(testkit.Cat(b.Ref("x"))...),
	)
}

func TestDefineAndLookup(t *testing.T) {
	b := testkit.NewB(0)
	reg := macro.NewRegistry()
	defineDSL(t, reg, "id", identityRules(b))

	def, ok := reg.Lookup("id")
	if !ok || def == nil {
		t.Fatalf("Lookup(id) failed after Define")
	}
	if def.Name != "id" || len(def.Rules) != 1 {
		t.Fatalf("definition = %+v", def)
	}
	if _, ok := reg.Lookup("nope"); ok {
		t.Fatalf("Lookup(nope) must fail")
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
}

func TestDuplicateDefinition(t *testing.T) {
	b := testkit.NewB(0)
	reg := macro.NewRegistry()
	defineDSL(t, reg, "id", identityRules(b))

	dup, perr := macro.ParseDefinition(identityRules(b), source.Span{})
	if perr != nil {
		t.Fatalf("ParseDefinition: %v", perr)
	}
	err := reg.Define("id", dup)
	if err == nil {
		t.Fatalf("second Define(id) must fail")
	}
	me, ok := err.(*macro.Error)
	if !ok || me.Kind != macro.KindDuplicateDefinition {
		t.Fatalf("err = %v, want DuplicateDefinition", err)
	}
}

func TestDefineRejectsEmptyDefinition(t *testing.T) {
	reg := macro.NewRegistry()
	err := reg.Define("empty", &macro.Definition{})
	if err == nil {
		t.Fatalf("definition without rules must be rejected")
	}
}

func TestNames(t *testing.T) {
	b := testkit.NewB(0)
	reg := macro.NewRegistry()
	defineDSL(t, reg, "zeta", identityRules(b))
	defineDSL(t, reg, "alpha", identityRules(b))
	names := reg.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("Names = %v, want sorted", names)
	}
}
