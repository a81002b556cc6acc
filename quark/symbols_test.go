package quark

import (
	"strings"
	"testing"
)

func TestSymbolTableAddAndGet(t *testing.T) {
	table := NewSymbolTable()
	if err := table.Add("count", TypeNumber); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := table.Add("name", TypeText); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	sym, ok := table.Get("count")
	if !ok || sym.Name != "count" || sym.Type != TypeNumber {
		t.Fatalf("unexpected symbol %#v", sym)
	}
	if _, ok := table.Get("missing"); ok {
		t.Fatalf("expected missing symbol lookup to fail")
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 symbols, got %d", table.Len())
	}
}

func TestSymbolTableRejectsDuplicates(t *testing.T) {
	table := NewSymbolTable()
	if err := table.Add("x", TypeNumber); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	err := table.Add("x", TypeText)
	if err == nil {
		t.Fatalf("expected duplicate declaration to fail")
	}
	if !strings.Contains(err.Error(), "variable x already declared as number") {
		t.Fatalf("unexpected error %q", err)
	}
	if sym, _ := table.Get("x"); sym.Type != TypeNumber {
		t.Fatalf("expected original entry to survive, got %s", sym.Type)
	}
}

func TestSymbolTableNamesAreSorted(t *testing.T) {
	table := NewSymbolTable()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := table.Add(name, TypeBool); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	if got := strings.Join(table.Names(), ","); got != "alpha,mid,zeta" {
		t.Fatalf("unexpected order %s", got)
	}
}

func TestTypeFromKeyword(t *testing.T) {
	cases := map[string]Type{
		"number": TypeNumber,
		"text":   TypeText,
		"char":   TypeText,
		"bool":   TypeBool,
	}
	for keyword, want := range cases {
		got, ok := TypeFromKeyword(keyword)
		if !ok || got != want {
			t.Fatalf("TypeFromKeyword(%q) = %s, %t; want %s", keyword, got, ok, want)
		}
	}
	if _, ok := TypeFromKeyword("void"); ok {
		t.Fatalf("expected void to have no primitive type")
	}
}

func TestSymbolTableCloneIsIndependent(t *testing.T) {
	table := NewSymbolTable()
	if err := table.Add("a", TypeNumber); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	clone := table.Clone()
	if err := clone.Add("b", TypeText); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if table.Has("b") {
		t.Fatalf("expected clone additions to stay out of the original")
	}
	if !clone.Has("a") {
		t.Fatalf("expected clone to carry existing entries")
	}
}
