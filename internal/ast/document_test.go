package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentString(t *testing.T) {
	doc := &Document{Nodes: []Node{
		{Kind: Exp, Text: "a"},
		{Kind: DollarExp, Text: ` "b" `},
		{Kind: Exp, Text: "c"},
	}}
	want := `[Exp("a"), DollarExp(" \"b\" "), Exp("c")]`
	if got := doc.String(); got != want {
		t.Fatalf("String() = %s, want %s", got, want)
	}

	var nilDoc *Document
	if got := nilDoc.String(); got != "[]" {
		t.Fatalf("nil document renders %q", got)
	}
	if got := (&Document{}).String(); got != "[]" {
		t.Fatalf("empty document renders %q", got)
	}
}

func TestExpressions(t *testing.T) {
	doc := &Document{Nodes: []Node{
		{Kind: DollarExp, Text: "x"},
		{Kind: Exp, Text: " and "},
		{Kind: DollarExp, Text: "y"},
	}}
	if diff := cmp.Diff([]string{"x", "y"}, doc.Expressions()); diff != "" {
		t.Fatalf("Expressions mismatch (-want +got):\n%s", diff)
	}
}

func TestKindString(t *testing.T) {
	if EOF.String() != "EOF" || Exp.String() != "Exp" || DollarExp.String() != "DollarExp" {
		t.Fatal("unexpected kind names")
	}
	if (Node{Kind: EOF}).String() != "EOF" {
		t.Fatal("EOF node should render bare")
	}
}
