package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dollar/internal/ast"
	"dollar/internal/diag"
	"dollar/internal/parser"
	"dollar/internal/scanner"
	"dollar/internal/source"
	"dollar/internal/token"
)

type parsed struct {
	doc *ast.Document
	err error
	bag *diag.Bag
}

func parseString(t *testing.T, input string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.tmpl", []byte(input)))
	tokens, err := scanner.Scan(file, scanner.Options{})
	if err != nil {
		t.Fatalf("Scan(%q): %v", input, err)
	}
	bag := diag.NewBag(8)
	doc, err := parser.Parse(tokens, parser.Options{Reporter: diag.BagReporter{Bag: bag}, File: file.ID})
	return parsed{doc: doc, err: err, bag: bag}
}

func nodes(doc *ast.Document) []string {
	out := make([]string, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		out = append(out, n.String())
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"plain", "hello", []string{`Exp("hello")`}},
		{"escaped dollar", `\$`, []string{`Exp("$")`}},
		{"balanced", "$$foo$$", []string{`DollarExp("foo")`}},
		{"empty expression", "$$$$", []string{`DollarExp("")`}},
		{"ordering", "a$$b$$c", []string{`Exp("a")`, `DollarExp("b")`, `Exp("c")`}},
		{"lone dollar folds into text", "a$b", []string{`Exp("a$b")`}},
		{"only a dollar", "$", []string{`Exp("$")`}},
		{"dollar inside expression", "$$a$b$$", []string{`DollarExp("a$b")`}},
		{"adjacent expressions", "$$a$$$$b$$", []string{`DollarExp("a")`, `DollarExp("b")`}},
		{"escaped closer is text", `$$a\$$$`, []string{`DollarExp("a$")`}},
		{"trailing backslash is nul", `ab\`, []string{`Exp("ab\x00")`}},
		{"trailing backslash inside expression", `$$a$$\`, []string{`DollarExp("a")`, `Exp("\x00")`}},
		{"literal nul is text", "a\x00$$b$$", []string{`Exp("a\x00")`, `DollarExp("b")`}},
		{
			"canonical fixture",
			`abc $def $$ some $exp $$ other exp $ another exp \$ $$ \$$ $$`,
			[]string{
				`Exp("abc $def ")`,
				`DollarExp(" some $exp ")`,
				`Exp(" other exp $ another exp $ ")`,
				`DollarExp(" $$ ")`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseString(t, tt.input)
			if res.err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, res.err)
			}
			if diff := cmp.Diff(tt.want, nodes(res.doc)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			if res.bag.Len() != 0 {
				t.Errorf("unexpected diagnostics: %v", res.bag.Items())
			}
		})
	}
}

func TestParseUnclosed(t *testing.T) {
	tests := []struct {
		input string
		open  source.Span
		at    uint32
	}{
		{"$$foo", source.Span{Start: 0, End: 2}, 5},
		{"$$", source.Span{Start: 0, End: 2}, 2},
		{"ok $$a$$ then $$b", source.Span{Start: 14, End: 16}, 17},
		{"$$$", source.Span{Start: 0, End: 2}, 3},
		{`$$\`, source.Span{Start: 0, End: 2}, 3},
	}
	for _, tt := range tests {
		res := parseString(t, tt.input)
		if res.err == nil {
			t.Fatalf("Parse(%q) should fail, got %v", tt.input, res.doc)
		}
		if res.doc != nil {
			t.Errorf("Parse(%q) returned a partial document", tt.input)
		}
		if res.err.Error() != "expected $$" {
			t.Errorf("Parse(%q) error = %q", tt.input, res.err.Error())
		}

		var pe *parser.Error
		if !errors.As(res.err, &pe) {
			t.Fatalf("expected *parser.Error, got %T", res.err)
		}
		if pe.Code != diag.SynUnclosedDollarExp {
			t.Errorf("code = %v", pe.Code.ID())
		}
		if pe.Span.Start != tt.at || !pe.Span.Empty() {
			t.Errorf("Parse(%q) error span = %v, want empty at %d", tt.input, pe.Span, tt.at)
		}
		if len(pe.Notes) != 1 || pe.Notes[0].Span.Start != tt.open.Start || pe.Notes[0].Span.End != tt.open.End {
			t.Errorf("Parse(%q) notes = %+v, want opener %v", tt.input, pe.Notes, tt.open)
		}

		if res.bag.Len() != 1 || res.bag.Items()[0].Code != diag.SynUnclosedDollarExp {
			t.Errorf("Parse(%q) should report exactly one diagnostic, got %v", tt.input, res.bag.Items())
		}
	}
}

func TestNodeSpans(t *testing.T) {
	res := parseString(t, `ab$$ x $$\$`)
	if res.err != nil {
		t.Fatal(res.err)
	}
	type spans struct {
		Kind       ast.Kind
		Start, End uint32
		BodyStart  uint32
		BodyEnd    uint32
	}
	got := make([]spans, 0, len(res.doc.Nodes))
	for _, n := range res.doc.Nodes {
		got = append(got, spans{n.Kind, n.Span.Start, n.Span.End, n.Body.Start, n.Body.End})
	}
	want := []spans{
		{ast.Exp, 0, 2, 0, 0},
		{ast.DollarExp, 2, 9, 4, 7},
		{ast.Exp, 9, 11, 0, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("span mismatch (-want +got):\n%s", diff)
	}
}

// Without '$' the whole input is one Exp equal to the input.
func TestNoDollarProperty(t *testing.T) {
	for _, input := range []string{"x", "multi\nline\ntext", strings.Repeat("ab ", 50), `back\\slash`} {
		res := parseString(t, input)
		if res.err != nil {
			t.Fatalf("Parse(%q): %v", input, res.err)
		}
		want := strings.ReplaceAll(input, `\\`, `\`)
		if len(res.doc.Nodes) != 1 || res.doc.Nodes[0].Kind != ast.Exp || res.doc.Nodes[0].Text != want {
			t.Errorf("Parse(%q) = %v", input, res.doc)
		}
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Other, Text: "a", Span: source.Span{Start: 0, End: 1}},
		{Kind: token.Invalid, Span: source.Span{Start: 1, End: 2}},
	}
	doc, err := parser.Parse(tokens, parser.Options{})
	if err == nil || doc != nil {
		t.Fatalf("expected failure, got doc=%v err=%v", doc, err)
	}
	var pe *parser.Error
	if !errors.As(err, &pe) || pe.Code != diag.SynUnexpectedToken {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParseStopsAtEmbeddedEOF(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Other, Text: "a"},
		{Kind: token.EOF},
		{Kind: token.Other, Text: "ignored"},
	}
	doc, err := parser.Parse(tokens, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{`Exp("a")`}, nodes(doc)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromScanError(t *testing.T) {
	se := &scanner.Error{Span: source.Span{Start: 2, End: 3}, Msg: "bad escape"}
	pe := parser.FromScanError(se)
	if pe.Error() != "bad escape" || pe.Code != diag.LexScanFailure || pe.Span != se.Span {
		t.Fatalf("unexpected lifted error %+v", pe)
	}
	var back *scanner.Error
	if !errors.As(pe, &back) || back != se {
		t.Fatal("scan error must stay reachable through errors.As")
	}

	if parser.FromScanError(nil) != nil {
		t.Fatal("nil in, nil out")
	}
	same := &parser.Error{Msg: "x"}
	if parser.FromScanError(same) != same {
		t.Fatal("parse errors pass through unchanged")
	}
	other := parser.FromScanError(errors.New("boom"))
	if other.Code != diag.UnknownCode || other.Error() != "boom" {
		t.Fatalf("unexpected generic wrap %+v", other)
	}
}

func TestEmptyBodySpan(t *testing.T) {
	res := parseString(t, "x$$$$")
	if res.err != nil {
		t.Fatal(res.err)
	}
	n := res.doc.Nodes[1]
	if n.Kind != ast.DollarExp || n.Span.Start != 1 || n.Span.End != 5 {
		t.Fatalf("unexpected node %v at %v", n, n.Span)
	}
	if n.Body.Start != 3 || n.Body.End != 3 {
		t.Fatalf("empty body must sit between the markers, got %v", n.Body)
	}
}
