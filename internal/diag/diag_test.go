package diag

import (
	"testing"

	"dollar/internal/source"
)

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexScanFailure, "LEX1001"},
		{SynExpectExpression, "SYN2001"},
		{SynUnclosedDollarExp, "SYN2002"},
		{IOLoadFileError, "IO4001"},
		{CfgInvalid, "CFG5001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if got := Code(2999).Title(); got != "Unknown error" {
		t.Errorf("unexpected fallback title %q", got)
	}
}

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatal("empty bag reports problems")
	}
	if !bag.Add(New(SevWarning, SynInfo, source.Span{}, "w")) {
		t.Fatal("first Add rejected")
	}
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("warning accounting is wrong")
	}
	bag.Add(NewError(SynUnclosedDollarExp, source.Span{}, "expected $$"))
	if bag.Add(NewError(SynUnclosedDollarExp, source.Span{}, "dropped")) {
		t.Fatal("Add past the limit must fail")
	}
	if bag.Len() != 2 || !bag.HasErrors() {
		t.Fatalf("unexpected bag state: len=%d", bag.Len())
	}
}

func TestNewBagClampsLimit(t *testing.T) {
	if got := NewBag(-5).Cap(); got != 0 {
		t.Errorf("negative limit should clamp to 0, got %d", got)
	}
	if got := NewBag(1 << 20).Cap(); got != ^uint16(0) {
		t.Errorf("huge limit should clamp to max uint16, got %d", got)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(SynUnclosedDollarExp, source.Span{File: 1, Start: 4, End: 4}, "b"))
	bag.Add(NewError(SynUnclosedDollarExp, source.Span{File: 0, Start: 9, End: 9}, "a"))
	bag.Add(New(SevWarning, SynInfo, source.Span{File: 0, Start: 9, End: 9}, "w"))
	bag.Add(NewError(SynUnclosedDollarExp, source.Span{File: 1, Start: 4, End: 4}, "b again"))

	bag.Sort()
	items := bag.Items()
	if items[0].Message != "a" || items[1].Message != "w" {
		t.Fatalf("unexpected order: %+v", items)
	}

	bag.Dedup()
	if bag.Len() != 3 {
		t.Fatalf("expected 3 after dedup, got %d", bag.Len())
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SynExpectExpression, source.Span{}, "one"))
	b := NewBag(2)
	b.Add(NewError(SynUnclosedDollarExp, source.Span{}, "two"))
	b.Add(NewError(SynUnclosedDollarExp, source.Span{}, "three"))

	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("merge lost items: %d", a.Len())
	}
	a.Merge(nil)
}

func TestBagReporter(t *testing.T) {
	bag := NewBag(4)
	var r Reporter = BagReporter{Bag: bag}
	Emit(r, NewError(SynUnclosedDollarExp, source.Span{Start: 1, End: 2}, "expected $$").
		WithNote(source.Span{Start: 0, End: 2}, "opened here"))
	Emit(nil, NewError(SynUnclosedDollarExp, source.Span{}, "ignored"))
	Emit(NopReporter{}, NewError(SynUnclosedDollarExp, source.Span{}, "ignored"))
	BagReporter{}.Report(SynInfo, SevInfo, source.Span{}, "no bag", nil)

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "opened here" {
		t.Fatalf("note lost: %+v", d)
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	id := fs.Add("/workspace/site/page.tmpl", []byte("hi\n$$name\n"), 0)

	diags := []Diagnostic{
		NewError(SynUnclosedDollarExp, source.Span{File: id, Start: 10, End: 10}, "expected $$").
			WithNote(source.Span{File: id, Start: 3, End: 5}, "expression\nopened here"),
		New(SevWarning, SynInfo, source.Span{File: id, Start: 0, End: 1}, "first"),
	}

	expected := "warning SYN2000 site/page.tmpl:1:1 first\n" +
		"note SYN2002 site/page.tmpl:2:1 expression opened here\n" +
		"error SYN2002 site/page.tmpl:3:1 expected $$"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
