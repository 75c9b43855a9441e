package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"dollar/internal/diag"
	"dollar/internal/parser"
	"dollar/internal/scanner"
	"dollar/internal/source"
)

// failingParse returns the diagnostics produced by validating content.
func failingParse(t *testing.T, content string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.tmpl", []byte(content)))
	bag := diag.NewBag(10)
	rep := diag.BagReporter{Bag: bag}
	tokens, err := scanner.Scan(file, scanner.Options{Reporter: rep})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse(tokens, parser.Options{Reporter: rep, File: file.ID}); err == nil {
		t.Fatalf("%q should not parse", content)
	}
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := failingParse(t, "x $$ y")
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"test.tmpl:1:7: error SYN2002: expected $$",
		" 1 | x $$ y",
		"   |       ^",
		"note: test.tmpl:1:3: dollar-expression opened here",
		" 1 | x $$ y",
		"   |   ^^",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyWideAndTabs(t *testing.T) {
	tests := []struct {
		input string
		caret string
	}{
		{"日本 $$x", "   |         ^"},
		{"\t$$", "   |       ^"},
	}
	for _, tt := range tests {
		bag, fs := failingParse(t, tt.input)
		var buf bytes.Buffer
		if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(buf.String(), "\n")
		if len(lines) < 3 || lines[2] != tt.caret {
			t.Errorf("%q: caret line %q, want %q\n%s", tt.input, lines[2], tt.caret, buf.String())
		}
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := failingParse(t, "one\ntwo $$\nthree\n")
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	// the error sits at end of input; the note shows the opener with its neighbours
	for _, want := range []string{"test.tmpl:4:1:", " 3 | three", " 4 | ", "note: test.tmpl:2:5:", " 1 | one", " 2 | two $$"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := failingParse(t, "$$")
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestPrettyWithoutFile(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: 9}, "failed to load file"))
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "error IO4001: failed to load file\n" {
		t.Fatalf("got %q", buf.String())
	}

	buf.Reset()
	if err := PrettyFileError(&buf, "a.tmpl", diag.IOLoadFileError, "permission denied", PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a.tmpl: error IO4001: permission denied\n" {
		t.Fatalf("got %q", buf.String())
	}
}
