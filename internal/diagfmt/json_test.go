package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dollar/internal/driver"
	"dollar/internal/scanner"
	"dollar/internal/source"
)

func TestJSONDiagnostics(t *testing.T) {
	bag, fs := failingParse(t, "ab\n$$c")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "error",
			Code:     "SYN2002",
			Message:  "expected $$",
			Location: LocationJSON{File: "test.tmpl", StartByte: 6, EndByte: 6, StartLine: 2, StartCol: 4, EndLine: 2, EndCol: 4},
			Notes: []NoteJSON{{
				Message:  "dollar-expression opened here",
				Location: LocationJSON{File: "test.tmpl", StartByte: 3, EndByte: 5, StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 3},
			}},
		}},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := failingParse(t, "$$")
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Notes != nil || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("unexpected %+v", out)
	}
	if empty := BuildDiagnosticsOutput(nil, fs, JSONOpts{}); empty.Count != 0 || empty.Diagnostics == nil {
		t.Fatalf("nil bag must render as an empty list, got %+v", empty)
	}
}

func TestTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.tmpl", []byte(`a$$\$`)))
	tokens, err := scanner.Scan(file, scanner.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, tokens, fs); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"  1: Other           \"a\" at 1:1-1:2\n" +
		"  2: DollarDollar    at 1:2-1:4\n" +
		"  3: Other           \"$\" at 1:4-1:6\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, tokens, fs); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[1].Kind != "DollarDollar" || out[1].Text != "" || out[2].Text != "$" {
		t.Fatalf("unexpected %+v", out)
	}
}

func TestNodes(t *testing.T) {
	doc, err := driver.Validate("hi $$name$$!")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatNodesDebug(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `[Exp("hi "), DollarExp("name"), Exp("!")]`+"\n" {
		t.Fatalf("debug: %q", buf.String())
	}

	out := BuildDocumentOutput(doc, nil)
	if out.Expressions != 1 || len(out.Nodes) != 3 || out.Nodes[1].Body == nil || out.Nodes[0].Body != nil {
		t.Fatalf("unexpected %+v", out)
	}
	if out.Nodes[1].Body.StartByte != 5 || out.Nodes[1].Body.EndByte != 9 {
		t.Errorf("body span %+v", out.Nodes[1].Body)
	}

	fs := source.NewFileSet()
	fs.AddVirtual("<input>", []byte("hi $$name$$!"))
	buf.Reset()
	if err := FormatNodesPretty(&buf, doc, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `  2: DollarExp  "name" at 1:4-1:12`) {
		t.Fatalf("pretty:\n%s", buf.String())
	}
}
