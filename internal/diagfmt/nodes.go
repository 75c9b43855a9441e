package diagfmt

import (
	"fmt"
	"io"

	"dollar/internal/ast"
	"dollar/internal/source"
)

type NodeOutput struct {
	Kind string        `json:"kind"`
	Text string        `json:"text"`
	Span LocationJSON  `json:"span"`
	Body *LocationJSON `json:"body,omitempty"`
}

// DocumentOutput is the JSON form of a parsed document.
type DocumentOutput struct {
	File        string       `json:"file"`
	Nodes       []NodeOutput `json:"nodes"`
	Expressions int          `json:"expressions"`
}

// BuildDocumentOutput converts doc without serializing it.
func BuildDocumentOutput(doc *ast.Document, fs *source.FileSet) DocumentOutput {
	out := DocumentOutput{Nodes: make([]NodeOutput, 0, len(doc.Nodes))}
	if fs != nil && fs.Get(doc.File) != nil {
		out.File = fs.DisplayPath(doc.File)
	}
	for _, n := range doc.Nodes {
		no := NodeOutput{
			Kind: n.Kind.String(),
			Text: n.Text,
			Span: makeLocation(n.Span, fs, PathModeAuto, true),
		}
		if n.Kind == ast.DollarExp {
			body := makeLocation(n.Body, fs, PathModeAuto, true)
			no.Body = &body
			out.Expressions++
		}
		out.Nodes = append(out.Nodes, no)
	}
	return out
}

// FormatNodesJSON writes doc as JSON.
func FormatNodesJSON(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	return writeJSON(w, BuildDocumentOutput(doc, fs))
}

// FormatNodesPretty prints one node per line with its position.
func FormatNodesPretty(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	for i, n := range doc.Nodes {
		start, end := fs.Resolve(n.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-10s %q at %d:%d-%d:%d\n", i+1, n.Kind, n.Text,
			start.Line, start.Col, end.Line, end.Col); err != nil {
			return err
		}
	}
	return nil
}

// FormatNodesDebug prints the node sequence on one line, e.g.
// [Exp("a"), DollarExp("b")].
func FormatNodesDebug(w io.Writer, doc *ast.Document) error {
	_, err := fmt.Fprintln(w, doc.String())
	return err
}
