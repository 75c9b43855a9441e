package diagfmt

import (
	"fmt"
	"io"

	"dollar/internal/source"
	"dollar/internal/token"
)

type TokenOutput struct {
	Kind string       `json:"kind"`
	Text string       `json:"text,omitempty"`
	Span LocationJSON `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
//
//	  1: Other            "abc " at 1:1-1:5
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		var err error
		if tok.Kind == token.Other {
			_, err = fmt.Fprintf(w, "%3d: %-15s %q at %d:%d-%d:%d\n", i+1, tok.Kind, tok.Text,
				startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		} else {
			_, err = fmt.Fprintf(w, "%3d: %-15s at %d:%d-%d:%d\n", i+1, tok.Kind,
				startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Span: makeLocation(tok.Span, fs, PathModeAuto, true),
		}
		if tok.Kind == token.Other {
			out.Text = tok.Text
		}
		output = append(output, out)
	}
	return writeJSON(w, output)
}
