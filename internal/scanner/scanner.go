// Package scanner turns template text into tokens: lone `$`, the `$$`
// marker, and runs of literal text with backslash escapes resolved.
package scanner

import (
	"errors"
	"strings"

	"dollar/internal/diag"
	"dollar/internal/source"
	"dollar/internal/token"
)

type Scanner struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

func New(file *source.File, opts Options) *Scanner {
	return &Scanner{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Scan tokenizes the whole file. The returned slice never contains EOF.
// On failure it returns the first error and no tokens.
func Scan(file *source.File, opts Options) ([]token.Token, error) {
	sc := New(file, opts)
	var tokens []token.Token
	for {
		tok, err := sc.Next()
		if err != nil {
			sc.report(err)
			return nil, err
		}
		if tok.Kind == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next возвращает следующий токен. После конца входа всегда возвращает EOF.
func (sc *Scanner) Next() (token.Token, error) {
	if sc.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: sc.emptySpan()}, nil
	}
	if sc.cursor.Peek() != '$' {
		return sc.scanOther(), nil
	}
	start := sc.cursor.Mark()
	// "$$" распознаётся жадно, без отката
	if sc.cursor.PeekN(1) == '$' {
		sc.cursor.Read()
		sc.cursor.Read()
		return token.Token{Kind: token.DollarDollar, Span: sc.cursor.SpanFrom(start), Text: "$$"}, nil
	}
	sc.cursor.Read()
	return token.Token{Kind: token.Dollar, Span: sc.cursor.SpanFrom(start), Text: "$"}, nil
}

// scanOther reads literal text up to the next unescaped '$' or end of input.
// A backslash is dropped and the character after it is taken verbatim,
// whatever it is. A backslash at the very end escapes the end-of-input
// sentinel and contributes a NUL character.
func (sc *Scanner) scanOther() token.Token {
	start := sc.cursor.Mark()
	var sb strings.Builder
	for {
		switch sc.cursor.Peek() {
		case EOFRune, '$':
			return token.Token{Kind: token.Other, Span: sc.cursor.SpanFrom(start), Text: sb.String()}
		case '\\':
			sc.cursor.Read()
			if sc.cursor.EOF() {
				sb.WriteByte(0)
				continue
			}
			m := sc.cursor.Mark()
			sc.cursor.Read()
			sb.Write(sc.cursor.BytesFrom(m))
		default:
			m := sc.cursor.Mark()
			sc.cursor.Read()
			sb.Write(sc.cursor.BytesFrom(m))
		}
	}
}

func (sc *Scanner) report(err error) {
	var se *Error
	if errors.As(err, &se) {
		diag.Emit(sc.opts.Reporter, se.Diagnostic())
	}
}

func (sc *Scanner) emptySpan() source.Span {
	return source.Span{File: sc.file.ID, Start: sc.cursor.Off, End: sc.cursor.Off}
}
