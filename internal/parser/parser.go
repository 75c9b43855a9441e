// Package parser validates a token stream and groups it into template
// segments. Every `$$` must be closed by another `$$`; a lone `$` is plain
// text.
package parser

import (
	"strings"

	"dollar/internal/ast"
	"dollar/internal/diag"
	"dollar/internal/source"
	"dollar/internal/token"
)

// Parser holds the state for one token stream.
type Parser struct {
	tokens []token.Token
	index  int
	opts   Options
}

// Parse builds the document for tokens. It stops at the first structural
// error and returns only that error, never a partial document.
// tokens must not contain EOF; the slice is owned by the parser afterwards.
func Parse(tokens []token.Token, opts Options) (*ast.Document, error) {
	p := Parser{tokens: tokens, opts: opts}
	return p.parse()
}

// parse: основной цикл: пока не EOF, разбираем узел и кладём в документ.
func (p *Parser) parse() (*ast.Document, error) {
	doc := &ast.Document{File: p.opts.File, Nodes: make([]ast.Node, 0, len(p.tokens)/2+1)}
	for {
		node, err := p.parseNode()
		if err != nil {
			diag.Emit(p.opts.Reporter, err.Diagnostic())
			return nil, err
		}
		if node.Kind == ast.EOF {
			return doc, nil
		}
		doc.Nodes = append(doc.Nodes, node)
	}
}

// parseNode выбирает правило по одному токену предпросмотра.
func (p *Parser) parseNode() (ast.Node, *Error) {
	switch tok := p.peek(0); tok.Kind {
	case token.EOF:
		return ast.Node{Kind: ast.EOF, Span: tok.Span}, nil
	case token.DollarDollar:
		return p.parseDollarExp()
	case token.Other, token.Dollar:
		return p.parseText(), nil
	default:
		return ast.Node{}, p.errorAt(diag.SynUnexpectedToken, tok.Span, "unexpected "+tok.Kind.String()+" token", source.Span{})
	}
}

// parseText merges consecutive Other/Dollar tokens into one Exp.
// It stops at `$$` or EOF and may return an empty Exp when it starts there.
func (p *Parser) parseText() ast.Node {
	var sb strings.Builder
	// пустой сегмент: пустой спан в начале следующего токена
	first := p.peek(0).Span
	span := source.Span{File: first.File, Start: first.Start, End: first.Start}
	for p.peek(0).Kind.IsText() {
		tok := p.read()
		sb.WriteString(tok.Literal())
		span = span.Cover(tok.Span)
	}
	return ast.Node{Kind: ast.Exp, Text: sb.String(), Span: span}
}

// parseDollarExp разбирает `$$ body $$`.
func (p *Parser) parseDollarExp() (ast.Node, *Error) {
	open, ok := p.expect(token.DollarDollar)
	if !ok {
		return ast.Node{}, p.errorAt(diag.SynUnclosedDollarExp, p.peek(0).Span, "expected $$", source.Span{})
	}

	body := p.parseText()
	if body.Kind != ast.Exp {
		return ast.Node{}, p.errorAt(diag.SynExpectExpression, p.peek(0).Span, "expected expression", open.Span)
	}

	closer, ok := p.expect(token.DollarDollar)
	if !ok {
		return ast.Node{}, p.errorAt(diag.SynUnclosedDollarExp, p.peek(0).Span, "expected $$", open.Span)
	}

	return ast.Node{
		Kind: ast.DollarExp,
		Text: body.Text,
		Span: open.Span.Cover(closer.Span),
		Body: body.Span,
	}, nil
}

// expect съедает токен вида k, если он следующий.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.peek(0).Kind != k {
		return token.Token{}, false
	}
	return p.read(), true
}

// errorAt builds a structural error; a non-empty opener adds a note
// pointing at the `$$` that started the expression.
func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string, opener source.Span) *Error {
	err := &Error{Code: code, Span: sp, Msg: msg}
	if !opener.Empty() {
		err.Notes = []diag.Note{{Span: opener, Msg: "dollar-expression opened here"}}
	}
	return err
}

func (p *Parser) read() token.Token {
	tok := p.peek(0)
	if tok.Kind != token.EOF {
		p.index++
	}
	return tok
}

// peek возвращает токен на n позиций вперёд; за концом: виртуальный EOF
// сразу после последнего токена.
func (p *Parser) peek(n int) token.Token {
	if i := p.index + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return token.Token{Kind: token.EOF, Span: p.endSpan()}
}

func (p *Parser) endSpan() source.Span {
	if len(p.tokens) == 0 {
		return source.Span{File: p.opts.File}
	}
	return p.tokens[len(p.tokens)-1].Span.At()
}
