package ast

import (
	"fmt"

	"dollar/internal/source"
)

// Kind is the category of a parsed segment.
type Kind uint8

const (
	// EOF terminates the parse loop.
	EOF Kind = iota
	// Exp is a literal text segment outside any dollar-expression.
	Exp
	// DollarExp is the literal content between an opening and closing `$$`.
	DollarExp
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Exp:
		return "Exp"
	case DollarExp:
		return "DollarExp"
	default:
		return "Kind(?)"
	}
}

// Node is one segment of a template.
// For DollarExp, Span covers both markers and Body covers only the text
// between them.
type Node struct {
	Kind Kind
	Text string
	Span source.Span
	Body source.Span
}

// String renders the node in debug form: Exp("text"), DollarExp("text"), EOF.
func (n Node) String() string {
	if n.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", n.Kind, n.Text)
}
