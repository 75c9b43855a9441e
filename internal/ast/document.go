package ast

import (
	"strings"

	"dollar/internal/source"
)

// Document is the result of a successful parse.
type Document struct {
	File  source.FileID
	Nodes []Node
}

// String renders the node list in debug form, e.g. [Exp("a"), DollarExp("b")].
func (d *Document) String() string {
	if d == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := range d.Nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Expressions returns the text of every DollarExp in order.
func (d *Document) Expressions() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.Kind == DollarExp {
			out = append(out, n.Text)
		}
	}
	return out
}
