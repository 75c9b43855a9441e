// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"dollar/internal/ast"
	"dollar/internal/source"
	"dollar/internal/token"
)

// CheckTokenInvariants verifies a scanner result for sf:
// 1) no EOF and no Invalid tokens
// 2) spans are non-empty, belong to sf and tile the content without gaps
// 3) Dollar/DollarDollar cover exactly "$"/"$$"; Other never ends before an
// unescaped '$' that it could have consumed
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var off uint32
	for i, tok := range tokens {
		sp := tok.Span
		switch tok.Kind {
		case token.EOF, token.Invalid:
			return fmt.Errorf("token %d: unexpected kind %s", i, tok.Kind)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file %d, want %d", i, sp.File, sf.ID)
		}
		if sp.Start != off {
			return fmt.Errorf("token %d: gap or overlap at %d (span %v)", i, off, sp)
		}
		if sp.End <= sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d: bad span %v", i, sp)
		}
		raw := string(sf.Content[sp.Start:sp.End])
		switch tok.Kind {
		case token.Dollar:
			if raw != "$" {
				return fmt.Errorf("token %d: Dollar covers %q", i, raw)
			}
			if sp.End < lenContent && sf.Content[sp.End] == '$' {
				return fmt.Errorf("token %d: Dollar followed by '$'", i)
			}
		case token.DollarDollar:
			if raw != "$$" {
				return fmt.Errorf("token %d: DollarDollar covers %q", i, raw)
			}
		case token.Other:
			if sp.End < lenContent && sf.Content[sp.End] != '$' {
				return fmt.Errorf("token %d: Other stops at %q", i, sf.Content[sp.End])
			}
		}
		off = sp.End
	}
	if off != lenContent {
		return fmt.Errorf("tokens end at %d, content has %d bytes", off, lenContent)
	}
	return nil
}

// CheckDocumentInvariants verifies a parse result for sf:
// 1) node spans are non-empty, ordered and contiguous over the content
// 2) no two Exp nodes are adjacent
// 3) every DollarExp span is its body plus one "$$" marker on each side
func CheckDocumentInvariants(doc *ast.Document, sf *source.File) error {
	if doc == nil || sf == nil {
		return fmt.Errorf("nil document or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var off uint32
	prev := ast.EOF
	for i, n := range doc.Nodes {
		sp := n.Span
		if sp.File != sf.ID || sp.Start != off || sp.End <= sp.Start || sp.End > lenContent {
			return fmt.Errorf("node %d: bad span %v at offset %d", i, sp, off)
		}
		switch n.Kind {
		case ast.Exp:
			if prev == ast.Exp {
				return fmt.Errorf("node %d: adjacent Exp nodes", i)
			}
		case ast.DollarExp:
			if n.Body.Start != sp.Start+2 || n.Body.End+2 != sp.End {
				return fmt.Errorf("node %d: body %v does not sit inside %v", i, n.Body, sp)
			}
			if string(sf.Content[sp.Start:n.Body.Start]) != "$$" || string(sf.Content[n.Body.End:sp.End]) != "$$" {
				return fmt.Errorf("node %d: markers missing around body", i)
			}
		default:
			return fmt.Errorf("node %d: unexpected kind %s", i, n.Kind)
		}
		prev = n.Kind
		off = sp.End
	}
	if off != lenContent {
		return fmt.Errorf("nodes end at %d, content has %d bytes", off, lenContent)
	}
	return nil
}
