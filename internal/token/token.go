package token

import (
	"fmt"

	"dollar/internal/source"
)

// Token represents a single template token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// Literal returns the text the token contributes to a plain-text segment.
func (t Token) Literal() string {
	switch t.Kind {
	case Dollar:
		return "$"
	case Other:
		return t.Text
	default:
		return ""
	}
}

// String renders the token the way debug output lists it: Other("text"), Dollar, ...
func (t Token) String() string {
	if t.Kind == Other {
		return fmt.Sprintf("Other(%q)", t.Text)
	}
	return t.Kind.String()
}
