// Package ast holds the parsed form of a dollar template: a flat, ordered
// list of segments. Exp nodes are literal text, DollarExp nodes are the text
// found between a matching pair of `$$` markers. EOF is only a terminal
// marker inside the parser and never stored in a Document.
package ast
