// Package token defines lexical token kinds for dollar templates.
// Invariants:
//   - Dollar and DollarDollar carry their literal text ("$" and "$$").
//   - Other.Text is escape-resolved: a backslash is dropped and the character
//     after it is kept verbatim. Span still covers the raw bytes.
//   - EOF is produced only by lookahead past the end of a stream; it never
//     appears in a scanned token slice.
package token
