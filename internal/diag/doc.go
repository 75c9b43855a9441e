// Package diag defines the diagnostic model shared by the scanner, the parser
// and the driver.
//
// A Diagnostic carries a Severity, a compact Code (see codes.go), a short
// message, the primary source.Span and optional Notes pointing at related
// spans (for example the `$$` that opened an unterminated expression).
//
// Phases emit through a Reporter and never format anything themselves.
// BagReporter collects into a Bag, which the driver sorts and hands to
// internal/diagfmt for rendering. FormatShortDiagnostics gives a stable
// one-line-per-entry form used by `dollar check --format short` and tests.
package diag
