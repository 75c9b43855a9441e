package parser

import (
	"errors"

	"dollar/internal/diag"
	"dollar/internal/scanner"
	"dollar/internal/source"
)

// Error is a structural failure. Cause is set when the error wraps a failure
// from an earlier stage (see FromScanError).
type Error struct {
	Code  diag.Code
	Span  source.Span
	Msg   string
	Notes []diag.Note
	Cause error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Diagnostic converts the error into its diagnostic form.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	for _, n := range e.Notes {
		d = d.WithNote(n.Span, n.Msg)
	}
	return d
}

// FromScanError lifts a scan failure into the parse error taxonomy.
// Message, code and span are kept and the original error stays reachable
// through errors.As. Other errors are wrapped as an unknown-code failure.
func FromScanError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	var se *scanner.Error
	if errors.As(err, &se) {
		return &Error{Code: se.Diagnostic().Code, Span: se.Span, Msg: se.Msg, Cause: err}
	}
	return &Error{Code: diag.UnknownCode, Msg: err.Error(), Cause: err}
}
