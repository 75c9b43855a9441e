package scanner

import (
	"dollar/internal/diag"
	"dollar/internal/source"
)

// Error is a scan failure. The current lexical rules accept every input, so
// nothing constructs it yet; it exists for lexical extensions such as
// rejecting escape targets.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Diagnostic converts the error into its diagnostic form.
func (e *Error) Diagnostic() diag.Diagnostic {
	code := e.Code
	if code == diag.UnknownCode {
		code = diag.LexScanFailure
	}
	return diag.NewError(code, e.Span, e.Msg)
}
