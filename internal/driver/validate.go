package driver

import (
	"context"
	"fmt"
	"strconv"

	"dollar/internal/ast"
	"dollar/internal/diag"
	"dollar/internal/observ"
	"dollar/internal/parser"
	"dollar/internal/scanner"
	"dollar/internal/source"
	"dollar/internal/trace"
)

// Validate runs the scanner and then the parser over input and returns the
// node sequence or the first error. The error is always a *parser.Error;
// a scan failure is wrapped into it with the scan error kept as Cause.
func Validate(input string) (*ast.Document, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<input>", []byte(input)))
	doc, err := validateFile(context.Background(), file, nil, nil)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ValidateOptions configures ValidateFile.
type ValidateOptions struct {
	MaxDiagnostics int
	NormalizeNFC   bool
}

// ValidateResult is the outcome of validating one file. Err holds the
// validation failure; the error returned by ValidateFile is reserved for
// I/O problems.
type ValidateResult struct {
	FileSet *source.FileSet
	File    *source.File
	Doc     *ast.Document
	Err     error
	Bag     *diag.Bag
	Timing  *observ.Timer
}

// ValidateFile loads path and validates it.
func ValidateFile(ctx context.Context, path string, opts ValidateOptions) (*ValidateResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "validate")
	span.WithExtra("path", path)
	defer span.End("")

	timer := observ.NewTimer()
	fs := source.NewFileSet()
	fs.SetNormalizeNFC(opts.NormalizeNFC)

	idx := timer.Begin("load")
	fileID, err := fs.Load(path)
	timer.End(idx, "")
	if err != nil {
		trace.Error(trace.FromContext(ctx), trace.ScopeDriver, "load", err)
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)
	doc, verr := validateFile(ctx, file, diag.BagReporter{Bag: bag}, timer)
	res := &ValidateResult{
		FileSet: fs,
		File:    file,
		Doc:     doc,
		Bag:     bag,
		Timing:  timer,
	}
	// nil *parser.Error не должен превращаться в не-nil error
	if verr != nil {
		res.Err = verr
	}
	return res, nil
}

// validateFile is the shared scan+parse core. reporter and timer may be nil.
func validateFile(ctx context.Context, file *source.File, reporter diag.Reporter, timer *observ.Timer) (*ast.Document, *parser.Error) {
	if timer == nil {
		timer = observ.NewTimer()
	}

	_, scanSpan := trace.Start(ctx, trace.ScopePass, "scan")
	idx := timer.Begin("scan")
	tokens, err := scanner.Scan(file, scanner.Options{Reporter: reporter})
	timer.End(idx, strconv.Itoa(len(tokens))+" tokens")
	scanSpan.End("")
	if err != nil {
		return nil, parser.FromScanError(err)
	}

	_, parseSpan := trace.Start(ctx, trace.ScopePass, "parse")
	idx = timer.Begin("parse")
	doc, err := parser.Parse(tokens, parser.Options{Reporter: reporter, File: file.ID})
	if err != nil {
		timer.End(idx, "failed")
		parseSpan.End(err.Error())
		return nil, parser.FromScanError(err)
	}
	timer.End(idx, strconv.Itoa(len(doc.Nodes))+" nodes")
	parseSpan.End("")
	return doc, nil
}
