package driver

import (
	"dollar/internal/diag"
	"dollar/internal/scanner"
	"dollar/internal/source"
	"dollar/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and returns its tokens. The token list never ends
// with EOF. Scan failures land in Bag; only I/O errors are returned.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	// ошибки сканера уже лежат в bag через Reporter
	tokens, _ := scanner.Scan(file, scanner.Options{Reporter: diag.BagReporter{Bag: bag}}) //nolint:errcheck

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
