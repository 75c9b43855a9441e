package parser

import (
	"dollar/internal/diag"
	"dollar/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
	File     source.FileID // файл, которому принадлежат токены; нужен для пустого входа
}
