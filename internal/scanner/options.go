package scanner

import "dollar/internal/diag"

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки только возвращаются
}
