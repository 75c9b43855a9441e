package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo        Code = 1000
	LexScanFailure Code = 1001 // зарезервировано, сканер пока не падает

	// Структурные
	SynInfo              Code = 2000
	SynExpectExpression  Code = 2001
	SynUnclosedDollarExp Code = 2002
	SynUnexpectedToken   Code = 2003

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001

	// Конфигурация
	CfgInfo    Code = 5000
	CfgInvalid Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	LexInfo:              "Lexical information",
	LexScanFailure:       "Scan failure",
	SynInfo:              "Syntax information",
	SynExpectExpression:  "Expected expression",
	SynUnclosedDollarExp: "Unclosed dollar-expression",
	SynUnexpectedToken:   "Unexpected token",
	IOInfo:               "I/O information",
	IOLoadFileError:      "I/O load file error",
	CfgInfo:              "Configuration information",
	CfgInvalid:           "Invalid configuration",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
