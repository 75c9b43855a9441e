package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the token stream.
	EOF
	// Dollar is a lone unescaped '$'.
	Dollar // $
	// DollarDollar opens and closes a dollar-expression.
	DollarDollar // $$
	// Other is a run of literal characters.
	Other
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Dollar:       "Dollar",
	DollarDollar: "DollarDollar",
	Other:        "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsEOF reports whether the kind marks the end of the stream.
func (k Kind) IsEOF() bool { return k == EOF }

// IsText reports whether the kind contributes literal text to a segment.
func (k Kind) IsText() bool { return k == Other || k == Dollar }
