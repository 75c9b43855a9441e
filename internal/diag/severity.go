package diag

// Severity ranks a diagnostic; a higher value is more serious.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError marks a failure that stops the pipeline.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

// String returns the lowercase label used in every output format.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}
