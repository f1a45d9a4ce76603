package diag

import "strings"

// Severity упорядочена: Info < Warning < Error, Bag.Sort и HasErrors на это опираются.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Level is the lowercase name shared by the plugin wire format and SARIF:
// "error", "warning" or "note".
func (s Severity) Level() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "note"
}

// ParseSeverity понимает как String(), так и Level() написание.
func ParseSeverity(name string) (Severity, bool) {
	switch strings.ToLower(name) {
	case "error":
		return SevError, true
	case "warning", "warn":
		return SevWarning, true
	case "info", "note":
		return SevInfo, true
	}
	return SevInfo, false
}
