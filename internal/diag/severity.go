package diag

// Severity ranks a diagnostic. Every failure a squiggle run reports is
// SevError.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityLabels = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityLabels) {
		return severityLabels[s]
	}
	return "UNKNOWN"
}

// Fatal reports whether a diagnostic of this severity fails the run.
func (s Severity) Fatal() bool { return s >= SevError }
