package diagnostic

import "fmt"

//go:generate go tool stringer -type=Severity -linecomment -output=severity_string.go

// Severity ranks a diagnostic. Only SeverityError fails validation or binding.
type Severity int

const (
	SeverityInfo    Severity = iota // info
	SeverityWarning                 // warning
	SeverityError                   // error
)

// MarshalText renders the severity by name in YAML and JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by String.
func (s *Severity) UnmarshalText(text []byte) error {
	for sev := SeverityInfo; sev <= SeverityError; sev++ {
		if sev.String() == string(text) {
			*s = sev
			return nil
		}
	}

	return fmt.Errorf("unknown severity %q", text)
}
