package relational

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=ReferentialAction -linecomment -output=referentialaction_string.go

// ReferentialAction is what the database does to referencing rows when the
// referenced row is deleted or updated.
type ReferentialAction int

const (
	NoAction   ReferentialAction = iota // NO_ACTION
	Cascade                             // CASCADE
	SetNull                             // SET_NULL
	SetDefault                          // SET_DEFAULT
	Restrict                            // RESTRICT
)

// ParseReferentialAction accepts the names produced by String as well as
// lowercase and space separated spellings ("cascade", "no action").
// An empty string is NoAction.
func ParseReferentialAction(s string) (ReferentialAction, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)

	if norm == "" {
		return NoAction, nil
	}

	for a := NoAction; a <= Restrict; a++ {
		if a.String() == norm {
			return a, nil
		}
	}

	return NoAction, fmt.Errorf("unknown referential action %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a ReferentialAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ReferentialAction) UnmarshalText(text []byte) error {
	parsed, err := ParseReferentialAction(string(text))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}
