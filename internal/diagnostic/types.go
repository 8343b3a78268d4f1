package diagnostic

import (
	"fmt"
	"io"
	"strings"
)

// Diagnostic is one problem found in a mapping file or while binding a key.
// Entity and Path locate it: the entity name and the attribute or column
// within it, either of which may be empty.
type Diagnostic struct {
	Severity    Severity `yaml:"severity"`
	Code        string   `yaml:"code"`
	Message     string   `yaml:"message"`
	Entity      string   `yaml:"entity,omitempty"`
	Path        string   `yaml:"path,omitempty"`
	Suggestions []string `yaml:"suggestions,omitempty"`
}

// WithSuggestions returns a copy of d listing candidate names the user may
// have meant. Empty candidates leave d unchanged.
func (d Diagnostic) WithSuggestions(names ...string) Diagnostic {
	if len(names) == 0 {
		return d
	}

	d.Suggestions = append(append([]string(nil), d.Suggestions...), names...)

	return d
}

// String renders "[Entity] path: [code] message (try: a, b)".
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Entity != "" {
		b.WriteString("[" + d.Entity + "]")
	}

	if d.Path != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(d.Path)
	}

	if b.Len() > 0 {
		b.WriteString(": ")
	}

	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (try: " + strings.Join(d.Suggestions, ", ") + ")")
	}

	return b.String()
}

// Diagnostics collects diagnostics in the order they were reported.
// The zero value is ready to use.
type Diagnostics struct {
	items []Diagnostic
}

// Report appends d.
func (ds *Diagnostics) Report(d Diagnostic) {
	ds.items = append(ds.items, d)
}

// Errorf reports an error located at entity and path.
func (ds *Diagnostics) Errorf(code, entity, path, format string, args ...any) {
	ds.report(SeverityError, code, entity, path, format, args)
}

// Warnf reports a warning located at entity and path.
func (ds *Diagnostics) Warnf(code, entity, path, format string, args ...any) {
	ds.report(SeverityWarning, code, entity, path, format, args)
}

// Infof reports an informational note located at entity and path.
func (ds *Diagnostics) Infof(code, entity, path, format string, args ...any) {
	ds.report(SeverityInfo, code, entity, path, format, args)
}

func (ds *Diagnostics) report(sev Severity, code, entity, path, format string, args []any) {
	ds.Report(Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Entity:   entity,
		Path:     path,
	})
}

// All returns every diagnostic in report order.
func (ds *Diagnostics) All() []Diagnostic {
	return append([]Diagnostic(nil), ds.items...)
}

func (ds *Diagnostics) Errors() []Diagnostic   { return ds.filter(SeverityError) }
func (ds *Diagnostics) Warnings() []Diagnostic { return ds.filter(SeverityWarning) }
func (ds *Diagnostics) Infos() []Diagnostic    { return ds.filter(SeverityInfo) }

func (ds *Diagnostics) filter(sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, d := range ds.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}

	return out
}

// HasErrors reports whether any error was reported.
func (ds *Diagnostics) HasErrors() bool {
	for _, d := range ds.items {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Err returns the reported errors as a *ReportError, or nil if there are none.
func (ds *Diagnostics) Err() error {
	errs := ds.Errors()
	if len(errs) == 0 {
		return nil
	}

	return &ReportError{Diagnostics: errs}
}

// WriteTo prints one "severity: diagnostic" line per entry in report order.
func (ds *Diagnostics) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, d := range ds.items {
		n, err := fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// ReportError is the error form of the error diagnostics of a report.
type ReportError struct {
	Diagnostics []Diagnostic
}

func (e *ReportError) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}

	noun := "errors"
	if len(parts) == 1 {
		noun = "error"
	}

	return fmt.Sprintf("%d %s: %s", len(parts), noun, strings.Join(parts, "; "))
}
