package diagnostic

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_ReportOrder(t *testing.T) {
	var ds Diagnostics

	assert.False(t, ds.HasErrors())
	require.NoError(t, ds.Err())

	ds.Infof("implicit_target", "Order", "items", "targets primary key of %s", "orders")
	ds.Warnf("unknown_referenced_column", "Order", "items.order_id", "column %q not declared", "oid")
	ds.Errorf("arity_mismatch", "Order", "items", "%d source columns, %d target column", 2, 1)

	require.True(t, ds.HasErrors())

	all := ds.All()
	require.Len(t, all, 3)
	assert.Equal(t, []Severity{SeverityInfo, SeverityWarning, SeverityError},
		[]Severity{all[0].Severity, all[1].Severity, all[2].Severity})
	assert.Equal(t, "targets primary key of orders", all[0].Message)

	assert.Len(t, ds.Errors(), 1)
	assert.Len(t, ds.Warnings(), 1)
	assert.Len(t, ds.Infos(), 1)
}

func TestDiagnostics_AllIsACopy(t *testing.T) {
	var ds Diagnostics
	ds.Errorf("x", "", "", "first")

	all := ds.All()
	all[0].Code = "changed"

	assert.Equal(t, "x", ds.All()[0].Code)
}

func TestDiagnostics_Err(t *testing.T) {
	var ds Diagnostics
	ds.Warnf("w", "", "", "only a warning")

	require.NoError(t, ds.Err())

	ds.Errorf("x", "", "", "first")
	assert.EqualError(t, ds.Err(), "1 error: [x] first")

	ds.Errorf("y", "Order", "", "second")

	err := ds.Err()
	assert.EqualError(t, err, "2 errors: [x] first; [Order]: [y] second")

	var re *ReportError
	require.True(t, errors.As(err, &re))
	assert.Len(t, re.Diagnostics, 2)
}

func TestDiagnostics_WriteTo(t *testing.T) {
	var ds Diagnostics
	ds.Warnf("w", "Order", "items", "careful")
	ds.Errorf("e", "", "", "broken")

	var buf bytes.Buffer

	n, err := ds.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "warning: [Order] items: [w] careful\nerror: [e] broken\n", buf.String())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Code:    "unknown_column",
		Message: "column \"idd\" not found",
		Path:    "orders",
	}.WithSuggestions("id")

	assert.Equal(t, "orders: [unknown_column] column \"idd\" not found (try: id)", d.String())
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
	assert.Equal(t, d, d.WithSuggestions())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "Severity(9)", Severity(9).String())

	text, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(text))

	var sev Severity
	require.NoError(t, sev.UnmarshalText([]byte("error")))
	assert.Equal(t, SeverityError, sev)
	require.Error(t, sev.UnmarshalText([]byte("fatal")))
}
