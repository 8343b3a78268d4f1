package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relmap/internal/diagnostic"
)

func codes(diags []diagnostic.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}

	return out
}

func mustParse(t *testing.T, yaml string) *MappingFile {
	t.Helper()

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)

	return mf
}

func TestValidate_ValidMapping(t *testing.T) {
	res := Validate(mustParse(t, orderYAML))

	assert.False(t, res.HasErrors(), "unexpected errors: %v", res.Err())
	assert.Empty(t, res.Warnings())
}

func TestValidate_Nil(t *testing.T) {
	res := Validate(nil)
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, "mapping_is_nil", res.Errors()[0].Code)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected []string
	}{
		{
			name: "duplicate entity",
			yaml: `
entities:
  - name: A
  - name: A
    table: other
`,
			expected: []string{"duplicate_entity"},
		},
		{
			name: "duplicate table",
			yaml: `
entities:
  - name: A
    table: t
  - name: B
    table: T
`,
			expected: []string{"duplicate_table"},
		},
		{
			name: "empty entity name",
			yaml: `
entities:
  - table: t
`,
			expected: []string{"empty_entity_name"},
		},
		{
			name: "columns",
			yaml: `
entities:
  - name: A
    columns: [id, ID, {type: int}]
`,
			expected: []string{"duplicate_column", "empty_column_name"},
		},
		{
			name: "keys",
			yaml: `
entities:
  - name: A
    columns: [id, code]
    primary_key: idd
    unique_keys:
      - {name: uk, columns: [cod]}
      - {name: uk_empty}
`,
			expected: []string{"unknown_primary_key_column", "unknown_unique_key_column", "empty_unique_key"},
		},
		{
			name: "collections",
			yaml: `
entities:
  - name: A
    columns: [id]
    primary_key: id
    collections:
      - name: c
        on_delete: explode
      - name: c
      - name: d
        on_delete: set_null
      - columns: [x]
`,
			expected: []string{"invalid_on_delete", "duplicate_collection", "unsupported_on_delete", "empty_collection_name"},
		},
		{
			name: "join column count mismatch",
			yaml: `
entities:
  - name: A
    columns: [id, tenant]
    primary_key: [id, tenant]
    collections:
      - name: c
        join_columns: [a_id]
`,
			expected: []string{"join_column_count_mismatch"},
		},
		{
			name: "column declared twice",
			yaml: `
entities:
  - name: A
    columns: [id]
    primary_key: id
    collections:
      - name: c
        columns: [a_id]
        join_columns: [{name: A_ID, referenced_column: id}]
`,
			expected: []string{"column_is_join_column"},
		},
		{
			name: "formulas",
			yaml: `
entities:
  - name: A
    columns:
      - id
      - {name: code_key, formula: lower(code)}
    primary_key: [id, code_key]
    unique_keys:
      - {name: uk_code, columns: CODE_KEY}
    collections:
      - name: c
        columns: [{name: label, formula: upper(label)}]
        join_columns: [{name: a_id, referenced_column: id}, {name: a_code, referenced_column: code_key}]
`,
			expected: []string{"formula_in_key", "formula_in_key", "formula_in_collection", "formula_referenced"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(mustParse(t, tt.yaml))
			assert.Equal(t, tt.expected, codes(res.Errors()))
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	mf := mustParse(t, `
entities:
  - name: A
    columns: [id, code]
    primary_key: id
    collections:
      - name: c
        join_columns: [{name: a_code, referenced_column: codee}]
      - name: inv
        inverse: true
        join_columns: [x]
  - name: B
    collections:
      - name: d
`)

	res := Validate(mf)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Err())

	warnings := res.Warnings()
	assert.Equal(t, []string{"unknown_referenced_column", "inverse_key_ignored", "implicit_key_without_primary_key"},
		codes(warnings))

	assert.Equal(t, []string{"code"}, warnings[0].Suggestions)
	assert.Equal(t, "c.a_code", warnings[0].Path)
}

func TestValidate_ForwardReferenceToUndeclaredColumns(t *testing.T) {
	// An entity without declared columns is resolved against the database
	// later; its referenced columns are not checked here.
	res := Validate(mustParse(t, `
entities:
  - name: A
    collections:
      - name: c
        join_columns: [{name: a_id, referenced_column: id}]
`))

	assert.False(t, res.HasErrors())
	assert.Empty(t, res.Warnings())
}

func TestValidate_KeyColumnsIgnoreCase(t *testing.T) {
	res := Validate(mustParse(t, `
entities:
  - name: A
    columns: [id, Code]
    primary_key: ID
    unique_keys:
      - {name: uk_code, columns: code}
    collections:
      - name: c
        join_columns: [{name: a_id, referenced_column: Id}]
`))

	assert.False(t, res.HasErrors(), "unexpected errors: %v", res.Err())
	assert.Empty(t, res.Warnings())
}
