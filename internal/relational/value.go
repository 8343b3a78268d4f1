package relational

import (
	"fmt"

	"relmap/internal/common"
)

// ValueType discriminates the concrete kinds of Value.
type ValueType int

const (
	// ValueTypeColumn is a physical column.
	ValueTypeColumn ValueType = iota
	// ValueTypeDerived is a read-only formula.
	ValueTypeDerived
)

// String returns a human-readable value type name.
func (v ValueType) String() string {
	switch v {
	case ValueTypeColumn:
		return "column"
	case ValueTypeDerived:
		return "derived"
	default:
		return common.UnknownStr
	}
}

// Value is a column or formula that belongs to a table.
type Value interface {
	// ValueType reports the concrete kind.
	ValueType() ValueType
	// Table returns the table the value belongs to.
	Table() *Table
	// Text returns the column name or formula expression.
	Text() string
}

// Column is a physical column of a table.
type Column struct {
	table *Table

	// Name is the column name as declared.
	Name string
	// DataType is the SQL type name, if known.
	DataType string
	// Nullable reports whether the column accepts NULL.
	Nullable bool
	// Unique reports whether the column carries a single-column unique constraint.
	Unique bool
	// Position is the 1-based ordinal position within the table.
	Position int
}

var _ Value = (*Column)(nil)

// ValueType implements Value.
func (c *Column) ValueType() ValueType { return ValueTypeColumn }

// Table implements Value.
func (c *Column) Table() *Table { return c.table }

// Text implements Value.
func (c *Column) Text() string { return c.Name }

// String returns the table-qualified column name.
func (c *Column) String() string {
	if c.table == nil {
		return c.Name
	}

	return c.table.QualifiedName() + "." + c.Name
}

// DerivedValue is a named formula evaluated against a table. It can be read
// like a column but is not stored, so no key can reference it.
type DerivedValue struct {
	table *Table

	// Name is how mappings refer to the formula.
	Name string
	// Expression is the SQL fragment.
	Expression string
}

var _ Value = (*DerivedValue)(nil)

// ValueType implements Value.
func (d *DerivedValue) ValueType() ValueType { return ValueTypeDerived }

// Table implements Value.
func (d *DerivedValue) Table() *Table { return d.table }

// Text implements Value.
func (d *DerivedValue) Text() string { return d.Expression }

// String returns the table-qualified name followed by the expression.
func (d *DerivedValue) String() string {
	return fmt.Sprintf("%s.%s(%s)", d.table.QualifiedName(), d.Name, d.Expression)
}
