package keysource

import (
	"relmap/internal/common"
	"relmap/internal/descriptor"
)

// ValueSourceNature tells which concrete kind a RelationalValueSource is.
type ValueSourceNature int

const (
	// NatureColumn is a physical column.
	NatureColumn ValueSourceNature = iota
	// NatureDerived is a formula.
	NatureDerived
)

// String returns a human-readable nature name.
func (n ValueSourceNature) String() string {
	switch n {
	case NatureColumn:
		return "column"
	case NatureDerived:
		return "derived"
	default:
		return common.UnknownStr
	}
}

// RelationalValueSource describes a column or formula holding part of an
// attribute's persisted state.
type RelationalValueSource interface {
	// Nature reports the concrete kind.
	Nature() ValueSourceNature
	// ContainingTableName is the explicit table of the value, or "" for the
	// table implied by the attribute.
	ContainingTableName() string
}

// ColumnSource is a RelationalValueSource backed by a column descriptor.
type ColumnSource struct {
	attribute *descriptor.PluralAssociationAttribute
	tableName string
	column    *descriptor.Column
}

var _ RelationalValueSource = (*ColumnSource)(nil)

// NewColumnSource wraps column as a value source of attribute. tableName may be empty.
func NewColumnSource(
	attribute *descriptor.PluralAssociationAttribute,
	tableName string,
	column *descriptor.Column,
) *ColumnSource {
	return &ColumnSource{attribute: attribute, tableName: tableName, column: column}
}

// Nature implements RelationalValueSource.
func (s *ColumnSource) Nature() ValueSourceNature { return NatureColumn }

// ContainingTableName implements RelationalValueSource.
func (s *ColumnSource) ContainingTableName() string { return s.tableName }

// Name returns the column name.
func (s *ColumnSource) Name() string { return s.column.Name() }

// ReferencedColumnName returns the referenced column name, or "".
func (s *ColumnSource) ReferencedColumnName() string { return s.column.ReferencedColumnName() }

// Nullable reports the declared nullability of the column.
func (s *ColumnSource) Nullable() bool { return s.column.Nullable() }

// DataType returns the declared SQL type, or "".
func (s *ColumnSource) DataType() string { return s.column.DataType() }

// AttributeName returns the name of the owning attribute.
func (s *ColumnSource) AttributeName() string { return s.attribute.Name() }

// Descriptor returns the wrapped column descriptor.
func (s *ColumnSource) Descriptor() *descriptor.Column { return s.column }
