package mapping

import (
	"fmt"
	"strings"

	"relmap/internal/common"
	"relmap/internal/descriptor"
	"relmap/internal/relational"
)

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Schema is the default schema of entities that do not name one.
	Schema string `yaml:"schema,omitempty"`

	// Entities lists the mapped entities in declaration order.
	Entities []Entity `yaml:"entities"`
}

// Entity maps one object type onto a table.
type Entity struct {
	// Name is the entity name (e.g., "Order").
	Name string `yaml:"name"`

	// Table is the primary table name. Defaults to snake_case(Name).
	Table string `yaml:"table,omitempty"`

	// Schema overrides the file-level schema.
	Schema string `yaml:"schema,omitempty"`

	// Columns are the columns of the primary table.
	Columns ColumnDefArray `yaml:"columns,omitempty"`

	// PrimaryKey lists the primary key columns in key order.
	PrimaryKey StringOrArray `yaml:"primary_key,omitempty"`

	// UniqueKeys lists additional unique constraints.
	UniqueKeys []UniqueKeyDef `yaml:"unique_keys,omitempty"`

	// Collections are the plural associations owned by the entity.
	Collections []Collection `yaml:"collections,omitempty"`
}

// QualifiedTable returns the schema-qualified primary table name.
func (e *Entity) QualifiedTable() string {
	return common.QualifiedName(e.Schema, e.Table)
}

// ColumnNames returns the declared column names in order.
func (e *Entity) ColumnNames() []string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = c.Name
	}

	return names
}

// FindColumn returns the column with the given name or nil. Names compare
// case-insensitively, as unquoted SQL identifiers do.
func (e *Entity) FindColumn(name string) *ColumnDef {
	for i := range e.Columns {
		if strings.EqualFold(e.Columns[i].Name, name) {
			return &e.Columns[i]
		}
	}

	return nil
}

// ColumnDef declares a column. As a join column, ReferencedColumn names the
// column of the owner's table it points at.
type ColumnDef struct {
	// Name is the column name.
	Name string `yaml:"name"`

	// Type is the SQL type name.
	Type string `yaml:"type,omitempty"`

	// Nullable defaults to true when omitted.
	Nullable *bool `yaml:"nullable,omitempty"`

	// Unique marks a single-column unique constraint.
	Unique bool `yaml:"unique,omitempty"`

	// ReferencedColumn is the target column of a join column.
	ReferencedColumn string `yaml:"referenced_column,omitempty"`

	// Formula makes an entity column a read-only SQL expression instead of a
	// stored column. Formulas cannot take part in keys.
	Formula string `yaml:"formula,omitempty"`
}

// IsFormula reports whether the definition is a formula.
func (c *ColumnDef) IsFormula() bool {
	return c.Formula != ""
}

// IsNullable returns the declared nullability, true when unset.
func (c *ColumnDef) IsNullable() bool {
	return c.Nullable == nil || *c.Nullable
}

// Descriptor converts the definition into an immutable column descriptor.
func (c *ColumnDef) Descriptor() *descriptor.Column {
	return descriptor.NewColumn(c.Name,
		descriptor.WithReferencedColumn(c.ReferencedColumn),
		descriptor.WithNullable(c.IsNullable()),
		descriptor.WithDataType(c.Type),
	)
}

// UniqueKeyDef declares a unique constraint.
type UniqueKeyDef struct {
	// Name of the constraint; generated when empty.
	Name string `yaml:"name,omitempty"`

	// Columns in key order.
	Columns StringOrArray `yaml:"columns"`
}

// Collection declares a plural association.
type Collection struct {
	// Name is the attribute name (e.g., "items").
	Name string `yaml:"name"`

	// CollectionTable holds the key columns. Defaults to <owner table>_<name>.
	CollectionTable string `yaml:"collection_table,omitempty"`

	// Columns are the attribute's own stored columns.
	Columns ColumnDefArray `yaml:"columns,omitempty"`

	// JoinColumns make up the foreign key, in key order.
	JoinColumns ColumnDefArray `yaml:"join_columns,omitempty"`

	// ForeignKey is an explicit constraint name.
	ForeignKey string `yaml:"foreign_key,omitempty"`

	// OnDelete is "cascade" or "no_action" (default).
	OnDelete string `yaml:"on_delete,omitempty"`

	// Inverse marks the mapped-by side, which owns no key.
	Inverse bool `yaml:"inverse,omitempty"`
}

// TableRef splits CollectionTable into schema and table name. An unqualified
// name lives in the owner's schema.
func (c *Collection) TableRef(owner *Entity) (schema, table string) {
	if before, after, ok := strings.Cut(c.CollectionTable, "."); ok {
		return before, after
	}

	return owner.Schema, c.CollectionTable
}

// OnDeleteAction parses OnDelete.
func (c *Collection) OnDeleteAction() (relational.ReferentialAction, error) {
	return relational.ParseReferentialAction(c.OnDelete)
}

// Descriptor converts the collection into an immutable attribute descriptor.
// Only cascade and no_action are valid delete actions for a collection key.
func (c *Collection) Descriptor() (*descriptor.PluralAssociationAttribute, error) {
	action, err := c.OnDeleteAction()
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", c.Name, err)
	}

	if action != relational.NoAction && action != relational.Cascade {
		return nil, fmt.Errorf("collection %q: on_delete %s is not supported for collection keys", c.Name, action)
	}

	return descriptor.NewPluralAssociationAttribute(c.Name,
		descriptor.WithColumns(c.Columns.Descriptors()...),
		descriptor.WithJoinColumns(c.JoinColumns.Descriptors()...),
		descriptor.WithForeignKeyName(c.ForeignKey),
		descriptor.WithOnDeleteCascade(action == relational.Cascade),
	), nil
}

// StringOrArray is a list of strings that can be written as a single string
// or as an array in YAML.
type StringOrArray []string

// ColumnDefArray is a list of columns that accepts the forms:
//   - Single name: "order_id"
//   - Single map: {name: order_id, referenced_column: id}
//   - Array mixing both: [order_id, {name: line_no, nullable: false}]
type ColumnDefArray []ColumnDef

// Names returns the column names in order.
func (a ColumnDefArray) Names() []string {
	names := make([]string, len(a))
	for i, c := range a {
		names[i] = c.Name
	}

	return names
}

// Descriptors converts every column to a descriptor, preserving order.
func (a ColumnDefArray) Descriptors() []*descriptor.Column {
	out := make([]*descriptor.Column, len(a))
	for i := range a {
		out[i] = a[i].Descriptor()
	}

	return out
}
