package descriptor

// Column describes one mapped column, optionally acting as a join column.
type Column struct {
	name                 string
	referencedColumnName string
	nullable             bool
	dataType             string
}

// ColumnOption customizes a Column at construction.
type ColumnOption func(*Column)

// WithReferencedColumn names the column a join column points at.
func WithReferencedColumn(name string) ColumnOption {
	return func(c *Column) { c.referencedColumnName = name }
}

// WithNullable overrides the default (true) nullability.
func WithNullable(nullable bool) ColumnOption {
	return func(c *Column) { c.nullable = nullable }
}

// WithDataType records the SQL type of the column.
func WithDataType(dataType string) ColumnOption {
	return func(c *Column) { c.dataType = dataType }
}

// NewColumn creates a column descriptor. Columns are nullable unless
// WithNullable(false) is given.
func NewColumn(name string, opts ...ColumnOption) *Column {
	c := &Column{name: name, nullable: true}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// ReferencedColumnName returns the referenced column name, or "" if none was declared.
func (c *Column) ReferencedColumnName() string { return c.referencedColumnName }

// Nullable reports the declared nullability.
func (c *Column) Nullable() bool { return c.nullable }

// DataType returns the declared SQL type, or "".
func (c *Column) DataType() string { return c.dataType }
