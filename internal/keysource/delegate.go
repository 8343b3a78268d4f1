package keysource

import (
	"relmap/internal/descriptor"
	"relmap/internal/relational"
)

// JoinColumnResolutionContext is supplied by the binder once the whole schema
// is known.
//
// ResolveColumn looks up the column a join column refers to. Empty table,
// schema and catalog names mean "the table the key points at". Implementations
// decide and document what an empty column name resolves to; an error is
// returned for anything they cannot resolve.
type JoinColumnResolutionContext interface {
	ResolveColumn(columnName, tableName, schemaName, catalogName string) (relational.Value, error)
}

// ResolutionContextFunc adapts a function to JoinColumnResolutionContext.
type ResolutionContextFunc func(columnName, tableName, schemaName, catalogName string) (relational.Value, error)

// ResolveColumn implements JoinColumnResolutionContext.
func (f ResolutionContextFunc) ResolveColumn(columnName, tableName, schemaName, catalogName string) (relational.Value, error) {
	return f(columnName, tableName, schemaName, catalogName)
}

// ResolutionDelegate resolves foreign key target columns against a complete
// schema.
type ResolutionDelegate interface {
	// JoinColumns returns the target values, or nil when there is nothing to
	// resolve.
	JoinColumns(ctx JoinColumnResolutionContext) ([]relational.Value, error)
	// ReferencedAttributeName names the target attribute for delegates that
	// resolve by attribute; "" otherwise.
	ReferencedAttributeName() string
}

// JoinColumnResolutionDelegate resolves targets by referenced column name.
type JoinColumnResolutionDelegate struct {
	attribute *descriptor.PluralAssociationAttribute
}

var _ ResolutionDelegate = (*JoinColumnResolutionDelegate)(nil)

// NewJoinColumnResolutionDelegate binds a delegate to attribute.
func NewJoinColumnResolutionDelegate(attribute *descriptor.PluralAssociationAttribute) *JoinColumnResolutionDelegate {
	return &JoinColumnResolutionDelegate{attribute: attribute}
}

// JoinColumns resolves every join column, including those without a
// referenced name, so the result lines up positionally with the declared
// join columns. It returns nil, nil when the attribute has no join columns.
// The first context error is returned as is.
func (d *JoinColumnResolutionDelegate) JoinColumns(ctx JoinColumnResolutionContext) ([]relational.Value, error) {
	joinColumns := d.attribute.JoinColumnValues()
	if len(joinColumns) == 0 {
		return nil, nil
	}

	values := make([]relational.Value, 0, len(joinColumns))

	for _, col := range joinColumns {
		v, err := ctx.ResolveColumn(col.ReferencedColumnName(), "", "", "")
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}

	return values, nil
}

// ReferencedAttributeName is always "": this delegate works by column name.
func (d *JoinColumnResolutionDelegate) ReferencedAttributeName() string { return "" }
