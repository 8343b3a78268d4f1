package descriptor

// PluralAssociationAttribute describes a collection-valued association and
// the columns that make up its key.
type PluralAssociationAttribute struct {
	name                   string
	columns                []*Column
	joinColumns            []*Column
	explicitForeignKeyName string
	onDeleteCascade        bool
}

// AttributeOption customizes a PluralAssociationAttribute at construction.
type AttributeOption func(*PluralAssociationAttribute)

// WithColumns sets the attribute's own columns.
func WithColumns(cols ...*Column) AttributeOption {
	return func(a *PluralAssociationAttribute) { a.columns = append([]*Column{}, cols...) }
}

// WithJoinColumns sets the join columns. Order is significant: it is the
// column order of the resulting composite foreign key.
func WithJoinColumns(cols ...*Column) AttributeOption {
	return func(a *PluralAssociationAttribute) { a.joinColumns = append([]*Column{}, cols...) }
}

// WithForeignKeyName sets an explicit foreign key name.
func WithForeignKeyName(name string) AttributeOption {
	return func(a *PluralAssociationAttribute) { a.explicitForeignKeyName = name }
}

// WithOnDeleteCascade sets the delete-cascade flag.
func WithOnDeleteCascade(cascade bool) AttributeOption {
	return func(a *PluralAssociationAttribute) { a.onDeleteCascade = cascade }
}

// NewPluralAssociationAttribute creates an attribute descriptor. Column lists
// default to empty, never nil.
func NewPluralAssociationAttribute(name string, opts ...AttributeOption) *PluralAssociationAttribute {
	a := &PluralAssociationAttribute{
		name:        name,
		columns:     []*Column{},
		joinColumns: []*Column{},
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Name returns the attribute name.
func (a *PluralAssociationAttribute) Name() string { return a.name }

// ColumnValues returns the attribute's own columns. The slice must not be modified.
func (a *PluralAssociationAttribute) ColumnValues() []*Column { return a.columns }

// JoinColumnValues returns the join columns in declaration order. The slice
// must not be modified.
func (a *PluralAssociationAttribute) JoinColumnValues() []*Column { return a.joinColumns }

// ExplicitForeignKeyName returns the declared foreign key name, or "".
func (a *PluralAssociationAttribute) ExplicitForeignKeyName() string { return a.explicitForeignKeyName }

// OnDeleteCascade reports whether deleting the owner cascades to the key rows.
func (a *PluralAssociationAttribute) OnDeleteCascade() bool { return a.onDeleteCascade }
