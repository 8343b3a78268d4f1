package keysource

import (
	"relmap/internal/descriptor"
	"relmap/internal/relational"
)

// PluralAttributeKeySource exposes the foreign key information of one plural
// association attribute. It is immutable once created.
type PluralAttributeKeySource struct {
	attribute    *descriptor.PluralAssociationAttribute
	deleteAction relational.ReferentialAction
}

// NewPluralAttributeKeySource creates the key source for attribute.
func NewPluralAttributeKeySource(attribute *descriptor.PluralAssociationAttribute) *PluralAttributeKeySource {
	deleteAction := relational.NoAction
	if attribute.OnDeleteCascade() {
		deleteAction = relational.Cascade
	}

	return &PluralAttributeKeySource{
		attribute:    attribute,
		deleteAction: deleteAction,
	}
}

// Attribute returns the underlying descriptor.
func (k *PluralAttributeKeySource) Attribute() *descriptor.PluralAssociationAttribute {
	return k.attribute
}

// ValueSources returns one source per column the attribute itself stores.
// An inverse (mapped-by) attribute stores none and gets an empty slice.
func (k *PluralAttributeKeySource) ValueSources() []RelationalValueSource {
	sources := make([]RelationalValueSource, 0, len(k.attribute.ColumnValues()))
	for _, col := range k.attribute.ColumnValues() {
		sources = append(sources, NewColumnSource(k.attribute, "", col))
	}

	return sources
}

// RelationalValueSources returns one source per join column, in declaration
// order. It never returns nil.
func (k *PluralAttributeKeySource) RelationalValueSources() []RelationalValueSource {
	joinColumns := k.attribute.JoinColumnValues()
	if len(joinColumns) == 0 {
		return []RelationalValueSource{}
	}

	sources := make([]RelationalValueSource, 0, len(joinColumns))
	for _, col := range joinColumns {
		sources = append(sources, NewColumnSource(k.attribute, "", col))
	}

	return sources
}

// OnDeleteAction is Cascade when the attribute requests delete cascading and
// NoAction otherwise.
func (k *PluralAttributeKeySource) OnDeleteAction() relational.ReferentialAction {
	return k.deleteAction
}

// AreValuesIncludedInInsertByDefault is always true for plural keys.
func (k *PluralAttributeKeySource) AreValuesIncludedInInsertByDefault() bool { return true }

// AreValuesIncludedInUpdateByDefault is always true for plural keys.
func (k *PluralAttributeKeySource) AreValuesIncludedInUpdateByDefault() bool { return true }

// AreValuesNullableByDefault is always true for plural keys.
func (k *PluralAttributeKeySource) AreValuesNullableByDefault() bool { return true }

// ExplicitForeignKeyName returns the declared key name; "" asks the binder to
// generate one.
func (k *PluralAttributeKeySource) ExplicitForeignKeyName() string {
	return k.attribute.ExplicitForeignKeyName()
}

// ForeignKeyTargetColumnResolutionDelegate returns a delegate when at least one
// join column names its referenced column, and nil otherwise. With nil, the
// caller resolves the target implicitly against the owner's primary key.
func (k *PluralAttributeKeySource) ForeignKeyTargetColumnResolutionDelegate() ResolutionDelegate {
	for _, col := range k.attribute.JoinColumnValues() {
		if col.ReferencedColumnName() != "" {
			return NewJoinColumnResolutionDelegate(k.attribute)
		}
	}

	return nil
}
