package relational

import (
	"fmt"
	"strings"
)

// ForeignKey links an ordered list of source columns to an equally long,
// positionally matched list of target columns.
type ForeignKey struct {
	// Name is the constraint name.
	Name string
	// OnDelete is the action applied when a referenced row is deleted.
	OnDelete ReferentialAction
	// OnUpdate is the action applied when a referenced key is updated.
	OnUpdate ReferentialAction

	source        *Table
	target        *Table
	sourceColumns []*Column
	targetColumns []*Column
}

// SourceTable returns the referencing table.
func (fk *ForeignKey) SourceTable() *Table { return fk.source }

// TargetTable returns the referenced table.
func (fk *ForeignKey) TargetTable() *Table { return fk.target }

// SourceColumns returns the referencing columns in key order.
func (fk *ForeignKey) SourceColumns() []*Column { return fk.sourceColumns }

// TargetColumns returns the referenced columns in key order.
func (fk *ForeignKey) TargetColumns() []*Column { return fk.targetColumns }

// ColumnSpan returns the number of column pairs.
func (fk *ForeignKey) ColumnSpan() int { return len(fk.sourceColumns) }

// AddColumnMapping appends a source/target column pair. The source column must
// belong to the source table and the target column to the target table.
func (fk *ForeignKey) AddColumnMapping(source, target *Column) error {
	if source == nil || target == nil {
		return fmt.Errorf("foreign key %q: nil column in mapping", fk.Name)
	}

	if source.Table() != fk.source {
		return fmt.Errorf("foreign key %q: source column %s does not belong to %s",
			fk.Name, source, fk.source.QualifiedName())
	}

	if target.Table() != fk.target {
		return fmt.Errorf("foreign key %q: target column %s does not belong to %s",
			fk.Name, target, fk.target.QualifiedName())
	}

	fk.sourceColumns = append(fk.sourceColumns, source)
	fk.targetColumns = append(fk.targetColumns, target)

	return nil
}

// String returns a compact description such as
// "fk_items(order_items.order_id -> orders.id)".
func (fk *ForeignKey) String() string {
	src := make([]string, len(fk.sourceColumns))
	for i, c := range fk.sourceColumns {
		src[i] = c.Name
	}

	tgt := make([]string, len(fk.targetColumns))
	for i, c := range fk.targetColumns {
		tgt[i] = c.Name
	}

	return fmt.Sprintf("%s(%s.%s -> %s.%s)",
		fk.Name,
		fk.source.QualifiedName(), strings.Join(src, ","),
		fk.target.QualifiedName(), strings.Join(tgt, ","))
}
