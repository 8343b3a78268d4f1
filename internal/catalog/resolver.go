package catalog

import (
	"fmt"
	"strings"

	"relmap/internal/keysource"
	"relmap/internal/match"
	"relmap/internal/relational"
)

// ColumnResolver resolves join column references against a catalog. It is
// bound to the table a foreign key points at, which is used whenever no
// table is named.
//
// Contract for ResolveColumn:
//   - A non-empty column name is looked up in the named table, or the bound
//     table. A formula of that name resolves to its *relational.DerivedValue.
//     A missing table yields ErrTableNotFound and a missing column
//     ErrColumnNotFound.
//   - An empty column name stands for the table's primary key. It resolves
//     only when that key has exactly one column; otherwise the result is
//     ErrImplicitColumnAmbiguous.
//   - The catalog name is ignored; a Catalog models a single database.
type ColumnResolver struct {
	catalog *Catalog
	table   *relational.Table
}

var _ keysource.JoinColumnResolutionContext = (*ColumnResolver)(nil)

// Resolver returns a ColumnResolver bound to table.
func (c *Catalog) Resolver(table *relational.Table) *ColumnResolver {
	return &ColumnResolver{catalog: c, table: table}
}

// ResolveColumn implements keysource.JoinColumnResolutionContext.
func (r *ColumnResolver) ResolveColumn(columnName, tableName, schemaName, _ string) (relational.Value, error) {
	table := r.table

	if tableName != "" {
		table = r.catalog.Table(schemaName, tableName)
		if table == nil {
			return nil, fmt.Errorf("%w: %s%s", ErrTableNotFound, qualifier(schemaName), tableName)
		}
	}

	if table == nil {
		return nil, fmt.Errorf("%w: no table to resolve %q against", ErrTableNotFound, columnName)
	}

	if columnName == "" {
		pk := table.PrimaryKey()
		if len(pk) != 1 {
			return nil, fmt.Errorf("%w: %s has a %d-column primary key",
				ErrImplicitColumnAmbiguous, table.QualifiedName(), len(pk))
		}

		return pk[0], nil
	}

	col := table.LocateColumn(columnName)
	if col == nil {
		if dv := table.LocateDerivedValue(columnName); dv != nil {
			return dv, nil
		}

		msg := fmt.Sprintf("%q in %s", columnName, table.QualifiedName())
		if hints := match.Suggest(columnName, columnNames(table.Columns()), 3); len(hints) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
		}

		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, msg)
	}

	return col, nil
}

func qualifier(schema string) string {
	if schema == "" {
		return ""
	}

	return schema + "."
}
