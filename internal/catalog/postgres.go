package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"relmap/internal/relational"
)

// Querier is the subset of *pgxpool.Pool and *pgx.Conn the introspector uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Introspector reads table definitions from PostgreSQL's information_schema.
type Introspector struct {
	db Querier
}

// NewIntrospector creates an Introspector over db.
func NewIntrospector(db Querier) *Introspector {
	return &Introspector{db: db}
}

const tablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = $1
	AND table_type = 'BASE TABLE'
	ORDER BY table_name
`

const columnsQuery = `
	SELECT table_name, column_name, data_type, is_nullable
	FROM information_schema.columns
	WHERE table_schema = $1
	ORDER BY table_name, ordinal_position
`

const keysQuery = `
	SELECT tc.table_name, tc.constraint_name, tc.constraint_type, kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
		AND tc.table_name = kcu.table_name
	WHERE tc.table_schema = $1
		AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
	ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position
`

const foreignKeysQuery = `
	SELECT kcu.table_name, kcu.constraint_name, kcu.column_name,
		tkcu.table_name, tkcu.column_name, rc.delete_rule, rc.update_rule
	FROM information_schema.referential_constraints rc
	JOIN information_schema.key_column_usage kcu
		ON kcu.constraint_schema = rc.constraint_schema
		AND kcu.constraint_name = rc.constraint_name
	JOIN information_schema.key_column_usage tkcu
		ON tkcu.constraint_schema = rc.unique_constraint_schema
		AND tkcu.constraint_name = rc.unique_constraint_name
		AND tkcu.ordinal_position = kcu.position_in_unique_constraint
	WHERE kcu.table_schema = $1
		AND tkcu.table_schema = $1
	ORDER BY kcu.table_name, kcu.constraint_name, kcu.ordinal_position
`

// LoadSchema returns a catalog with every base table of schema, including
// columns in ordinal order, primary keys, unique constraints and foreign keys
// between tables of the schema.
func (i *Introspector) LoadSchema(ctx context.Context, schema string) (*Catalog, error) {
	cat := New(schema)

	err := i.each(ctx, tablesQuery, schema, func(rows pgx.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}

		return cat.AddTable(relational.NewTable(schema, name))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tables of %s: %w", schema, err)
	}

	err = i.each(ctx, columnsQuery, schema, func(rows pgx.Rows) error {
		var table, name, dataType, nullable string
		if err := rows.Scan(&table, &name, &dataType, &nullable); err != nil {
			return err
		}

		t := cat.Table(schema, table)
		if t == nil {
			// Views and other relations show up in information_schema.columns.
			return nil
		}

		col, err := t.CreateColumn(name)
		if err != nil {
			return err
		}

		col.DataType = dataType
		col.Nullable = nullable == "YES"

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load columns of %s: %w", schema, err)
	}

	if err := i.loadKeys(ctx, cat, schema); err != nil {
		return nil, fmt.Errorf("failed to load keys of %s: %w", schema, err)
	}

	if err := i.loadForeignKeys(ctx, cat, schema); err != nil {
		return nil, fmt.Errorf("failed to load foreign keys of %s: %w", schema, err)
	}

	return cat, nil
}

// constraintColumns accumulates the ordered columns of one constraint.
type constraintColumns struct {
	table   string
	name    string
	kind    string
	columns []string
}

func (i *Introspector) loadKeys(ctx context.Context, cat *Catalog, schema string) error {
	var keys []*constraintColumns

	err := i.each(ctx, keysQuery, schema, func(rows pgx.Rows) error {
		var table, name, kind, column string
		if err := rows.Scan(&table, &name, &kind, &column); err != nil {
			return err
		}

		if n := len(keys); n > 0 && keys[n-1].table == table && keys[n-1].name == name {
			keys[n-1].columns = append(keys[n-1].columns, column)
			return nil
		}

		keys = append(keys, &constraintColumns{table: table, name: name, kind: kind, columns: []string{column}})

		return nil
	})
	if err != nil {
		return err
	}

	for _, k := range keys {
		t := cat.Table(schema, k.table)
		if t == nil {
			continue
		}

		if k.kind == "PRIMARY KEY" {
			err = t.SetPrimaryKey(k.columns...)
		} else {
			err = t.AddUniqueKey(k.name, k.columns...)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (i *Introspector) loadForeignKeys(ctx context.Context, cat *Catalog, schema string) error {
	var current *relational.ForeignKey

	return i.each(ctx, foreignKeysQuery, schema, func(rows pgx.Rows) error {
		var table, name, column, targetTable, targetColumn, deleteRule, updateRule string
		if err := rows.Scan(&table, &name, &column, &targetTable, &targetColumn, &deleteRule, &updateRule); err != nil {
			return err
		}

		src, tgt := cat.Table(schema, table), cat.Table(schema, targetTable)
		if src == nil || tgt == nil {
			return nil
		}

		if current == nil || current.Name != name || current.SourceTable() != src {
			fk, err := src.CreateForeignKey(name, tgt)
			if err != nil {
				return err
			}

			if fk.OnDelete, err = relational.ParseReferentialAction(deleteRule); err != nil {
				return err
			}

			if fk.OnUpdate, err = relational.ParseReferentialAction(updateRule); err != nil {
				return err
			}

			current = fk
		}

		srcCol, tgtCol := src.LocateColumn(column), tgt.LocateColumn(targetColumn)
		if srcCol == nil || tgtCol == nil {
			return fmt.Errorf("foreign key %s references unknown column", name)
		}

		return current.AddColumnMapping(srcCol, tgtCol)
	})
}

// each runs query with the schema argument and calls fn for every row.
func (i *Introspector) each(ctx context.Context, query, schema string, fn func(pgx.Rows) error) error {
	rows, err := i.db.Query(ctx, query, schema)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
