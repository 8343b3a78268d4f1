package catalog

import (
	"errors"
	"fmt"
	"strings"

	"relmap/internal/common"
	"relmap/internal/mapping"
	"relmap/internal/relational"
)

var (
	// ErrTableNotFound is returned when a table lookup fails.
	ErrTableNotFound = errors.New("table not found")
	// ErrColumnNotFound is returned when a column lookup fails.
	ErrColumnNotFound = errors.New("column not found")
	// ErrImplicitColumnAmbiguous is returned when an empty column name cannot be
	// mapped to a single primary key column.
	ErrImplicitColumnAmbiguous = errors.New("implicit column reference is ambiguous")
	// ErrEmptyTableName is returned when a table is registered without a name.
	ErrEmptyTableName = errors.New("empty table name")
)

// Catalog holds tables keyed by schema-qualified name. Table order is the
// order of registration.
type Catalog struct {
	defaultSchema string
	tables        []*relational.Table
	byName        map[string]*relational.Table
}

// New creates an empty catalog. Unqualified lookups use defaultSchema.
func New(defaultSchema string) *Catalog {
	return &Catalog{
		defaultSchema: defaultSchema,
		byName:        make(map[string]*relational.Table),
	}
}

// DefaultSchema returns the schema used for unqualified lookups.
func (c *Catalog) DefaultSchema() string {
	return c.defaultSchema
}

// Tables returns all tables in registration order.
func (c *Catalog) Tables() []*relational.Table {
	return c.tables
}

// AddTable registers t. Registering a second table under the same name fails.
func (c *Catalog) AddTable(t *relational.Table) error {
	if t == nil || t.Name == "" {
		return ErrEmptyTableName
	}

	if t.Schema == "" {
		t.Schema = c.defaultSchema
	}

	key := c.key(t.Schema, t.Name)
	if _, exists := c.byName[key]; exists {
		return fmt.Errorf("duplicate table %s", t.QualifiedName())
	}

	c.byName[key] = t
	c.tables = append(c.tables, t)

	return nil
}

// Table returns the named table or nil. An empty schema means the default schema.
func (c *Catalog) Table(schema, name string) *relational.Table {
	if schema == "" {
		schema = c.defaultSchema
	}

	return c.byName[c.key(schema, name)]
}

// LocateOrCreateTable returns the named table, registering an empty one if
// absent. The boolean reports whether the table was created.
func (c *Catalog) LocateOrCreateTable(schema, name string) (*relational.Table, bool, error) {
	if t := c.Table(schema, name); t != nil {
		return t, false, nil
	}

	t := relational.NewTable(schema, name)
	if err := c.AddTable(t); err != nil {
		return nil, false, err
	}

	return t, true, nil
}

// TableNames returns the qualified names of all tables.
func (c *Catalog) TableNames() []string {
	names := make([]string, len(c.tables))
	for i, t := range c.tables {
		names[i] = t.QualifiedName()
	}

	return names
}

// Merge copies what c lacks from other: whole tables that c does not know,
// and, for tables both know, missing columns and a missing primary key.
// Foreign keys of other are recreated on c's tables unless c already has a
// key of that name. Existing definitions in c always win.
func (c *Catalog) Merge(other *Catalog) error {
	if other == nil {
		return nil
	}

	for _, src := range other.tables {
		dst, created, err := c.LocateOrCreateTable(src.Schema, src.Name)
		if err != nil {
			return err
		}

		if err := mergeTable(dst, src, created); err != nil {
			return fmt.Errorf("merge %s: %w", src.QualifiedName(), err)
		}
	}

	for _, src := range other.tables {
		dst := c.Table(src.Schema, src.Name)

		for _, fk := range src.ForeignKeys() {
			if err := c.mergeForeignKey(dst, fk); err != nil {
				return fmt.Errorf("merge %s: %w", src.QualifiedName(), err)
			}
		}
	}

	return nil
}

// mergeForeignKey recreates fk on dst, pointing at c's copy of its target.
// Columns are matched by name.
func (c *Catalog) mergeForeignKey(dst *relational.Table, fk *relational.ForeignKey) error {
	if dst.LocateForeignKey(fk.Name) != nil {
		return nil
	}

	target := c.Table(fk.TargetTable().Schema, fk.TargetTable().Name)
	if target == nil {
		return fmt.Errorf("foreign key %s: %w: %s", fk.Name, ErrTableNotFound, fk.TargetTable().QualifiedName())
	}

	sources := make([]*relational.Column, fk.ColumnSpan())
	targets := make([]*relational.Column, fk.ColumnSpan())

	for i, col := range fk.SourceColumns() {
		if sources[i] = dst.LocateColumn(col.Name); sources[i] == nil {
			return fmt.Errorf("foreign key %s: %w: %s", fk.Name, ErrColumnNotFound, col)
		}

		tc := fk.TargetColumns()[i]
		if targets[i] = target.LocateColumn(tc.Name); targets[i] == nil {
			return fmt.Errorf("foreign key %s: %w: %s", fk.Name, ErrColumnNotFound, tc)
		}
	}

	created, err := dst.CreateForeignKey(fk.Name, target)
	if err != nil {
		return err
	}

	created.OnDelete = fk.OnDelete
	created.OnUpdate = fk.OnUpdate

	for i := range sources {
		if err := created.AddColumnMapping(sources[i], targets[i]); err != nil {
			return err
		}
	}

	return nil
}

func mergeTable(dst, src *relational.Table, created bool) error {
	for _, col := range src.Columns() {
		existing, added, err := dst.LocateOrCreateColumn(col.Name)
		if err != nil {
			return err
		}

		if added {
			existing.DataType = col.DataType
			existing.Nullable = col.Nullable
			existing.Unique = col.Unique
		}
	}

	if len(dst.PrimaryKey()) == 0 && len(src.PrimaryKey()) > 0 {
		if err := dst.SetPrimaryKey(columnNames(src.PrimaryKey())...); err != nil {
			return err
		}
	}

	if created {
		for _, uk := range src.UniqueKeys() {
			if err := dst.AddUniqueKey(uk.Name, columnNames(uk.Columns)...); err != nil {
				return err
			}
		}
	}

	return nil
}

// FromMapping builds a catalog holding the primary table of every entity in
// mf, with declared columns, formulas, primary and unique keys. Collection
// tables are left to the binder.
func FromMapping(mf *mapping.MappingFile) (*Catalog, error) {
	cat := New(mf.Schema)

	for i := range mf.Entities {
		e := &mf.Entities[i]

		t := relational.NewTable(e.Schema, e.Table)
		if err := cat.AddTable(t); err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}

		for _, def := range e.Columns {
			if def.IsFormula() {
				if _, err := t.AddDerivedValue(def.Name, def.Formula); err != nil {
					return nil, fmt.Errorf("entity %s: %w", e.Name, err)
				}

				continue
			}

			col, err := t.CreateColumn(def.Name)
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", e.Name, err)
			}

			col.DataType = def.Type
			col.Nullable = def.IsNullable()
			col.Unique = def.Unique
		}

		if !e.PrimaryKey.IsEmpty() {
			if err := t.SetPrimaryKey(e.PrimaryKey...); err != nil {
				return nil, fmt.Errorf("entity %s: %w", e.Name, err)
			}
		}

		for _, uk := range e.UniqueKeys {
			if err := t.AddUniqueKey(uk.Name, uk.Columns...); err != nil {
				return nil, fmt.Errorf("entity %s: %w", e.Name, err)
			}
		}
	}

	return cat, nil
}

func (c *Catalog) key(schema, name string) string {
	return strings.ToLower(common.QualifiedName(schema, name))
}

func columnNames(cols []*relational.Column) []string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}

	return names
}
