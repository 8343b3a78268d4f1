package relational

import (
	"fmt"
	"strings"

	"relmap/internal/common"
)

// Table is a relational table. Column lookups are case-insensitive, matching
// how unquoted SQL identifiers behave.
type Table struct {
	// Schema is the owning schema, empty for the default schema.
	Schema string
	// Name is the table name.
	Name string

	columns     []*Column
	byName      map[string]*Column
	derived     []*DerivedValue
	primaryKey  []*Column
	uniqueKeys  []UniqueKey
	foreignKeys []*ForeignKey
}

// UniqueKey is a named, ordered set of columns with a unique constraint.
type UniqueKey struct {
	Name    string
	Columns []*Column
}

// NewTable creates an empty table.
func NewTable(schema, name string) *Table {
	return &Table{
		Schema: schema,
		Name:   name,
		byName: make(map[string]*Column),
	}
}

// QualifiedName returns "schema.name", or just the name for the default schema.
func (t *Table) QualifiedName() string {
	return common.QualifiedName(t.Schema, t.Name)
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return t.QualifiedName()
}

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// DerivedValues returns the formulas registered on the table.
func (t *Table) DerivedValues() []*DerivedValue {
	return t.derived
}

// LocateColumn returns the named column or nil.
func (t *Table) LocateColumn(name string) *Column {
	return t.byName[strings.ToLower(name)]
}

// CreateColumn appends a new nullable column. It fails if the name is empty
// or already taken.
func (t *Table) CreateColumn(name string) (*Column, error) {
	if name == "" {
		return nil, fmt.Errorf("table %s: empty column name", t.QualifiedName())
	}

	key := strings.ToLower(name)
	if _, exists := t.byName[key]; exists || t.LocateDerivedValue(name) != nil {
		return nil, fmt.Errorf("table %s: duplicate column %q", t.QualifiedName(), name)
	}

	col := &Column{
		table:    t,
		Name:     name,
		Nullable: true,
		Position: len(t.columns) + 1,
	}
	t.columns = append(t.columns, col)
	t.byName[key] = col

	return col, nil
}

// LocateOrCreateColumn returns the existing column with the given name,
// creating a nullable one if absent. The boolean reports whether the column
// was created.
func (t *Table) LocateOrCreateColumn(name string) (*Column, bool, error) {
	if col := t.LocateColumn(name); col != nil {
		return col, false, nil
	}

	col, err := t.CreateColumn(name)
	if err != nil {
		return nil, false, err
	}

	return col, true, nil
}

// AddDerivedValue registers a named formula. The name must not clash with a
// column or another formula of the table.
func (t *Table) AddDerivedValue(name, expression string) (*DerivedValue, error) {
	if name == "" || expression == "" {
		return nil, fmt.Errorf("table %s: formula needs a name and an expression", t.QualifiedName())
	}

	if t.LocateColumn(name) != nil || t.LocateDerivedValue(name) != nil {
		return nil, fmt.Errorf("table %s: duplicate name %q", t.QualifiedName(), name)
	}

	d := &DerivedValue{table: t, Name: name, Expression: expression}
	t.derived = append(t.derived, d)

	return d, nil
}

// LocateDerivedValue returns the formula with the given name or nil.
func (t *Table) LocateDerivedValue(name string) *DerivedValue {
	for _, d := range t.derived {
		if strings.EqualFold(d.Name, name) {
			return d
		}
	}

	return nil
}

// PrimaryKey returns the primary key columns in key order.
func (t *Table) PrimaryKey() []*Column {
	return t.primaryKey
}

// SetPrimaryKey sets the primary key from existing column names. Key columns
// become non-nullable.
func (t *Table) SetPrimaryKey(names ...string) error {
	cols, err := t.resolveColumns(names)
	if err != nil {
		return fmt.Errorf("primary key: %w", err)
	}

	for _, c := range cols {
		c.Nullable = false
	}

	t.primaryKey = cols

	return nil
}

// UniqueKeys returns the multi- or single-column unique keys.
func (t *Table) UniqueKeys() []UniqueKey {
	return t.uniqueKeys
}

// AddUniqueKey adds a unique key over existing columns. A single-column key
// also marks the column Unique.
func (t *Table) AddUniqueKey(name string, names ...string) error {
	cols, err := t.resolveColumns(names)
	if err != nil {
		return fmt.Errorf("unique key %q: %w", name, err)
	}

	if len(cols) == 1 {
		cols[0].Unique = true
	}

	t.uniqueKeys = append(t.uniqueKeys, UniqueKey{Name: name, Columns: cols})

	return nil
}

// ForeignKeys returns the foreign keys whose source is this table.
func (t *Table) ForeignKeys() []*ForeignKey {
	return t.foreignKeys
}

// LocateForeignKey returns the foreign key with the given name or nil.
func (t *Table) LocateForeignKey(name string) *ForeignKey {
	for _, fk := range t.foreignKeys {
		if strings.EqualFold(fk.Name, name) {
			return fk
		}
	}

	return nil
}

// CreateForeignKey attaches a new, column-less foreign key from t to target.
func (t *Table) CreateForeignKey(name string, target *Table) (*ForeignKey, error) {
	if target == nil {
		return nil, fmt.Errorf("table %s: foreign key %q has no target table", t.QualifiedName(), name)
	}

	if name != "" && t.LocateForeignKey(name) != nil {
		return nil, fmt.Errorf("table %s: duplicate foreign key %q", t.QualifiedName(), name)
	}

	fk := &ForeignKey{
		Name:   name,
		source: t,
		target: target,
	}
	t.foreignKeys = append(t.foreignKeys, fk)

	return fk, nil
}

// ReferencedTables returns the distinct target tables of t's foreign keys,
// in foreign key order.
func (t *Table) ReferencedTables() []*Table {
	var out []*Table

	seen := make(map[*Table]struct{})

	for _, fk := range t.foreignKeys {
		if _, ok := seen[fk.target]; ok {
			continue
		}

		seen[fk.target] = struct{}{}
		out = append(out, fk.target)
	}

	return out
}

func (t *Table) resolveColumns(names []string) ([]*Column, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("table %s: no columns given", t.QualifiedName())
	}

	cols := make([]*Column, 0, len(names))

	for _, n := range names {
		c := t.LocateColumn(n)
		if c == nil {
			return nil, fmt.Errorf("table %s: unknown column %q", t.QualifiedName(), n)
		}

		cols = append(cols, c)
	}

	return cols, nil
}
