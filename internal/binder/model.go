package binder

import (
	"gopkg.in/yaml.v3"

	"relmap/internal/diagnostic"
	"relmap/internal/relational"
)

// ForeignKeyBinding is the bound result of one collection key.
type ForeignKeyBinding struct {
	// Entity owning the collection.
	Entity string
	// Attribute is the collection attribute name.
	Attribute string
	// ForeignKey lives on the collection table and targets the owner table.
	ForeignKey *relational.ForeignKey
	// Participation defaults taken from the key source.
	IncludedInInsert bool
	IncludedInUpdate bool
	Nullable         bool
	// Implicit is set when the key targets the owner's primary key because no
	// join column names a referenced column.
	Implicit bool
}

// Model is the output of Bind.
type Model struct {
	Bindings []ForeignKeyBinding
	// Tables in dependency order: referenced tables first.
	Tables      []*relational.Table
	Diagnostics diagnostic.Diagnostics
}

// ExportedModel is the serializable view of a Model.
type ExportedModel struct {
	Version     string                  `yaml:"version"`
	Tables      []ExportedTable         `yaml:"tables"`
	Bindings    []ExportedBinding       `yaml:"bindings,omitempty"`
	Diagnostics []diagnostic.Diagnostic `yaml:"diagnostics,omitempty"`
}

// ExportedTable describes one table.
type ExportedTable struct {
	Name        string               `yaml:"name"`
	Columns     []ExportedColumn     `yaml:"columns"`
	PrimaryKey  []string             `yaml:"primary_key,omitempty"`
	UniqueKeys  []ExportedUniqueKey  `yaml:"unique_keys,omitempty"`
	ForeignKeys []ExportedForeignKey `yaml:"foreign_keys,omitempty"`
	Derived     []ExportedDerived    `yaml:"derived,omitempty"`
}

// ExportedColumn describes one column.
type ExportedColumn struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Nullable bool   `yaml:"nullable"`
	Unique   bool   `yaml:"unique,omitempty"`
}

// ExportedDerived describes a formula of a table.
type ExportedDerived struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// ExportedUniqueKey describes one unique constraint.
type ExportedUniqueKey struct {
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
}

// ExportedForeignKey describes one foreign key constraint.
type ExportedForeignKey struct {
	Name              string   `yaml:"name"`
	Columns           []string `yaml:"columns"`
	References        string   `yaml:"references"`
	ReferencedColumns []string `yaml:"referenced_columns"`
	OnDelete          string   `yaml:"on_delete"`
	OnUpdate          string   `yaml:"on_update,omitempty"`
}

// ExportedBinding describes how a collection key was bound.
type ExportedBinding struct {
	Entity     string `yaml:"entity"`
	Attribute  string `yaml:"attribute"`
	Table      string `yaml:"table"`
	ForeignKey string `yaml:"foreign_key"`
	Implicit   bool   `yaml:"implicit,omitempty"`
	Insertable bool   `yaml:"insertable"`
	Updatable  bool   `yaml:"updatable"`
	Nullable   bool   `yaml:"nullable"`
}

// Export builds the serializable view of m.
func (m *Model) Export() *ExportedModel {
	out := &ExportedModel{
		Version:     "1",
		Tables:      make([]ExportedTable, 0, len(m.Tables)),
		Diagnostics: m.Diagnostics.All(),
	}

	for _, t := range m.Tables {
		out.Tables = append(out.Tables, exportTable(t))
	}

	for _, b := range m.Bindings {
		out.Bindings = append(out.Bindings, ExportedBinding{
			Entity:     b.Entity,
			Attribute:  b.Attribute,
			Table:      b.ForeignKey.SourceTable().QualifiedName(),
			ForeignKey: b.ForeignKey.Name,
			Implicit:   b.Implicit,
			Insertable: b.IncludedInInsert,
			Updatable:  b.IncludedInUpdate,
			Nullable:   b.Nullable,
		})
	}

	return out
}

// ExportYAML renders the exported model as YAML.
func (m *Model) ExportYAML() ([]byte, error) {
	return yaml.Marshal(m.Export())
}

func exportTable(t *relational.Table) ExportedTable {
	et := ExportedTable{
		Name:       t.QualifiedName(),
		Columns:    make([]ExportedColumn, 0, len(t.Columns())),
		PrimaryKey: names(t.PrimaryKey()),
	}

	for _, c := range t.Columns() {
		et.Columns = append(et.Columns, ExportedColumn{
			Name:     c.Name,
			Type:     c.DataType,
			Nullable: c.Nullable,
			Unique:   c.Unique,
		})
	}

	for _, uk := range t.UniqueKeys() {
		et.UniqueKeys = append(et.UniqueKeys, ExportedUniqueKey{Name: uk.Name, Columns: names(uk.Columns)})
	}

	for _, d := range t.DerivedValues() {
		et.Derived = append(et.Derived, ExportedDerived{Name: d.Name, Expression: d.Expression})
	}

	for _, fk := range t.ForeignKeys() {
		efk := ExportedForeignKey{
			Name:              fk.Name,
			Columns:           names(fk.SourceColumns()),
			References:        fk.TargetTable().QualifiedName(),
			ReferencedColumns: names(fk.TargetColumns()),
			OnDelete:          fk.OnDelete.String(),
		}

		if fk.OnUpdate != relational.NoAction {
			efk.OnUpdate = fk.OnUpdate.String()
		}

		et.ForeignKeys = append(et.ForeignKeys, efk)
	}

	return et
}

func names(cols []*relational.Column) []string {
	if len(cols) == 0 {
		return nil
	}

	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}

	return out
}
