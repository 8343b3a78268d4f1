package mapping

import (
	"fmt"
	"strings"

	"relmap/internal/diagnostic"
	"relmap/internal/match"
	"relmap/internal/relational"
)

const maxSuggestions = 3

// Validate checks a mapping file for structural problems. It does not need
// the database: references that may be satisfied by an introspected table
// are reported as warnings, not errors.
func Validate(mf *MappingFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.Errorf("mapping_is_nil", "", "", "mapping file is nil")
		return res
	}

	seenEntities := map[string]struct{}{}
	seenTables := map[string]string{}

	for i := range mf.Entities {
		e := &mf.Entities[i]
		if e.Name == "" {
			res.Errorf("empty_entity_name", "", "", "entity #%d has no name", i+1)
			continue
		}

		if _, ok := seenEntities[e.Name]; ok {
			res.Errorf("duplicate_entity", e.Name, "", "duplicate entity %q", e.Name)
			continue
		}

		seenEntities[e.Name] = struct{}{}

		table := strings.ToLower(e.QualifiedTable())
		if owner, ok := seenTables[table]; ok {
			res.Errorf("duplicate_table", e.Name, "",
				"table %q is already mapped by entity %q", e.QualifiedTable(), owner)
		} else {
			seenTables[table] = e.Name
		}

		validateEntity(res, e)
	}

	return res
}

func validateEntity(res *diagnostic.Diagnostics, e *Entity) {
	validateColumns(res, e.Name, "", e.Columns)

	for _, pk := range e.PrimaryKey {
		col := e.FindColumn(pk)
		if col == nil {
			res.Report(unknownColumn(diagnostic.SeverityError, "unknown_primary_key_column", e, pk,
				fmt.Sprintf("primary key column %q is not declared", pk), pk))

			continue
		}

		if col.IsFormula() {
			res.Errorf("formula_in_key", e.Name, pk, "primary key column %q is a formula", pk)
		}
	}

	for _, uk := range e.UniqueKeys {
		if uk.Columns.IsEmpty() {
			res.Errorf("empty_unique_key", e.Name, uk.Name, "unique key %q has no columns", uk.Name)
		}

		for _, name := range uk.Columns {
			col := e.FindColumn(name)
			if col == nil {
				res.Report(unknownColumn(diagnostic.SeverityError, "unknown_unique_key_column", e, uk.Name,
					fmt.Sprintf("unique key %q references undeclared column %q", uk.Name, name), name))

				continue
			}

			if col.IsFormula() {
				res.Errorf("formula_in_key", e.Name, uk.Name, "unique key %q uses formula %q", uk.Name, name)
			}
		}
	}

	seen := map[string]struct{}{}

	for j := range e.Collections {
		c := &e.Collections[j]
		if c.Name == "" {
			res.Errorf("empty_collection_name", e.Name, "", "collection #%d has no name", j+1)
			continue
		}

		if _, ok := seen[c.Name]; ok {
			res.Errorf("duplicate_collection", e.Name, c.Name, "duplicate collection %q", c.Name)
			continue
		}

		seen[c.Name] = struct{}{}

		validateCollection(res, e, c)
	}
}

func validateCollection(res *diagnostic.Diagnostics, e *Entity, c *Collection) {
	action, err := c.OnDeleteAction()

	switch {
	case err != nil:
		res.Errorf("invalid_on_delete", e.Name, c.Name, "%s", err)
	case action != relational.NoAction && action != relational.Cascade:
		res.Errorf("unsupported_on_delete", e.Name, c.Name,
			"on_delete %s is not supported for collection keys (use cascade or no_action)", action)
	}

	if c.Inverse {
		if len(c.JoinColumns) > 0 || c.ForeignKey != "" {
			res.Warnf("inverse_key_ignored", e.Name, c.Name,
				"inverse collections own no key; join_columns and foreign_key are ignored")
		}

		return
	}

	validateColumns(res, e.Name, c.Name+".", c.Columns)
	validateColumns(res, e.Name, c.Name+".", c.JoinColumns)

	for _, cols := range []ColumnDefArray{c.Columns, c.JoinColumns} {
		for _, col := range cols {
			if col.IsFormula() {
				res.Errorf("formula_in_collection", e.Name, c.Name+"."+col.Name,
					"collection columns are stored; %q cannot be a formula", col.Name)
			}
		}
	}

	for _, name := range c.Columns.Names() {
		for _, jc := range c.JoinColumns.Names() {
			if strings.EqualFold(name, jc) {
				res.Errorf("column_is_join_column", e.Name, c.Name+"."+name,
					"column %q is declared both as value and join column", name)
			}
		}
	}

	if len(c.JoinColumns) == 0 {
		if e.PrimaryKey.IsEmpty() {
			res.Warnf("implicit_key_without_primary_key", e.Name, c.Name,
				"no join columns and no declared primary key; the key depends on the database schema")
		}

		return
	}

	hasReferenced := false

	for _, jc := range c.JoinColumns {
		if jc.ReferencedColumn == "" {
			continue
		}

		hasReferenced = true

		if len(e.Columns) == 0 {
			continue
		}

		target := e.FindColumn(jc.ReferencedColumn)
		switch {
		case target == nil:
			res.Report(unknownColumn(diagnostic.SeverityWarning, "unknown_referenced_column", e, c.Name+"."+jc.Name,
				fmt.Sprintf("referenced column %q is not declared on %s", jc.ReferencedColumn, e.QualifiedTable()),
				jc.ReferencedColumn))
		case target.IsFormula():
			res.Errorf("formula_referenced", e.Name, c.Name+"."+jc.Name,
				"referenced column %q is a formula; a foreign key can only target stored columns", jc.ReferencedColumn)
		}
	}

	if !hasReferenced && len(e.PrimaryKey) > 0 && len(e.PrimaryKey) != len(c.JoinColumns) {
		res.Errorf("join_column_count_mismatch", e.Name, c.Name,
			"%d join columns for a %d-column primary key", len(c.JoinColumns), len(e.PrimaryKey))
	}
}

func validateColumns(res *diagnostic.Diagnostics, entity, prefix string, cols ColumnDefArray) {
	seen := map[string]struct{}{}

	for i, col := range cols {
		if col.Name == "" {
			res.Errorf("empty_column_name", entity, strings.TrimSuffix(prefix, "."), "column #%d has no name", i+1)
			continue
		}

		key := strings.ToLower(col.Name)
		if _, ok := seen[key]; ok {
			res.Errorf("duplicate_column", entity, prefix+col.Name, "duplicate column %q", col.Name)
			continue
		}

		seen[key] = struct{}{}
	}
}

// unknownColumn reports a reference to an undeclared column of e, suggesting
// the closest declared names.
func unknownColumn(sev diagnostic.Severity, code string, e *Entity, path, msg, name string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Entity:   e.Name,
		Path:     path,
	}.WithSuggestions(match.Suggest(name, e.ColumnNames(), maxSuggestions)...)
}
