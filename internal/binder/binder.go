package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"relmap/internal/catalog"
	"relmap/internal/common"
	"relmap/internal/diagnostic"
	"relmap/internal/keysource"
	"relmap/internal/mapping"
	"relmap/internal/match"
	"relmap/internal/relational"
)

// Diagnostic codes recorded by Bind.
const (
	CodeOwnerTableNotFound   = "owner_table_not_found"
	CodeOwnerKeyMissing      = "owner_primary_key_missing"
	CodeJoinColumnUnresolved = "join_column_unresolved"
	CodeDerivedTarget        = "derived_target_value"
	CodeArityMismatch        = "join_column_arity_mismatch"
	CodeForeignKeyConflict   = "foreign_key_conflict"
	CodeInvalidKeyColumn     = "invalid_key_column"
	CodeBindFailed           = "bind_failed"
	CodeDependencyCycle      = "table_dependency_cycle"
	CodeImplicitTarget       = "implicit_primary_key_target"
)

// pendingKey is a collection key declared in phase one and bound in phase two.
type pendingKey struct {
	entity     string
	schema     string
	table      string
	collSchema string
	collTable  string
	source     *keysource.PluralAttributeKeySource
}

// Binder declares collection keys and binds them against a catalog.
type Binder struct {
	config  Config
	logger  *slog.Logger
	pending []pendingKey
}

// New creates a Binder.
func New(config Config) *Binder {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Binder{
		config: config,
		logger: logger,
	}
}

// Pending returns the number of declared keys that have not been bound yet.
func (b *Binder) Pending() int {
	return len(b.pending)
}

// Declare records a pending key for every owning collection in mf. Inverse
// collections own no key and are skipped. Declare may be called for several
// mapping files before Bind. If any collection is invalid nothing from mf
// is recorded.
func (b *Binder) Declare(mf *mapping.MappingFile) error {
	if mf == nil {
		return errors.New("mapping definition is required")
	}

	var declared []pendingKey

	for i := range mf.Entities {
		e := &mf.Entities[i]

		for j := range e.Collections {
			c := &e.Collections[j]
			if c.Inverse {
				continue
			}

			attr, err := c.Descriptor()
			if err != nil {
				return fmt.Errorf("failed to declare %s: %w", e.Name, err)
			}

			collSchema, collTable := c.TableRef(e)

			declared = append(declared, pendingKey{
				entity:     e.Name,
				schema:     e.Schema,
				table:      e.Table,
				collSchema: collSchema,
				collTable:  collTable,
				source:     keysource.NewPluralAttributeKeySource(attr),
			})
		}
	}

	for _, pk := range declared {
		b.logger.Debug("declared collection key",
			slog.String("entity", pk.entity),
			slog.String("attribute", pk.source.Attribute().Name()),
			slog.String("collection_table", common.QualifiedName(pk.collSchema, pk.collTable)))
	}

	b.pending = append(b.pending, declared...)

	return nil
}

// Bind resolves every pending key against cat, adding collection tables,
// columns and foreign keys to it. Keys are bound in declaration order; a key
// that cannot be bound is reported in the model's diagnostics and skipped.
// Bind drains the pending list.
func (b *Binder) Bind(ctx context.Context, cat *catalog.Catalog) (*Model, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}

	model := &Model{
		Bindings:    []ForeignKeyBinding{},
		Diagnostics: diagnostic.Diagnostics{},
	}

	pending := b.pending
	b.pending = nil

	for _, pk := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attribute := pk.source.Attribute().Name()

		binding, err := b.bindKey(cat, pk)
		if err != nil {
			code := CodeBindFailed

			var be *bindError
			if errors.As(err, &be) {
				code = be.code
			}

			model.Diagnostics.Errorf(code, pk.entity, attribute, "%s", err)
			b.logger.Warn("collection key skipped",
				slog.String("entity", pk.entity),
				slog.String("attribute", attribute),
				slog.String("code", code),
				slog.Any("error", err))

			continue
		}

		model.Bindings = append(model.Bindings, *binding)

		if binding.Implicit {
			model.Diagnostics.Infof(CodeImplicitTarget, pk.entity, attribute,
				"no join columns declared; %s references the primary key of %s",
				binding.ForeignKey.Name, binding.ForeignKey.TargetTable().QualifiedName())
		}

		b.logger.Info("bound collection key",
			slog.String("entity", pk.entity),
			slog.String("attribute", attribute),
			slog.String("foreign_key", binding.ForeignKey.String()),
			slog.Bool("implicit", binding.Implicit))
	}

	model.Tables = orderTables(cat.Tables(), &model.Diagnostics)

	if b.config.StrictMode && model.Diagnostics.HasErrors() {
		return model, errors.New("strict mode: binding failed with errors")
	}

	return model, nil
}

// bindError carries the diagnostic code for a failed key.
type bindError struct {
	code string
	err  error
}

func (e *bindError) Error() string { return e.err.Error() }

func (e *bindError) Unwrap() error { return e.err }

func failf(code, format string, args ...any) error {
	return &bindError{code: code, err: fmt.Errorf(format, args...)}
}

// bindKey checks everything the key needs before it touches cat, so a key
// that fails leaves the catalog as it was.
func (b *Binder) bindKey(cat *catalog.Catalog, pk pendingKey) (*ForeignKeyBinding, error) {
	ks := pk.source
	attr := ks.Attribute()

	owner := cat.Table(pk.schema, pk.table)
	if owner == nil {
		return nil, failf(CodeOwnerTableNotFound, "owner table %s not found",
			common.QualifiedName(pk.schema, pk.table))
	}

	targets, implicit, err := b.resolveTargets(cat, owner, ks)
	if err != nil {
		return nil, err
	}

	sources := sourceColumns(attr.Name(), ks, targets)
	if len(sources) != len(targets) {
		return nil, failf(CodeArityMismatch, "%d join columns for %d referenced columns of %s",
			len(sources), len(targets), owner.QualifiedName())
	}

	values := valueColumns(ks)

	if pk.collTable == "" {
		return nil, failf(CodeInvalidKeyColumn, "collection table of %s has no name", attr.Name())
	}

	existing := cat.Table(pk.collSchema, pk.collTable)

	for _, spec := range append(append([]columnSpec(nil), sources...), values...) {
		if err := checkColumn(existing, spec); err != nil {
			return nil, err
		}
	}

	fkName := ks.ExplicitForeignKeyName()
	if fkName != "" && existing != nil && existing.LocateForeignKey(fkName) != nil {
		return nil, failf(CodeForeignKeyConflict, "foreign key %q already exists on %s",
			fkName, existing.QualifiedName())
	}

	collTable, _, err := cat.LocateOrCreateTable(pk.collSchema, pk.collTable)
	if err != nil {
		return nil, err
	}

	if fkName == "" {
		fkName = b.generateForeignKeyName(collTable, owner)
	}

	sourceCols := make([]*relational.Column, len(sources))
	for i, s := range sources {
		if sourceCols[i], err = locateOrCreate(collTable, s, targets[i], ks.AreValuesNullableByDefault()); err != nil {
			return nil, err
		}
	}

	for _, v := range values {
		if _, err := locateOrCreate(collTable, v, nil, true); err != nil {
			return nil, err
		}
	}

	fk, err := collTable.CreateForeignKey(fkName, owner)
	if err != nil {
		return nil, err
	}

	fk.OnDelete = ks.OnDeleteAction()

	for i := range sourceCols {
		if err := fk.AddColumnMapping(sourceCols[i], targets[i]); err != nil {
			return nil, err
		}
	}

	return &ForeignKeyBinding{
		Entity:           pk.entity,
		Attribute:        attr.Name(),
		ForeignKey:       fk,
		IncludedInInsert: ks.AreValuesIncludedInInsertByDefault(),
		IncludedInUpdate: ks.AreValuesIncludedInUpdateByDefault(),
		Nullable:         ks.AreValuesNullableByDefault(),
		Implicit:         implicit,
	}, nil
}

// resolveTargets returns the owner columns the key points at. With a
// resolution delegate each join column is resolved through the catalog;
// without one the key implicitly targets the owner's primary key.
func (b *Binder) resolveTargets(
	cat *catalog.Catalog,
	owner *relational.Table,
	ks *keysource.PluralAttributeKeySource,
) ([]*relational.Column, bool, error) {
	delegate := ks.ForeignKeyTargetColumnResolutionDelegate()
	if delegate == nil {
		pk := owner.PrimaryKey()
		if len(pk) == 0 {
			return nil, true, failf(CodeOwnerKeyMissing, "%s has no primary key to reference",
				owner.QualifiedName())
		}

		return pk, true, nil
	}

	resolver := cat.Resolver(owner)
	values, err := delegate.JoinColumns(keysource.ResolutionContextFunc(
		func(column, table, schema, catalogName string) (relational.Value, error) {
			v, err := resolver.ResolveColumn(column, table, schema, catalogName)
			if err == nil {
				b.logger.Debug("resolved join column",
					slog.String("owner", owner.QualifiedName()),
					slog.String("referenced_column", column),
					slog.String("value_type", v.ValueType().String()),
					slog.String("value", v.Text()))
			}

			return v, err
		}))
	if err != nil {
		return nil, false, &bindError{code: CodeJoinColumnUnresolved, err: err}
	}

	targets := make([]*relational.Column, len(values))
	for i, v := range values {
		if v == nil {
			return nil, false, failf(CodeJoinColumnUnresolved, "join column %d resolved to nothing", i+1)
		}

		col, ok := v.(*relational.Column)
		if !ok {
			return nil, false, failf(CodeDerivedTarget, "join column %d resolved to %s value %q",
				i+1, v.ValueType(), v.Text())
		}

		if col.Table() != owner {
			return nil, false, failf(CodeJoinColumnUnresolved, "join column %d resolved to %s outside %s",
				i+1, col, owner.QualifiedName())
		}

		targets[i] = col
	}

	return targets, false, nil
}

// columnSpec describes a column to locate or create in a collection table.
type columnSpec struct {
	name     string
	dataType string
	nullable bool
}

// sourceColumns lists the referencing columns of the key. Declared join
// columns are used as is; otherwise one column per target is inferred as
// <attribute>_<target column>.
func sourceColumns(attribute string, ks *keysource.PluralAttributeKeySource, targets []*relational.Column) []columnSpec {
	var specs []columnSpec

	if declared := ks.RelationalValueSources(); len(declared) > 0 {
		for _, rvs := range declared {
			if cs, ok := rvs.(*keysource.ColumnSource); ok {
				specs = append(specs, columnSpec{name: cs.Name(), dataType: cs.DataType(), nullable: cs.Nullable()})
			}
		}

		return specs
	}

	for _, t := range targets {
		specs = append(specs, columnSpec{
			name:     match.SnakeCase(attribute) + "_" + t.Name,
			nullable: true,
		})
	}

	return specs
}

// valueColumns lists the columns the attribute stores next to its key.
func valueColumns(ks *keysource.PluralAttributeKeySource) []columnSpec {
	var specs []columnSpec

	for _, vs := range ks.ValueSources() {
		if cs, ok := vs.(*keysource.ColumnSource); ok {
			specs = append(specs, columnSpec{name: cs.Name(), dataType: cs.DataType(), nullable: cs.Nullable()})
		}
	}

	return specs
}

// checkColumn fails if spec cannot become a column of t. A nil t is a
// collection table that does not exist yet.
func checkColumn(t *relational.Table, spec columnSpec) error {
	if spec.name == "" {
		return failf(CodeInvalidKeyColumn, "collection table column has no name")
	}

	if t != nil && t.LocateColumn(spec.name) == nil && t.LocateDerivedValue(spec.name) != nil {
		return failf(CodeInvalidKeyColumn, "%s.%s is a formula, not a column", t.QualifiedName(), spec.name)
	}

	return nil
}

// locateOrCreate returns the named column of t, creating it when missing. A
// created column takes its type from the spec, falling back to the target's.
func locateOrCreate(t *relational.Table, spec columnSpec, target *relational.Column, nullableByDefault bool) (*relational.Column, error) {
	col, created, err := t.LocateOrCreateColumn(spec.name)
	if err != nil {
		return nil, err
	}

	if !created {
		return col, nil
	}

	col.DataType = spec.dataType
	if col.DataType == "" && target != nil {
		col.DataType = target.DataType
	}

	col.Nullable = spec.nullable && nullableByDefault

	return col, nil
}

// generateForeignKeyName builds <prefix><collection table>_<owner table>,
// adding a numeric suffix while the name is taken.
func (b *Binder) generateForeignKeyName(collTable, owner *relational.Table) string {
	base := b.config.ForeignKeyNamePrefix + collTable.Name + "_" + owner.Name

	name := base
	for n := 2; collTable.LocateForeignKey(name) != nil; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}

	return name
}

// orderTables sorts tables so that referenced tables come first. A cycle is
// reported as a warning naming its tables, and the registration order is kept.
func orderTables(tables []*relational.Table, diags *diagnostic.Diagnostics) []*relational.Table {
	ordered, err := sortTables(tables)
	if err != nil {
		diags.Warnf(CodeDependencyCycle, "", "", "%s; keeping declaration order", err)

		return append([]*relational.Table(nil), tables...)
	}

	return ordered
}
