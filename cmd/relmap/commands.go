package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/jackc/pgx/v5/pgxpool"

	"relmap/internal/binder"
	"relmap/internal/catalog"
	"relmap/internal/diagnostic"
	"relmap/internal/mapping"
)

// Execute implements flags.Commander.
func (c *CheckCommand) Execute(_ []string) error {
	mf, diags, err := loadAndValidate(c.Mapping)
	if err != nil {
		return err
	}

	if _, err := diags.WriteTo(c.opts.stdout); err != nil {
		return err
	}

	if err := diags.Err(); err != nil {
		return fmt.Errorf("%s: %w", c.Mapping, err)
	}

	if c.Normalize != "" {
		if err := mapping.WriteFile(mf, c.Normalize); err != nil {
			return err
		}

		c.opts.logger.Info("normalized mapping written", slog.String("path", c.Normalize))
	}

	fmt.Fprintf(c.opts.stdout, "%s: ok (%d entities)\n", c.Mapping, len(mf.Entities))

	return nil
}

// Execute implements flags.Commander.
func (c *BindCommand) Execute(_ []string) error {
	ctx, logger := c.opts.ctx, c.opts.logger

	mf, diags, err := loadAndValidate(c.Mapping)
	if err != nil {
		return err
	}

	if _, err := diags.WriteTo(c.opts.stderr); err != nil {
		return err
	}

	if err := diags.Err(); err != nil {
		return fmt.Errorf("%s: %w", c.Mapping, err)
	}

	cat, err := catalog.FromMapping(mf)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	if c.DSN != "" {
		if err := c.mergeLiveSchema(cat, logger); err != nil {
			return err
		}
	}

	b := binder.New(binder.Config{
		StrictMode:           c.Strict,
		ForeignKeyNamePrefix: c.Prefix,
		Logger:               logger,
	})

	if err := b.Declare(mf); err != nil {
		return err
	}

	logger.Debug("collection keys declared", slog.Int("pending", b.Pending()))

	model, err := b.Bind(ctx, cat)
	if model != nil {
		if _, werr := model.Diagnostics.WriteTo(c.opts.stderr); werr != nil {
			return werr
		}
	}

	if err != nil {
		return err
	}

	if c.Dump {
		spew.Fdump(c.opts.stderr, model.Export())
	}

	data, err := model.ExportYAML()
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	if c.Output == "" {
		_, err = c.opts.stdout.Write(data)

		return err
	}

	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}

	logger.Info("model written",
		slog.String("path", c.Output),
		slog.Int("tables", len(model.Tables)),
		slog.Int("bindings", len(model.Bindings)))

	return nil
}

// mergeLiveSchema introspects the configured schema and fills in whatever
// the mapping file leaves out.
func (c *BindCommand) mergeLiveSchema(cat *catalog.Catalog, logger *slog.Logger) error {
	ctx := c.opts.ctx

	pool, err := pgxpool.New(ctx, c.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	schema := introspectionSchema(c.Schema, cat)

	live, err := catalog.NewIntrospector(pool).LoadSchema(ctx, schema)
	if err != nil {
		return err
	}

	logger.Info("introspected schema",
		slog.String("schema", schema),
		slog.Any("tables", live.TableNames()))

	if err := cat.Merge(live); err != nil {
		return fmt.Errorf("failed to merge schema %s: %w", schema, err)
	}

	return nil
}

// introspectionSchema picks the schema to read from the database: the flag,
// else the mapping's default schema, else public.
func introspectionSchema(flag string, cat *catalog.Catalog) string {
	if flag != "" {
		return flag
	}

	if s := cat.DefaultSchema(); s != "" {
		return s
	}

	return "public"
}

func loadAndValidate(path string) (*mapping.MappingFile, *diagnostic.Diagnostics, error) {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	return mf, mapping.Validate(mf), nil
}
