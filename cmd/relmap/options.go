package main

import (
	"context"
	"io"
	"log/slog"
)

// Options are the global flags and commands of relmap.
type Options struct {
	LogLevel  string `long:"log-level" env:"RELMAP_LOG_LEVEL" default:"info" description:"minimum log level (debug, info, warn, error)"`
	LogFormat string `long:"log-format" default:"text" choice:"text" choice:"json" description:"log record format"`

	Check CheckCommand `command:"check" description:"validate a mapping file"`
	Bind  BindCommand  `command:"bind" description:"bind collection keys and write the relational model"`

	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// CheckCommand validates a mapping file.
type CheckCommand struct {
	Mapping   string `short:"m" long:"mapping" required:"true" description:"mapping file"`
	Normalize string `long:"normalize" description:"write the mapping with defaults filled in to this file"`

	opts *Options
}

// BindCommand binds the collection keys of a mapping file.
type BindCommand struct {
	Mapping string `short:"m" long:"mapping" required:"true" description:"mapping file"`
	Output  string `short:"o" long:"output" description:"model output file, stdout when empty"`
	DSN     string `long:"dsn" env:"RELMAP_DSN" description:"PostgreSQL connection string to introspect"`
	Schema  string `long:"schema" env:"RELMAP_SCHEMA" description:"schema to introspect (default: the mapping's schema, then public)"`
	Strict  bool   `long:"strict" description:"fail when any key cannot be bound"`
	Prefix  string `long:"fk-prefix" default:"fk_" description:"prefix for generated foreign key names"`
	Dump    bool   `long:"dump" description:"dump the exported model to stderr"`

	opts *Options
}

func newOptions(ctx context.Context, stdout, stderr io.Writer) *Options {
	opts := &Options{
		ctx:    ctx,
		stdout: stdout,
		stderr: stderr,
	}
	opts.Check.opts = opts
	opts.Bind.opts = opts

	return opts
}
