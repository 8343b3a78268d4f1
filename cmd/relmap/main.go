// Package main provides the CLI entrypoint for relmap.
//
// relmap reads a mapping file that declares entities and their plural
// associations, binds every collection key to the columns it references and
// writes the resulting relational model:
//   - check validates a mapping file and prints diagnostics
//   - bind declares collection keys, optionally merges a live PostgreSQL
//     schema into the catalog, binds the keys and writes the model as YAML
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := newOptions(ctx, stdout, stderr)
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}

		logger, err := newLogger(stderr, opts.LogLevel, opts.LogFormat)
		if err != nil {
			return err
		}

		opts.logger = logger

		return cmd.Execute(args)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)

			return 0
		}

		fmt.Fprintf(stderr, "relmap: %v\n", err)

		return 1
	}

	return 0
}

// newLogger builds a slog logger writing text or JSON records to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
