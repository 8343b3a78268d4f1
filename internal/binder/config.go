package binder

import "log/slog"

// Config holds configuration for the binding process.
type Config struct {
	// StrictMode fails Bind when any diagnostic error was recorded.
	StrictMode bool
	// ForeignKeyNamePrefix is prepended to generated foreign key names.
	ForeignKeyNamePrefix string
	// Logger receives progress messages. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default binding configuration.
func DefaultConfig() Config {
	return Config{
		StrictMode:           false,
		ForeignKeyNamePrefix: "fk_",
		Logger:               slog.Default(),
	}
}
