// Package sqlite provides the public API for the SQLite Store Gateway.
// It exposes the factory while keeping the implementation internal.
package sqlite

import (
	"io"

	"github.com/mesh-intelligence/taskboard/internal/logger"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Config selects the schema script and where gateway logs go.
type Config struct {
	// SchemaFile replaces the embedded schema when set.
	SchemaFile string

	// LogOutput receives JSON log lines. Nil discards them.
	LogOutput io.Writer

	// LogLevel is a zerolog level name; empty means info.
	LogLevel string
}

// NewGateway creates a disconnected Store. Call Connect with a database
// path before use.
//
// Example:
//
//	store := sqlite.NewGateway(sqlite.Config{LogOutput: os.Stderr})
//	if err := store.Connect("tasks.db"); err != nil {
//	    return err
//	}
//	defer store.Close()
func NewGateway(cfg Config) types.Store {
	opts := sqlite.Options{SchemaFile: cfg.SchemaFile}
	if cfg.LogOutput != nil {
		opts.Logger = logger.New(logger.Options{Out: cfg.LogOutput, Level: cfg.LogLevel})
	}
	return sqlite.NewGateway(opts)
}
