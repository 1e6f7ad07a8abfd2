// Package cli implements the taskboard command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/config"
	"github.com/mesh-intelligence/taskboard/internal/logger"
	"github.com/mesh-intelligence/taskboard/internal/models"
	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds the global flag values and the state loaded before a
// subcommand runs.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	cfg    types.Config
	log    *logger.Logger
	hasher models.Hasher
}

// NewRootCmd creates the top-level "taskboard" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{hasher: models.DefaultHasher})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "taskboard",
		Short:   "Users, tasks and tags in a local SQLite board",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newServeCmd(a),
		newUserCmd(a),
		newTaskCmd(a),
		newTagCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode separates bad input from system failures.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidField),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrUnchanged),
		errors.Is(err, errUsage):
		return exitUserError
	default:
		return exitSysError
	}
}

// load resolves the config directory, reads the configuration and builds
// the logger.
func (a *app) load(stderr io.Writer) error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	cfg, err := config.Load(configDir, a.dataDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, Out: stderr})
	return nil
}

// withStore connects the gateway, runs fn and closes the gateway on every
// exit path.
func (a *app) withStore(fn func(m *models.Manager) error) (err error) {
	g := sqlite.NewGateway(sqlite.Options{SchemaFile: a.cfg.SchemaFile, Logger: a.log})
	if err := g.Connect(a.cfg.DBPath); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := g.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	m := models.NewManager(g, models.WithHasher(a.hasher), models.WithLogger(a.log))
	return fn(m)
}
