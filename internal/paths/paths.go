// Package paths resolves where a board keeps its files: the configuration
// directory, the data directory, the SQLite database file and an optional
// schema script.
//
// Every resolved path is absolute except the in-memory database name, which
// passes through untouched. A leading "~/" expands to the home directory.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user configuration directory.
const AppName = "taskboard"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".taskboard"

// DefaultDBFileName is the database file created in the data directory when
// no db_path is configured.
const DefaultDBFileName = "taskboard.db"

// MemoryDB is SQLite's private in-memory database name.
const MemoryDB = ":memory:"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TASKBOARD_CONFIG_DIR"
	EnvDataDir   = "TASKBOARD_DATA_DIR"
)

// ErrNoDataDir is returned when a relative database path has no data
// directory to anchor it.
var ErrNoDataDir = errors.New("relative db_path needs a data directory")

// Replaced in tests.
var (
	homeDir       = os.UserHomeDir
	userConfigDir = os.UserConfigDir
	workingDir    = os.Getwd
)

// ResolveConfigDir returns flag, else $TASKBOARD_CONFIG_DIR, else
// <user config dir>/taskboard ($XDG_CONFIG_HOME or ~/.config on Linux,
// ~/Library/Application Support on macOS, %AppData% on Windows).
func ResolveConfigDir(flag string) (string, error) {
	for _, dir := range []string{flag, os.Getenv(EnvConfigDir)} {
		if dir != "" {
			return absolute(dir)
		}
	}
	base, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// ResolveDataDir returns the first non-empty of flag, configValue and
// $TASKBOARD_DATA_DIR, else ./.taskboard. A board lives next to the
// project that uses it unless configured otherwise.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, dir := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return absolute(dir)
		}
	}
	cwd, err := workingDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveDBPath returns the database file for a board. An empty dbPath
// selects taskboard.db in dataDir; a relative one is taken inside dataDir.
func ResolveDBPath(dataDir, dbPath string) (string, error) {
	switch {
	case dbPath == MemoryDB:
		return dbPath, nil
	case dbPath == "":
		dbPath = DefaultDBFileName
	case isAbsolute(dbPath):
		return absolute(dbPath)
	}
	if dataDir == "" {
		return "", ErrNoDataDir
	}
	return absolute(filepath.Join(dataDir, dbPath))
}

// ResolveSchemaFile anchors a relative schema script at configDir, next to
// the config.yaml that names it. Empty means the embedded schema.
func ResolveSchemaFile(configDir, schemaFile string) (string, error) {
	switch {
	case schemaFile == "":
		return "", nil
	case isAbsolute(schemaFile):
		return absolute(schemaFile)
	}
	return absolute(filepath.Join(configDir, schemaFile))
}

func isAbsolute(p string) bool {
	return filepath.IsAbs(p) || p == "~" || strings.HasPrefix(p, "~/")
}

// absolute expands a leading "~" and makes p absolute.
func absolute(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
