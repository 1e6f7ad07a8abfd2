// Package config loads the taskboard configuration with Viper.
//
// Values come from config.yaml in the resolved config directory, from
// TASKBOARD_* environment variables, and from built-in defaults, in that
// order of precedence from lowest to highest: defaults, file, environment.
// The data directory follows the paths package chain instead.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TASKBOARD"
)

// Config keys.
const (
	KeyDataDir     = "data_dir"
	KeyDBPath      = "db_path"
	KeySchemaFile  = "schema_file"
	KeyEnv         = "env"
	KeyLogLevel    = "log_level"
	KeyServerPort  = "server.port"
	KeyCORSOrigins = "server.cors_allowed_origins"
)

// Defaults.
const (
	DefaultEnv      = types.EnvProduction
	DefaultLogLevel = "warn"
	DefaultPort     = "8080"
)

// envKeys are bound to TASKBOARD_<KEY>. data_dir is absent: its
// environment override is resolved by the paths package.
var envKeys = []string{KeyDBPath, KeySchemaFile, KeyEnv, KeyLogLevel, KeyServerPort, KeyCORSOrigins}

// fileConfig is the structure written to a fresh config.yaml.
type fileConfig struct {
	Env      string           `yaml:"env"`
	LogLevel string           `yaml:"log_level"`
	DataDir  string           `yaml:"data_dir,omitempty"`
	Server   fileServerConfig `yaml:"server"`
}

type fileServerConfig struct {
	Port               string   `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Load reads the configuration from configDir, creating the directory and
// a default config.yaml on first run. dataDirFlag, when non-empty, wins
// over every other data directory source. The returned DBPath and
// SchemaFile are resolved: the database path is never empty, and a
// relative schema_file is taken from configDir.
func Load(configDir, dataDirFlag string) (types.Config, error) {
	var cfg types.Config

	v, err := newViper(configDir)
	if err != nil {
		return cfg, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	cfg.DataDir, err = paths.ResolveDataDir(dataDirFlag, v.GetString(KeyDataDir))
	if err != nil {
		return cfg, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DBPath, err = paths.ResolveDBPath(cfg.DataDir, cfg.DBPath)
	if err != nil {
		return cfg, fmt.Errorf("resolve db path: %w", err)
	}
	cfg.SchemaFile, err = paths.ResolveSchemaFile(configDir, cfg.SchemaFile)
	if err != nil {
		return cfg, fmt.Errorf("resolve schema file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newViper(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := WriteDefault(configDir, ""); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyEnv, DefaultEnv)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyServerPort, DefaultPort)
	v.SetDefault(KeyCORSOrigins, []string{"*"})
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Missing config.yaml is not an error.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// WriteDefault creates config.yaml in configDir with default values unless
// the file already exists. dataDir is recorded when non-empty.
func WriteDefault(configDir, dataDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&fileConfig{
		Env:      DefaultEnv,
		LogLevel: DefaultLogLevel,
		DataDir:  dataDir,
		Server: fileServerConfig{
			Port:               DefaultPort,
			CORSAllowedOrigins: []string{"*"},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Path returns the config.yaml path inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}
