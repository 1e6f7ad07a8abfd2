package types

import "errors"

// Config holds the storage and runtime parameters shared by the CLI and the
// HTTP server.
type Config struct {
	DataDir    string       `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	DBPath     string       `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
	SchemaFile string       `json:"schema_file" yaml:"schema_file" mapstructure:"schema_file"`
	Env        string       `json:"env" yaml:"env" mapstructure:"env"`
	LogLevel   string       `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Server     ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port               string   `json:"port" yaml:"port" mapstructure:"port"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" mapstructure:"cors_allowed_origins"`
}

// Runtime environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config validation errors.
var (
	ErrDataDirEmpty    = errors.New("data_dir or db_path must be set")
	ErrEnvUnknown      = errors.New("unknown environment")
	ErrServerPortEmpty = errors.New("server port must not be empty")
)

var knownEnvs = map[string]bool{
	EnvDevelopment: true,
	EnvProduction:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" && c.DBPath == "" {
		return ErrDataDirEmpty
	}
	if c.Env != "" && !knownEnvs[c.Env] {
		return ErrEnvUnknown
	}
	if c.Server.Port == "" {
		return ErrServerPortEmpty
	}
	return nil
}
