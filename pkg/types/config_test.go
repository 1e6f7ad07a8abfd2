package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty data dir and db path returns ErrDataDirEmpty",
			config:  Config{Server: ServerConfig{Port: "8080"}},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "unknown env returns ErrEnvUnknown",
			config:  Config{DataDir: "/tmp/data", Env: "staging", Server: ServerConfig{Port: "8080"}},
			wantErr: ErrEnvUnknown,
		},
		{
			name:    "empty port returns ErrServerPortEmpty",
			config:  Config{DataDir: "/tmp/data"},
			wantErr: ErrServerPortEmpty,
		},
		{
			name:    "valid config with data dir",
			config:  Config{DataDir: "/tmp/data", Env: EnvDevelopment, Server: ServerConfig{Port: "8080"}},
			wantErr: nil,
		},
		{
			name:    "db path alone is valid",
			config:  Config{DBPath: "/tmp/data/x.db", Server: ServerConfig{Port: "8080"}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
