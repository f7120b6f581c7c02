package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantAddress string
		wantMemory  bool
		wantErr     bool
	}{
		{
			name:        "defaults",
			env:         map[string]string{},
			wantAddress: ":4000",
			wantMemory:  true,
		},
		{
			name:        "port",
			env:         map[string]string{"PORT": "8080"},
			wantAddress: ":8080",
			wantMemory:  true,
		},
		{
			name:        "run address overrides port",
			env:         map[string]string{"PORT": "8080", "RUN_ADDRESS": "127.0.0.1:9000"},
			wantAddress: "127.0.0.1:9000",
			wantMemory:  true,
		},
		{
			name:        "database",
			env:         map[string]string{"DATABASE_URI": "postgres://u:p@localhost:5432/bt?sslmode=disable"},
			wantAddress: ":4000",
		},
		{
			name:    "bad port",
			env:     map[string]string{"PORT": "70000"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for _, key := range []string{"APP_ENV", "LOG_LEVEL", "PORT", "RUN_ADDRESS", "DATABASE_URI", "SHUTDOWN_TIMEOUT_SECONDS"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddress, cfg.Server.RunAddress)
			assert.Equal(t, tt.wantMemory, cfg.UsesMemoryStorage())
			assert.Equal(t, "local", cfg.Env)
			assert.Equal(t, "info", cfg.Logger.LogLevel)
			assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
		})
	}
}
