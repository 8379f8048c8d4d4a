package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	// Save original environment to restore later
	originalEnv := make(map[string]string)
	envVars := []string{
		"LEASE_SERVER_PORT", "LEASE_SERVER_READ_TIMEOUT", "LEASE_SERVER_WRITE_TIMEOUT",
		"LEASE_SECURITY_ALLOWED_ORIGINS", "LEASE_SECURITY_ENABLE_CORS",
		"LEASE_LOGGING_LEVEL", "LEASE_LOGGING_FORMAT", "LEASE_LOGGING_OUTPUT",
		"LEASE_PATHS_DATA_DIR", "LEASE_PATHS_WEB_DIR", "LEASE_PATHS_LOGS_DIR",
		"LEASE_PROCESSING_MAX_UPLOAD_BYTES", "LEASE_PROCESSING_PROGRESS_EVERY",
	}

	for _, envVar := range envVars {
		originalEnv[envVar] = os.Getenv(envVar)
	}

	defer func() {
		for _, envVar := range envVars {
			if val, exists := originalEnv[envVar]; exists && val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func()
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)

				assert.Equal(t, int64(100<<20), cfg.Processing.MaxUploadBytes)
				assert.Equal(t, 50, cfg.Processing.ProgressEvery)
				assert.Equal(t, []string{".csv", ".xlsx", ".xls"}, cfg.Processing.AllowedExtensions)
			},
		},
		{
			name: "environment variables override defaults",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
				os.Setenv("LEASE_SERVER_PORT", "9090")
				os.Setenv("LEASE_LOGGING_LEVEL", "debug")
				os.Setenv("LEASE_PROCESSING_PROGRESS_EVERY", "25")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 25, cfg.Processing.ProgressEvery)
			},
		},
		{
			name: "invalid port from env",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
				os.Setenv("LEASE_SERVER_PORT", "99999")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "port too small",
			mutate:  func(cfg *Config) { cfg.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(cfg *Config) { cfg.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(cfg *Config) { cfg.Server.ReadTimeout = -1 },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(cfg *Config) { cfg.Security.AllowedOrigins = nil },
			wantErr: "at least one allowed origin",
		},
		{
			name:    "zero upload size",
			mutate:  func(cfg *Config) { cfg.Processing.MaxUploadBytes = 0 },
			wantErr: "max upload size must be positive",
		},
		{
			name:    "zero progress interval",
			mutate:  func(cfg *Config) { cfg.Processing.ProgressEvery = 0 },
			wantErr: "progress interval must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateCoercesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "console"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `
server:
  port: 3000
  read_timeout: 20s
logging:
  level: warn
processing:
  progress_every: 10
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := loadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Processing.ProgressEvery)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("server: [not a map"), 0644))

	_, err := loadFromFile(configPath)
	assert.Error(t, err)
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 3000
	fileCfg.Logging.Level = "warn"
	fileCfg.Processing.ProgressEvery = 10

	envCfg := Config{}
	envCfg.Server.Port = 9090 // env wins

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, 9090, merged.Server.Port)
	assert.Equal(t, "warn", merged.Logging.Level)
	assert.Equal(t, 10, merged.Processing.ProgressEvery)
}

func TestAllowsExtension(t *testing.T) {
	cfg := Default().Processing

	tests := []struct {
		ext  string
		want bool
	}{
		{".csv", true},
		{".CSV", true},
		{".xlsx", true},
		{".XLSX", true},
		{".xls", true},
		{".txt", false},
		{".pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.AllowsExtension(tt.ext))
		})
	}
}
