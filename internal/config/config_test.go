package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"ECOTRACK_SERVER_PORT", "ECOTRACK_SERVER_READ_TIMEOUT", "ECOTRACK_SERVER_WRITE_TIMEOUT",
	"ECOTRACK_SECURITY_ALLOWED_ORIGINS", "ECOTRACK_SECURITY_ENABLE_CORS",
	"ECOTRACK_LOGGING_LEVEL", "ECOTRACK_LOGGING_OUTPUT", "ECOTRACK_LOGGING_FILE_PATH",
	"ECOTRACK_DATA_BASE_DIR", "ECOTRACK_DATA_INPUT_FILE", "ECOTRACK_DATA_CLEANED_FILE",
	"ECOTRACK_WEBSOCKET_READ_BUFFER_SIZE", "ECOTRACK_TELEMETRY_TRACE_EXPORTER",
	"ECOTRACK_CONFIG_FILE",
}

// clearEnv unsets all config variables and restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		if val, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, val) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultPort, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, []string{"http://localhost:8050"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, 50, cfg.Security.RateLimit.Burst)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, DefaultInputFile, cfg.Data.InputFile)
				assert.Equal(t, DefaultCleanedFile, cfg.Data.CleanedFile)

				assert.Equal(t, 1024, cfg.WebSocket.ReadBufferSize)
				assert.Equal(t, 54*time.Second, cfg.WebSocket.PingPeriod)
				assert.Equal(t, 60*time.Second, cfg.WebSocket.PongWait)

				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func(t *testing.T) {
				os.Setenv("ECOTRACK_SERVER_PORT", "9090")
				os.Setenv("ECOTRACK_SERVER_READ_TIMEOUT", "30s")
				os.Setenv("ECOTRACK_SECURITY_ALLOWED_ORIGINS", "http://example.com,https://example.com")
				os.Setenv("ECOTRACK_SECURITY_ENABLE_CORS", "false")
				os.Setenv("ECOTRACK_LOGGING_LEVEL", "debug")
				os.Setenv("ECOTRACK_DATA_CLEANED_FILE", "out/clean.csv")
				os.Setenv("ECOTRACK_WEBSOCKET_READ_BUFFER_SIZE", "2048")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.False(t, cfg.Security.EnableCORS)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "out/clean.csv", cfg.Data.CleanedFile)
				assert.Equal(t, 2048, cfg.WebSocket.ReadBufferSize)
			},
		},
		{
			name: "invalid port number",
			setupEnv: func(t *testing.T) {
				os.Setenv("ECOTRACK_SERVER_PORT", "99999")
			},
			wantErr: true,
		},
		{
			name: "zero port number",
			setupEnv: func(t *testing.T) {
				os.Setenv("ECOTRACK_SERVER_PORT", "0")
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			setupEnv: func(t *testing.T) {
				os.Setenv("ECOTRACK_SERVER_READ_TIMEOUT", "-5s")
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			setupEnv: func(t *testing.T) {
				os.Setenv("ECOTRACK_LOGGING_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "unknown trace exporter",
			setupEnv: func(t *testing.T) {
				os.Setenv("ECOTRACK_TELEMETRY_TRACE_EXPORTER", "otlp")
			},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			setupEnv: func(t *testing.T) {
				os.Setenv("ECOTRACK_SERVER_PORT", "7070")
				os.Setenv("ECOTRACK_LOGGING_LEVEL", "warn")

				configFile := filepath.Join(t.TempDir(), "config.yaml")
				content := `
server:
  port: 6060
  read_timeout: 20s
logging:
  level: error
data:
  input_file: raw/esg.csv
security:
  allowed_origins: ["http://file.example.com"]
`
				require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
				os.Setenv("ECOTRACK_CONFIG_FILE", configFile)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "raw/esg.csv", cfg.Data.InputFile)
				assert.Equal(t, []string{"http://file.example.com"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name: "config file that does not parse",
			setupEnv: func(t *testing.T) {
				configFile := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte("server: [unclosed"), 0644))
				os.Setenv("ECOTRACK_CONFIG_FILE", configFile)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

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

// TestLoadFromFile tests the loadFromFile function
func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "valid YAML config",
			fileContent: `
server:
  port: 9000
  read_timeout: 25s
security:
  allowed_origins: ["http://test.com"]
  enable_cors: false
logging:
  level: debug
data:
  cleaned_file: /tmp/cleaned.csv
websocket:
  read_buffer_size: 4096
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 25*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://test.com"}, cfg.Security.AllowedOrigins)
				assert.False(t, cfg.Security.EnableCORS)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "/tmp/cleaned.csv", cfg.Data.CleanedFile)
				assert.Equal(t, 4096, cfg.WebSocket.ReadBufferSize)
			},
		},
		{
			name:        "invalid YAML syntax",
			fileContent: "invalid: yaml: content: [unclosed",
			wantErr:     true,
		},
		{
			name: "partial config",
			fileContent: `
server:
  port: 8888
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8888, cfg.Server.Port)
				assert.Equal(t, time.Duration(0), cfg.Server.ReadTimeout)
				assert.Empty(t, cfg.Data.InputFile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))

			cfg, err := loadFromFile(configFile)

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

	t.Run("non-existent file", func(t *testing.T) {
		_, err := loadFromFile("/non/existent/file.yaml")
		assert.Error(t, err)
	})
}

// TestMergeConfigs tests the mergeConfigs function
func TestMergeConfigs(t *testing.T) {
	clearEnv(t)
	os.Setenv("ECOTRACK_SERVER_PORT", "7070")

	fileConfig := Config{
		Server:  ServerConfig{Port: 6060, ReadTimeout: 20 * time.Second},
		Logging: LoggingConfig{Level: "error"},
		Data:    DataConfig{InputFile: "file.csv"},
	}
	envConfig := *Default()
	envConfig.Server.Port = 7070

	merged := mergeConfigs(fileConfig, envConfig)

	assert.Equal(t, 7070, merged.Server.Port, "explicit env wins")
	assert.Equal(t, 20*time.Second, merged.Server.ReadTimeout)
	assert.Equal(t, "error", merged.Logging.Level)
	assert.Equal(t, "file.csv", merged.Data.InputFile)
	assert.Equal(t, DefaultCleanedFile, merged.Data.CleanedFile, "unset file values keep defaults")
}

// TestValidate tests the validate function
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid configuration", mutate: func(*Config) {}},
		{name: "invalid port - zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "invalid port - too high", mutate: func(c *Config) { c.Server.Port = 99999 }, wantErr: true},
		{name: "invalid read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = -time.Second }, wantErr: true},
		{name: "empty allowed origins", mutate: func(c *Config) { c.Security.AllowedOrigins = nil }, wantErr: true},
		{name: "empty input file", mutate: func(c *Config) { c.Data.InputFile = "" }, wantErr: true},
		{name: "bad log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }, wantErr: true},
		{
			name: "ping period not shorter than pong wait",
			mutate: func(c *Config) {
				c.WebSocket.PingPeriod = time.Minute
				c.WebSocket.PongWait = time.Minute
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetPaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Data.BaseDir = base
	cfg.Data.CleanedFile = "nested/out/cleaned.csv"

	paths, err := cfg.GetPaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, DefaultInputFile), paths.InputFile)
	assert.Equal(t, filepath.Join(base, "nested", "out", "cleaned.csv"), paths.CleanedFile)
	assert.Equal(t, filepath.Join(base, "nested", "out"), paths.CleanedDir)

	assert.Equal(t, filepath.Join(base, "logs", "ecotrack.log"), paths.LogFile)

	t.Run("absolute paths are kept", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "raw.csv")
		cfg.Data.InputFile = abs
		paths, err := cfg.GetPaths()
		require.NoError(t, err)
		assert.Equal(t, abs, paths.InputFile)
	})
}
