package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/storefront_chatbot/internal/storage_manager"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// setupTestEnv clears every variable the AppConfig reads and applies env.
func setupTestEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, name := range []string{
		"LOG_LEVEL", "LOG_FORMAT", "SERVICE_NAME", "ENVIRONMENT", "HTTP_PORT", "DATABASE_URL",
		"REDIS_URL", "METRICS_EXPOSE", "METRICS_PORT", "STORAGE_BACKEND", "STORAGE_S3_BUCKET",
		"TELEGRAM_BOT_TOKEN", "CORS_ALLOWED_ORIGINS", "HEALTH_DEPENDENCY_URLS",
	} {
		t.Setenv(name, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *AppConfig)
		wantErr string
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *AppConfig) {
				assert.Equal(t, "storefront-chatbot", cfg.ServiceName)
				assert.Equal(t, 8000, cfg.HTTP.Port)
				assert.Equal(t, "sqlite:///./storefront.db", cfg.Database.URL)
				assert.True(t, cfg.Database.AutoMigrate)
				assert.False(t, cfg.Redis.Enabled())
				assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Security.CORSAllowedOrigins)
				assert.Equal(t, "X-User-ID", cfg.Security.UserIDHeader)
				assert.Equal(t, "local", cfg.Storage.Backend)
				assert.Equal(t, 5*time.Second, cfg.Health.Timeout)
				assert.Equal(t, 15*time.Second, cfg.Telegram.ReplyTimeout)
				assert.False(t, cfg.Telegram.Enabled())
				assert.True(t, cfg.IsDevelopment())
				assert.Equal(t, logger.InfoLevel, cfg.GetLogLevel())
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"LOG_LEVEL":            "debug",
				"ENVIRONMENT":          "production",
				"HTTP_PORT":            "9000",
				"DATABASE_URL":         "postgres://shop:secret@db:5432/shop",
				"REDIS_URL":            "redis://cache:6379/0",
				"TELEGRAM_BOT_TOKEN":   "123:abc",
				"CORS_ALLOWED_ORIGINS": "https://shop.example",
			},
			check: func(t *testing.T, cfg *AppConfig) {
				assert.Equal(t, logger.DebugLevel, cfg.GetLogLevel())
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, 9000, cfg.HTTP.Port)
				assert.Equal(t, "postgres", cfg.Database.Driver())
				assert.True(t, cfg.Redis.Enabled())
				assert.True(t, cfg.Telegram.Enabled())
				assert.Equal(t, []string{"https://shop.example"}, cfg.Security.CORSAllowedOrigins)
			},
		},
		{
			name:    "s3 storage needs a bucket",
			env:     map[string]string{"STORAGE_BACKEND": "s3"},
			wantErr: "storage s3_bucket is required",
		},
		{
			name:    "unknown storage backend",
			env:     map[string]string{"STORAGE_BACKEND": "git"},
			wantErr: "storage backend must be one of",
		},
		{
			name:    "metrics port collides with http",
			env:     map[string]string{"METRICS_EXPOSE": "true", "METRICS_PORT": "8000"},
			wantErr: "collides with http port",
		},
		{
			name:    "errors are aggregated",
			env:     map[string]string{"LOG_LEVEL": "loud", "DATABASE_URL": "mysql://x"},
			wantErr: "2 errors occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnv(t, tt.env)

			cfg, err := Load("")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	setupTestEnv(t, map[string]string{"HTTP_PORT": "8100"})
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: warn
service_name: shop-assistant
http:
  http_port: 7000
database:
  url: memory://
storage:
  backend: s3
  s3_bucket: catalog-drops
  s3_region: eu-west-1
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shop-assistant", cfg.ServiceName)
	assert.Equal(t, logger.WarnLevel, cfg.GetLogLevel())
	assert.Equal(t, 8100, cfg.HTTP.Port, "environment wins over the file")
	assert.Equal(t, "memory", cfg.Database.Driver())

	manager := cfg.Storage.ManagerConfig()
	assert.Equal(t, storage_manager.BackendS3, manager.Backend)
	assert.Equal(t, "catalog-drops", manager.Bucket)
	assert.Equal(t, "eu-west-1", manager.Region)
}

func TestLoadMissingFile(t *testing.T) {
	setupTestEnv(t, nil)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
