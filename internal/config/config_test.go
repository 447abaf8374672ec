package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SERVER_PORT", "AUTH_DISABLED", "MAX_UPLOAD_BYTES", "SIGNED_URL_TTL", "S3_USE_SSL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.False(t, cfg.AuthDisabled)
	assert.True(t, cfg.S3UseSSL)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, time.Hour, cfg.SignedURLTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("SIGNED_URL_TTL", "15m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.True(t, cfg.AuthDisabled)
	assert.Equal(t, 15*time.Minute, cfg.SignedURLTTL)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Env: "development", JWTSecret: "s3cret", S3Bucket: "docs", MaxUploadBytes: 1}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid development", mutate: func(*Config) {}},
		{name: "unknown env", mutate: func(c *Config) { c.Env = "staging" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "default secret in production", mutate: func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, wantErr: true},
		{name: "auth disabled in production", mutate: func(c *Config) {
			c.Env = "production"
			c.AuthDisabled = true
		}, wantErr: true},
		{name: "auth disabled in development", mutate: func(c *Config) { c.AuthDisabled = true }},
		{name: "missing bucket", mutate: func(c *Config) { c.S3Bucket = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
