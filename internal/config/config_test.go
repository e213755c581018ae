package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, SessionStoreSQL, cfg.SessionStore)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Content.Seed)
	assert.False(t, cfg.BadWords.Seed)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database:     Database{Type: "sqlite"},
			SessionStore: SessionStoreSQL,
			RateLimit:    RateLimit{Requests: 10, Window: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"postgres without url", func(c *Config) { c.Database.Type = "postgres" }, true},
		{"postgres with url", func(c *Config) { c.Database.Type = "postgres"; c.Database.URL = "postgres://x" }, false},
		{"unknown database", func(c *Config) { c.Database.Type = "oracle" }, true},
		{"unknown store", func(c *Config) { c.SessionStore = "disk" }, true},
		{"redis without url", func(c *Config) { c.SessionStore = SessionStoreRedis }, true},
		{"zero rate limit", func(c *Config) { c.RateLimit.Requests = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
