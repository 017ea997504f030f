package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, time.Hour, cfg.TTL.GlobalM2.Std())
	assert.Equal(t, 15*time.Minute, cfg.TTL.ETFFlows.Std())
	assert.Equal(t, 15, cfg.Sources.TreasuryTop)
	assert.Equal(t, "2013-01-01", cfg.Sources.MVRVStart)
	assert.True(t, cfg.Refresh.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: production
server:
  port: 9090
cache:
  type: redis
ttl:
  mvrv: 5m
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, 5*time.Minute, cfg.TTL.MVRV.Std())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad cache type", "cache:\n  type: mongo\n"},
		{"bad mvrv start", "sources:\n  mvrv_start: January 2013\n"},
		{"non-positive ttl", "ttl:\n  ahr999: -1m\n"},
		{"mock and synthetic", "sources:\n  mock: true\n  synthetic: true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("MOCK_SOURCES", "true")
	t.Setenv("CACHE_TYPE", "memory")

	cfg, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Sources.Mock)
}
