package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "demo@example.com", cfg.DemoEmail)
	assert.Equal(t, "password", cfg.DemoPassword)
	assert.Equal(t, time.Second, cfg.PlatformUploadDelay)
	assert.True(t, cfg.SeedDemoVideos)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.WorkspaceSweepInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.WorkspaceIdleTimeout())
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PLATFORM_UPLOAD_DELAY", "250ms")
	t.Setenv("PLATFORM_FAILURE_RATE", "0.5")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.PlatformUploadDelay)
	assert.Equal(t, 0.5, cfg.PlatformFailureRate)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestParse_RejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"failure rate above one": {"PLATFORM_FAILURE_RATE", "1.5"},
		"negative delay":         {"PLATFORM_UPLOAD_DELAY", "-1s"},
		"port out of range":      {"PORT", "70000"},
		"auth key not base64":    {"SESSION_AUTH_KEY", "%%%"},
		"zero session max age":   {"SESSION_MAX_AGE", "0"},
		"zero sweep interval":    {"WORKSPACE_SWEEP_INTERVAL", "0s"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestSessionKeys(t *testing.T) {
	auth := base64.StdEncoding.EncodeToString(make([]byte, 64))
	enc := base64.StdEncoding.EncodeToString(make([]byte, 32))

	cfg := &Config{}
	keys, err := cfg.SessionKeys()
	require.NoError(t, err)
	assert.Nil(t, keys)

	cfg.SessionAuthKey = auth
	cfg.SessionEncryptionKey = enc
	keys, err = cfg.SessionKeys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Len(t, keys[0], 64)
	assert.Len(t, keys[1], 32)

	cfg.SessionEncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 7))
	_, err = cfg.SessionKeys()
	assert.Error(t, err)

	cfg = &Config{SessionEncryptionKey: enc}
	_, err = cfg.SessionKeys()
	assert.Error(t, err)
}
