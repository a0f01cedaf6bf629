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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "data_dir: /srv/sweepbox\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Listen)
	assert.Equal(t, "/srv/sweepbox", cfg.DataDir)
	assert.Equal(t, "/srv/sweepbox/uploads", cfg.UploadDir)
	assert.Equal(t, "/srv/sweepbox/app.db", cfg.Database.Path)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, TokenModeUnsigned, cfg.Auth.TokenMode)
	assert.Equal(t, PasswordDigestSHA256, cfg.Auth.PasswordDigest)
	assert.False(t, cfg.Auth.LegacyLookup)
	assert.Equal(t, DeserializeModeStrict, cfg.Deserialize.Mode)
	assert.Equal(t, 16, cfg.Deserialize.MaxDepth)
	assert.True(t, cfg.Exec.Enabled)
	assert.Equal(t, "/bin/sh", cfg.Exec.Shell)
	assert.True(t, cfg.Retention.Enabled)
	assert.Equal(t, time.Minute, cfg.Retention.Interval)
	assert.Equal(t, time.Hour, cfg.Retention.MaxAge)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
listen: 0.0.0.0:8080
upload_dir: /tmp/up
max_upload_bytes: 1024
auth:
  token_mode: Signed
  token_secret: s3cret
  token_ttl: 2h
  password_digest: blake3
deserialize:
  mode: unrestricted
retention:
  interval: 10s
  max_age: 30m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, "/tmp/up", cfg.UploadDir)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, TokenModeSigned, cfg.Auth.TokenMode)
	assert.Equal(t, "s3cret", cfg.Auth.TokenSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, PasswordDigestBLAKE3, cfg.Auth.PasswordDigest)
	assert.Equal(t, DeserializeModeUnrestricted, cfg.Deserialize.Mode)
	assert.Equal(t, 10*time.Second, cfg.Retention.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Retention.MaxAge)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SWEEPBOX_EXEC_ENABLED", "false")
	t.Setenv("SWEEPBOX_RETENTION_MAX_AGE", "5m")

	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)

	assert.False(t, cfg.Exec.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Retention.MaxAge)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "signed without secret",
			content: "auth:\n  token_mode: signed\n",
			errMsg:  "token secret is required",
		},
		{
			name:    "unknown token mode",
			content: "auth:\n  token_mode: rot13\n",
			errMsg:  "unknown token mode",
		},
		{
			name:    "unknown digest",
			content: "auth:\n  password_digest: md5\n",
			errMsg:  "unknown password digest",
		},
		{
			name:    "unknown deserialize mode",
			content: "deserialize:\n  mode: pickle\n",
			errMsg:  "unknown deserialize mode",
		},
		{
			name:    "zero upload ceiling",
			content: "max_upload_bytes: 0\n",
			errMsg:  "max upload bytes",
		},
		{
			name:    "zero retention interval",
			content: "retention:\n  interval: 0s\n",
			errMsg:  "retention interval",
		},
		{
			name:    "exec without shell",
			content: "exec:\n  shell: \"\"\n",
			errMsg:  "exec shell is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_DisabledRetentionSkipsDurationChecks(t *testing.T) {
	cfg, err := Load(writeConfig(t, "retention:\n  enabled: false\n  interval: 0s\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Retention.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, IsLoopback("127.0.0.1:5000"))
	assert.True(t, IsLoopback("localhost:5000"))
	assert.True(t, IsLoopback("[::1]:5000"))
	assert.False(t, IsLoopback("0.0.0.0:5000"))
	assert.False(t, IsLoopback(":5000"))
	assert.False(t, IsLoopback("garbage"))
}
