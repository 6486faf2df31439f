package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.IdentityTTL)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 6, cfg.NotifyPerMinute)
	assert.NotEmpty(t, cfg.CredentialPath)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("AUTHGATE_API_URL", "https://api.example.com")
	t.Setenv("AUTHGATE_CREDENTIAL_FILE", "/tmp/cred")
	t.Setenv("AUTHGATE_IDENTITY_TTL", "90s")
	t.Setenv("AUTHGATE_REFRESH_INTERVAL", "2m")
	t.Setenv("AUTHGATE_REQUEST_TIMEOUT", "10s")
	t.Setenv("AUTHGATE_NOTIFY_PER_MINUTE", "12")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/cred", cfg.CredentialPath)
	assert.Equal(t, 90*time.Second, cfg.IdentityTTL)
	assert.Equal(t, 2*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 12, cfg.NotifyPerMinute)
}

func TestLoad_FileSuffixTakesPrecedence(t *testing.T) {
	secretFile := filepath.Join(t.TempDir(), "api_url")
	require.NoError(t, os.WriteFile(secretFile, []byte("https://from-file.example.com\n"), 0o600))
	t.Setenv("AUTHGATE_API_URL", "https://from-env.example.com")
	t.Setenv("AUTHGATE_API_URL_FILE", secretFile)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://from-file.example.com", cfg.APIBaseURL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("AUTHGATE_IDENTITY_TTL", "not-a-duration")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTHGATE_IDENTITY_TTL")
}

func TestValidate(t *testing.T) {
	valid := &Config{
		APIBaseURL:      "http://localhost:8080",
		CredentialPath:  "/tmp/cred",
		IdentityTTL:     time.Minute,
		RefreshInterval: time.Minute,
		NotifyPerMinute: 6,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base URL", func(c *Config) { c.APIBaseURL = "" }},
		{"non-http base URL", func(c *Config) { c.APIBaseURL = "ftp://example.com" }},
		{"empty credential path", func(c *Config) { c.CredentialPath = "" }},
		{"non-positive identity TTL", func(c *Config) { c.IdentityTTL = 0 }},
		{"non-positive refresh interval", func(c *Config) { c.RefreshInterval = -time.Second }},
		{"non-positive notify rate", func(c *Config) { c.NotifyPerMinute = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
