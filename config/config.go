package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the client configuration
type Config struct {
	APIBaseURL      string        // Backend API base URL
	RequestTimeout  time.Duration // Per-request HTTP timeout
	CredentialPath  string        // File the bearer credential persists to
	IdentityTTL     time.Duration // Identity cache staleness window
	RefreshInterval time.Duration // Credential refresh cadence
	NotifyPerMinute int           // Notification rate limit per failure category
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		APIBaseURL:      getEnv("AUTHGATE_API_URL", "http://localhost:8080"),
		RequestTimeout:  30 * time.Second,
		CredentialPath:  getEnv("AUTHGATE_CREDENTIAL_FILE", defaultCredentialPath()),
		IdentityTTL:     5 * time.Minute,
		RefreshInterval: 5 * time.Minute,
		NotifyPerMinute: 6,
	}

	if v := os.Getenv("AUTHGATE_REQUEST_TIMEOUT"); v != "" {
		duration, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTHGATE_REQUEST_TIMEOUT format: %w", err)
		}
		config.RequestTimeout = duration
	}

	if v := os.Getenv("AUTHGATE_IDENTITY_TTL"); v != "" {
		duration, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTHGATE_IDENTITY_TTL format: %w", err)
		}
		config.IdentityTTL = duration
	}

	if v := os.Getenv("AUTHGATE_REFRESH_INTERVAL"); v != "" {
		duration, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTHGATE_REFRESH_INTERVAL format: %w", err)
		}
		config.RefreshInterval = duration
	}

	if v := os.Getenv("AUTHGATE_NOTIFY_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTHGATE_NOTIFY_PER_MINUTE format: %w", err)
		}
		config.NotifyPerMinute = n
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("AUTHGATE_API_URL cannot be empty")
	}

	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("AUTHGATE_API_URL must be an http(s) URL")
	}

	if c.CredentialPath == "" {
		return fmt.Errorf("AUTHGATE_CREDENTIAL_FILE cannot be empty")
	}

	if c.IdentityTTL <= 0 {
		return fmt.Errorf("AUTHGATE_IDENTITY_TTL must be positive")
	}

	if c.RefreshInterval <= 0 {
		return fmt.Errorf("AUTHGATE_REFRESH_INTERVAL must be positive")
	}

	if c.NotifyPerMinute <= 0 {
		return fmt.Errorf("AUTHGATE_NOTIFY_PER_MINUTE must be positive")
	}

	return nil
}

func defaultCredentialPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "authgate", "credential")
	}
	return filepath.Join(home, ".authgate", "credential")
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
