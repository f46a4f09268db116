// Package config handles runtime configuration.
//
// Settings are loaded from environment variables with the SCRTWALLET
// prefix, with sensible defaults for local use. Secrets (passwords,
// mnemonics) are never part of the configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "scrtwallet"

// Config holds application runtime configuration.
type Config struct {
	// Keystore
	KeystoreDir string `envconfig:"KEYSTORE_DIR"`

	// Transaction policy, denominated in the smallest unit.
	SpendingLimit         int64  `envconfig:"SPENDING_LIMIT" default:"10000000"`
	ConfirmationThreshold int64  `envconfig:"CONFIRMATION_THRESHOLD" default:"1000000"`
	Denom                 string `envconfig:"DENOM" default:"uscrt"`

	// Rate limiting for sensitive operations.
	RateLimitMaxCalls int           `envconfig:"RATE_LIMIT_MAX_CALLS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}
	if cfg.KeystoreDir == "" {
		cfg.KeystoreDir = DefaultKeystoreDir()
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.KeystoreDir == "" {
		return fmt.Errorf("keystore dir must not be empty")
	}
	if cfg.SpendingLimit < 0 {
		return fmt.Errorf("spending limit must not be negative")
	}
	if cfg.ConfirmationThreshold < 0 {
		return fmt.Errorf("confirmation threshold must not be negative")
	}
	if cfg.Denom == "" {
		return fmt.Errorf("denom must not be empty")
	}
	if cfg.RateLimitMaxCalls <= 0 {
		return fmt.Errorf("rate limit max calls must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	return nil
}

// DefaultKeystoreDir returns the platform-specific default keystore
// directory.
//
//	Linux:   ~/.scrtwallet/keystore
//	macOS:   ~/Library/Application Support/Scrtwallet/keystore
//	Windows: %APPDATA%\Scrtwallet\keystore
func DefaultKeystoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".scrtwallet", "keystore")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Scrtwallet", "keystore")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Scrtwallet", "keystore")
		}
		return filepath.Join(home, "AppData", "Roaming", "Scrtwallet", "keystore")
	default:
		return filepath.Join(home, ".scrtwallet", "keystore")
	}
}
