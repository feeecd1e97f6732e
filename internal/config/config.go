package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultAppID          = "com.example.simplesafdemo"
	DefaultPrivateDirName = "SimpleSAFDemo"
	DefaultSampleImage    = "https://go.dev/blog/go-brand/Go-Logo/PNG/Go-Logo_Blue.png"
)

var validate = validator.New()

// Config holds application configuration.
type Config struct {
	AppID     string `validate:"required,hostname_rfc1123"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=console json"`

	// SampleImage is the URI of the picture shown on screen and saved by every action.
	SampleImage string `validate:"required,uri"`

	// PrivateDirName is the folder created under the private storage root.
	PrivateDirName string `validate:"required,excludesall=/\\"`
	// PrivateRoot overrides the app storage root when set.
	PrivateRoot string
	// LegacyRoot is used when no private storage root is available.
	LegacyRoot string
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		AppID:          getEnv("APP_ID", DefaultAppID),
		LogLevel:       normalizeLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "console")),
		SampleImage:    getEnv("SAFDEMO_SAMPLE_IMAGE", DefaultSampleImage),
		PrivateDirName: getEnv("SAFDEMO_PRIVATE_DIR", DefaultPrivateDirName),
		PrivateRoot:    os.Getenv("SAFDEMO_PRIVATE_ROOT"),
		LegacyRoot:     getEnv("SAFDEMO_LEGACY_ROOT", defaultLegacyRoot()),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate runs the struct tag checks.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func normalizeLevel(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return "debug"
	case "warn", "warning":
		return "warn"
	case "error":
		return "error"
	case "info":
		return "info"
	default:
		if os.Getenv("DEBUG") == "1" {
			return "debug"
		}
		return "info"
	}
}

// defaultLegacyRoot is the user's shared pictures folder.
func defaultLegacyRoot() string {
	if xdg.UserDirs.Pictures != "" {
		return xdg.UserDirs.Pictures
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, "Pictures")
}
