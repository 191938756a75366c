// Package config loads dayboard configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix maps DAYBOARD_STORE_PATH to store.path, and so on.
const envPrefix = "DAYBOARD_"

// Config holds the complete dayboard configuration.
type Config struct {
	Store     StoreConfig     `koanf:"store"`
	Principal PrincipalConfig `koanf:"principal"`
	Calendar  CalendarConfig  `koanf:"calendar"`
	Report    ReportConfig    `koanf:"report"`
	Log       LogConfig       `koanf:"log"`
}

// StoreConfig locates the task store database.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// PrincipalConfig identifies the signed-in user.
type PrincipalConfig struct {
	ID    string `koanf:"id"`
	Name  string `koanf:"name"`
	Email string `koanf:"email"`
}

// CalendarConfig configures the external calendar connection.
type CalendarConfig struct {
	CalendarID      string `koanf:"calendar_id"`
	CredentialsFile string `koanf:"credentials_file"`
	TokenFile       string `koanf:"token_file"`
}

// ReportConfig configures report drafting.
type ReportConfig struct {
	Model string `koanf:"model"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Load reads configuration with precedence: environment variables over the
// YAML file over defaults. An empty path means ~/.dayboard/config.yaml; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".dayboard", "config.yaml")
	}

	k := koanf.New(".")

	cfg := defaults()
	if b, err := os.ReadFile(path); err == nil {
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Principal: PrincipalConfig{ID: "local"},
		Log:       LogConfig{Level: "info"},
	}
}
