package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/ptoctl/credstore"
	"github.com/s0up4200/ptoctl/rippling"
)

// Environments the client can target
const (
	EnvironmentProduction = "production"
	EnvironmentLocal      = "local"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. PTOCTL_RIPPLING_ENVIRONMENT.
const EnvPrefix = "PTOCTL"

const appDir = ".ptoctl"

// Load loads the configuration from file, .env and the environment.
// A missing config file is not an error unless configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, appDir))
		}
		v.AddConfigPath("/etc/ptoctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Rippling defaults
	v.SetDefault("rippling.environment", EnvironmentProduction)
	v.SetDefault("rippling.local_url", "http://localhost:8080/api/")
	v.SetDefault("rippling.timeout", 30*time.Second)

	// Credential defaults
	v.SetDefault("credentials.store", credstore.KindFile)
	v.SetDefault("credentials.path", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("filter.default_expression", "")
	v.SetDefault("update.repository", "s0up4200/ptoctl")
}

// validate checks the configuration and reports every problem at once
func validate(cfg *Config) error {
	var result *multierror.Error

	switch cfg.Rippling.Environment {
	case EnvironmentProduction:
	case EnvironmentLocal:
		if cfg.Rippling.LocalURL == "" {
			result = multierror.Append(result, fmt.Errorf("rippling.local_url is required when rippling.environment is %q", EnvironmentLocal))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("invalid rippling.environment: %s", cfg.Rippling.Environment))
	}

	if cfg.Rippling.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("rippling.timeout must be positive"))
	}

	switch cfg.Credentials.Store {
	case credstore.KindFile, credstore.KindBolt:
	default:
		result = multierror.Append(result, fmt.Errorf("invalid credentials.store: %s", cfg.Credentials.Store))
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		result = multierror.Append(result, fmt.Errorf("invalid logging level: %s", cfg.Logging.Level))
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		result = multierror.Append(result, fmt.Errorf("invalid logging format: %s", cfg.Logging.Format))
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			result = multierror.Append(result, fmt.Errorf("filter.presets.%s.expression is required", name))
		}
	}

	return result.ErrorOrNil()
}

// BaseURL returns the API base URL for the configured environment
func (c *Config) BaseURL() string {
	if c.Rippling.Environment == EnvironmentLocal {
		return c.Rippling.LocalURL
	}
	return rippling.ProductionURL
}

// CredentialsPath returns the configured credential location, falling back to
// a file under the user's home directory chosen by store kind.
func (c *Config) CredentialsPath() (string, error) {
	if c.Credentials.Path != "" {
		return c.Credentials.Path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	name := "credentials.yaml"
	if c.Credentials.Store == credstore.KindBolt {
		name = "credentials.db"
	}
	return filepath.Join(home, appDir, name), nil
}
