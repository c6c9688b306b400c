package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Rippling    RipplingConfig    `mapstructure:"rippling"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Filter      FilterConfig      `mapstructure:"filter"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Update      UpdateConfig      `mapstructure:"update"`
}

// RipplingConfig selects the API the client talks to
type RipplingConfig struct {
	Environment string        `mapstructure:"environment"`
	LocalURL    string        `mapstructure:"local_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CredentialsConfig controls where the session is persisted
type CredentialsConfig struct {
	Store string `mapstructure:"store"`
	Path  string `mapstructure:"path"`
}

// FilterConfig contains the default filter and named presets
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]PresetConfig `mapstructure:"presets"`
}

// PresetConfig is a named leave request filter
type PresetConfig struct {
	Expression  string `mapstructure:"expression"`
	Description string `mapstructure:"description"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// UpdateConfig contains self-update settings
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
