// Package config provides configuration management for shadowfmt.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (SHADOWFMT_ prefix)
//  3. Config file (.shadowfmt.yaml)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Coalescing strategies for watch notifications.
const (
	CoalesceToggle   = "toggle"
	CoalesceDebounce = "debounce"
)

// Defaults for the shadow tree options.
const (
	DefaultSource       = "src"
	DefaultCache        = ".prettier"
	DefaultDebounce     = 200 * time.Millisecond
	DefaultBatchWindow  = 50 * time.Millisecond
	DefaultExitLogLevel = LogLevelError
)

// DefaultIncludes are the files outside the source tree that are formatted
// on activation.
var DefaultIncludes = []string{"package.json"}

// Config represents the global configuration for shadowfmt.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Source is the directory of editable source files.
	Source string `mapstructure:"source" json:"source"`

	// Cache is the shadow directory the host build reads from in watch mode.
	Cache string `mapstructure:"cache" json:"cache"`

	// Includes are extra files formatted on activation, relative to the
	// working directory.
	Includes []string `mapstructure:"includes" json:"includes"`

	// Exclude holds gitignore-style patterns, relative to Source, for files
	// that are never formatted.
	Exclude []string `mapstructure:"exclude" json:"exclude"`

	// Coalesce selects how duplicate watch notifications are absorbed.
	// Valid values: toggle, debounce.
	Coalesce string `mapstructure:"coalesce" json:"coalesce"`

	// Debounce is the quiet period of the debounce strategy.
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`

	// BatchWindow is the quiet period that closes a batch of notifications.
	BatchWindow time.Duration `mapstructure:"batch-window" json:"batchWindow"`

	// ExitLogLevel is the verbosity threshold for the shutdown cleanup.
	ExitLogLevel string `mapstructure:"exit-log-level" json:"exitLogLevel"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:     LogLevelInfo,
		LogFormat:    LogFormatText,
		Source:       DefaultSource,
		Cache:        DefaultCache,
		Includes:     append([]string(nil), DefaultIncludes...),
		Coalesce:     CoalesceToggle,
		Debounce:     DefaultDebounce,
		BatchWindow:  DefaultBatchWindow,
		ExitLogLevel: DefaultExitLogLevel,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if !validLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source must not be empty")
	}

	if strings.TrimSpace(c.Cache) == "" {
		return errors.New("cache must not be empty")
	}

	switch c.Coalesce {
	case CoalesceToggle, CoalesceDebounce:
		// valid
	default:
		return fmt.Errorf("invalid coalesce strategy %q: must be one of toggle, debounce", c.Coalesce)
	}

	if c.Debounce <= 0 {
		return fmt.Errorf("invalid debounce %s: must be positive", c.Debounce)
	}

	if c.BatchWindow <= 0 {
		return fmt.Errorf("invalid batch window %s: must be positive", c.BatchWindow)
	}

	if !validLogLevel(c.ExitLogLevel) {
		return fmt.Errorf("invalid exit log level %q: must be one of debug, info, warn, error", c.ExitLogLevel)
	}

	return nil
}

func validLogLevel(level string) bool {
	switch level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}

	return false
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("source", d.Source)
	v.SetDefault("cache", d.Cache)
	v.SetDefault("includes", d.Includes)
	v.SetDefault("exclude", []string{})
	v.SetDefault("coalesce", d.Coalesce)
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("batch-window", d.BatchWindow)
	v.SetDefault("exit-log-level", d.ExitLogLevel)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("SHADOWFMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".shadowfmt")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "shadowfmt"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}
type ctxFileKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}

// NewContextWithConfigFile returns a child context carrying the resolved
// config file path.
func NewContextWithConfigFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ctxFileKey{}, path)
}

// ConfigFileFromContext extracts the config file path from ctx.
// Returns empty string if no config file was resolved.
func ConfigFileFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(ctxFileKey{}).(string); ok {
		return p
	}

	return ""
}
