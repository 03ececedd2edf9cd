// Package config provides configuration loading and management for semschema.
package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/c360studio/semstreams/pkg/retry"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semschema/source"
	"github.com/c360studio/semschema/validator"
)

// Config represents the complete semschema configuration
type Config struct {
	Base      BaseConfig      `yaml:"base"`
	Source    SourceConfig    `yaml:"source"`
	Validator ValidatorConfig `yaml:"validator"`
	Log       LogConfig       `yaml:"log"`
}

// BaseConfig selects the base vocabularies an extension is merged with
type BaseConfig struct {
	// Names overrides the base names derived from the extension's @context
	Names []string `yaml:"names,omitempty"`
	// SchemaOrgURL is the schema.org JSON-LD release to load
	SchemaOrgURL string `yaml:"schema_org_url"`
	// RegistryURL is the schema registry for every other base name
	RegistryURL string `yaml:"registry_url"`
}

// SourceConfig configures document loading
type SourceConfig struct {
	// CacheTTL is how long fetched base vocabularies are reused
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// HTTPTimeout bounds a single remote request
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// RetryAttempts is the number of attempts for a remote document
	RetryAttempts int `yaml:"retry_attempts"`
	// Debounce is the quiet period of the file watcher
	Debounce time.Duration `yaml:"debounce"`
}

// ValidatorConfig configures schema validation. Unset booleans keep the
// validator defaults.
type ValidatorConfig struct {
	RaiseOnError    *bool  `yaml:"raise_on_error,omitempty"`
	ValidationMerge *bool  `yaml:"validation_merge,omitempty"`
	SubClassCheck   *bool  `yaml:"subclass_check,omitempty"`
	Root            string `yaml:"root,omitempty"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Base: BaseConfig{
			SchemaOrgURL: source.DefaultSchemaOrgURL,
			RegistryURL:  source.DefaultRegistryURL,
		},
		Source: SourceConfig{
			CacheTTL:      24 * time.Hour,
			HTTPTimeout:   30 * time.Second,
			RetryAttempts: 3,
			Debounce:      source.DefaultDebounce,
		},
		Validator: ValidatorConfig{
			RaiseOnError:    boolPtr(true),
			ValidationMerge: boolPtr(true),
			SubClassCheck:   boolPtr(false),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Base.SchemaOrgURL == "" {
		return fmt.Errorf("base.schema_org_url is required")
	}
	if c.Base.RegistryURL == "" {
		return fmt.Errorf("base.registry_url is required")
	}
	if c.Source.CacheTTL < 0 {
		return fmt.Errorf("source.cache_ttl must not be negative")
	}
	if c.Source.HTTPTimeout <= 0 {
		return fmt.Errorf("source.http_timeout must be positive")
	}
	if c.Source.RetryAttempts < 1 {
		return fmt.Errorf("source.retry_attempts must be at least 1")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	partial, err := readFile(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	if err := config.Merge(partial); err != nil {
		return nil, err
	}
	return config, nil
}

// readFile decodes a YAML file without applying defaults, so only the keys
// present in the file are set.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one. Non-zero values of other take
// precedence; a set boolean overrides even when it is false.
func (c *Config) Merge(other *Config) error {
	if other == nil {
		return nil
	}
	if err := mergo.Merge(c, other, mergo.WithOverride, mergo.WithoutDereference); err != nil {
		return fmt.Errorf("merge config: %w", err)
	}
	return nil
}

// ProviderConfig returns the base provider settings.
func (c *Config) ProviderConfig() source.ProviderConfig {
	return source.ProviderConfig{
		SchemaOrgURL: c.Base.SchemaOrgURL,
		RegistryURL:  c.Base.RegistryURL,
		CacheTTL:     c.Source.CacheTTL,
	}
}

// LoaderOptions returns the document loader settings.
func (c *Config) LoaderOptions(logger *slog.Logger) []source.LoaderOption {
	policy := retry.DefaultConfig()
	policy.MaxAttempts = c.Source.RetryAttempts
	return []source.LoaderOption{
		source.WithHTTPClient(&http.Client{Timeout: c.Source.HTTPTimeout}),
		source.WithRetry(policy),
		source.WithLoaderLogger(logger),
	}
}

// ValidatorOptions returns the validator settings that are set.
func (c *Config) ValidatorOptions() []validator.Option {
	var opts []validator.Option
	if v := c.Validator.RaiseOnError; v != nil {
		opts = append(opts, validator.WithRaiseOnError(*v))
	}
	if v := c.Validator.ValidationMerge; v != nil {
		opts = append(opts, validator.WithValidationMerge(*v))
	}
	if v := c.Validator.SubClassCheck; v != nil {
		opts = append(opts, validator.WithSubClassCheck(*v))
	}
	if c.Validator.Root != "" {
		opts = append(opts, validator.WithRoot(c.Validator.Root))
	}
	return opts
}

// ParseLevel converts a level name to a slog level. The empty string is
// info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level %q", level)
}

func boolPtr(b bool) *bool { return &b }
