package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/semschema/source"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Base.SchemaOrgURL != source.DefaultSchemaOrgURL {
		t.Errorf("expected default schema.org URL, got %s", cfg.Base.SchemaOrgURL)
	}
	if cfg.Source.CacheTTL != 24*time.Hour {
		t.Errorf("expected cache TTL 24h, got %v", cfg.Source.CacheTTL)
	}
	if cfg.Source.RetryAttempts != 3 {
		t.Errorf("expected 3 retry attempts, got %d", cfg.Source.RetryAttempts)
	}
	if !*cfg.Validator.RaiseOnError {
		t.Error("expected fail-fast validation by default")
	}
	if *cfg.Validator.SubClassCheck {
		t.Error("expected subclass check disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing schema.org url",
			modify:  func(c *Config) { c.Base.SchemaOrgURL = "" },
			wantErr: true,
		},
		{
			name:    "missing registry url",
			modify:  func(c *Config) { c.Base.RegistryURL = "" },
			wantErr: true,
		},
		{
			name:    "negative cache ttl",
			modify:  func(c *Config) { c.Source.CacheTTL = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero http timeout",
			modify:  func(c *Config) { c.Source.HTTPTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "no retry attempts",
			modify:  func(c *Config) { c.Source.RetryAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configPath, `
base:
  names: [schema, bioschemas]
  registry_url: "http://registry.test/api/"
source:
  cache_ttl: 1h
  retry_attempts: 5
validator:
  raise_on_error: false
  root: "http://schema.biothings.io/Entity"
log:
  level: debug
`)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(cfg.Base.Names) != 2 || cfg.Base.Names[1] != "bioschemas" {
		t.Errorf("expected base names [schema bioschemas], got %v", cfg.Base.Names)
	}
	if cfg.Base.RegistryURL != "http://registry.test/api/" {
		t.Errorf("expected registry override, got %s", cfg.Base.RegistryURL)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Base.SchemaOrgURL != source.DefaultSchemaOrgURL {
		t.Errorf("expected default schema.org URL, got %s", cfg.Base.SchemaOrgURL)
	}
	if cfg.Source.HTTPTimeout != 30*time.Second {
		t.Errorf("expected default http timeout, got %v", cfg.Source.HTTPTimeout)
	}
	if cfg.Source.CacheTTL != time.Hour {
		t.Errorf("expected cache ttl 1h, got %v", cfg.Source.CacheTTL)
	}
	if cfg.Source.RetryAttempts != 5 {
		t.Errorf("expected 5 retry attempts, got %d", cfg.Source.RetryAttempts)
	}
	if *cfg.Validator.RaiseOnError {
		t.Error("expected raise_on_error false to override the default")
	}
	if !*cfg.Validator.ValidationMerge {
		t.Error("expected validation_merge to keep its default")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeConfig(t, bad, "source: [not, a, mapping")
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Base:      BaseConfig{Names: []string{"schema"}},
		Validator: ValidatorConfig{SubClassCheck: boolPtr(true), RaiseOnError: boolPtr(false)},
	}

	if err := base.Merge(override); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if len(base.Base.Names) != 1 {
		t.Errorf("expected names override, got %v", base.Base.Names)
	}
	if base.Base.RegistryURL != source.DefaultRegistryURL {
		t.Errorf("expected registry URL to remain default, got %s", base.Base.RegistryURL)
	}
	if !*base.Validator.SubClassCheck {
		t.Error("expected subclass check override")
	}
	if *base.Validator.RaiseOnError {
		t.Error("expected a false boolean to override")
	}
	if !*base.Validator.ValidationMerge {
		t.Error("expected an unset boolean to keep its value")
	}

	if err := base.Merge(nil); err != nil {
		t.Errorf("Merge(nil) error = %v", err)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Base.Names = []string{"schema", "bioschemas"}
	cfg.Source.CacheTTL = 90 * time.Minute

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if len(loaded.Base.Names) != 2 {
		t.Errorf("expected 2 base names, got %v", loaded.Base.Names)
	}
	if loaded.Source.CacheTTL != 90*time.Minute {
		t.Errorf("expected cache ttl 1h30m, got %v", loaded.Source.CacheTTL)
	}
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "schemas", "v1")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}

	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
source:
  retry_attempts: 5
log:
  level: debug
`)
	writeConfig(t, filepath.Join(project, ProjectConfigFile), `
source:
  retry_attempts: 2
`)

	l := &Loader{logger: slog.Default(), homeDir: home, workDir: work}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.RetryAttempts != 2 {
		t.Errorf("project config should win, got %d attempts", cfg.Source.RetryAttempts)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("user config should apply, got level %s", cfg.Log.Level)
	}
}

func TestLoaderDefaultsOnly(t *testing.T) {
	l := &Loader{logger: slog.Default(), homeDir: t.TempDir(), workDir: t.TempDir()}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.RetryAttempts != 3 {
		t.Errorf("expected defaults, got %d attempts", cfg.Source.RetryAttempts)
	}
}

func TestLoaderLoadFile(t *testing.T) {
	l := &Loader{logger: slog.Default()}
	if _, err := l.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for an explicit missing file")
	}

	path := filepath.Join(t.TempDir(), "semschema.yaml")
	writeConfig(t, path, "source:\n  retry_attempts: 0\n")
	cfg, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	// A zero value does not override the default.
	if cfg.Source.RetryAttempts != 3 {
		t.Errorf("expected default attempts, got %d", cfg.Source.RetryAttempts)
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := &Loader{logger: slog.Default(), homeDir: home}
	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("user config was not created: %v", err)
	}
	if _, err := LoadFromFile(path); err != nil {
		t.Errorf("created config should load: %v", err)
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	if n := len(cfg.ValidatorOptions()); n != 3 {
		t.Errorf("expected 3 validator options, got %d", n)
	}
	cfg.Validator = ValidatorConfig{Root: "http://schema.org/Thing"}
	if n := len(cfg.ValidatorOptions()); n != 1 {
		t.Errorf("expected only the root option, got %d", n)
	}

	if n := len(cfg.LoaderOptions(nil)); n != 3 {
		t.Errorf("expected 3 loader options, got %d", n)
	}

	pc := cfg.ProviderConfig()
	if pc.CacheTTL != cfg.Source.CacheTTL || pc.RegistryURL != cfg.Base.RegistryURL {
		t.Errorf("unexpected provider config: %+v", pc)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Error("expected error for unknown level")
	}
}
