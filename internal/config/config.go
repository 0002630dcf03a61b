// Package config loads ~/.confirmvotes/config.yaml, applies environment
// overrides, and exposes the process-wide configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/rshade/confirmvotes/internal/cache"
)

// CurrentVersion is written by config init.
const CurrentVersion = "1.0.0"

// supportedVersions is the constraint a config file's version must satisfy.
const supportedVersions = "^1"

const (
	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// Environment overrides applied after the file is read.
const (
	EnvHome         = "CONFIRMVOTES_HOME"
	EnvOutputFormat = "CONFIRMVOTES_OUTPUT_FORMAT"
	EnvLocale       = "CONFIRMVOTES_LOCALE"
	EnvLogLevel     = "CONFIRMVOTES_LOG_LEVEL"
	EnvLogFormat    = "CONFIRMVOTES_LOG_FORMAT"
	EnvLogFile      = "CONFIRMVOTES_LOG_FILE"
	EnvAirtableURL  = "CONFIRMVOTES_AIRTABLE_URL"
	EnvAirtableView = "CONFIRMVOTES_AIRTABLE_VIEW"
)

// Configuration errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnknownKey         = errors.New("unknown configuration key")
)

// Config is the full configuration file.
type Config struct {
	Version  string         `yaml:"version"  json:"version"`
	Airtable AirtableConfig `yaml:"airtable" json:"airtable"`
	Cache    CacheConfig    `yaml:"cache"    json:"cache"`
	Output   OutputConfig   `yaml:"output"   json:"output"`
	Logging  LoggingConfig  `yaml:"logging"  json:"logging"`

	configPath string
}

// AirtableConfig tunes the record store client. Credentials are never stored
// here; see LoadCredentials.
type AirtableConfig struct {
	BaseURL           string  `yaml:"base_url,omitempty"            json:"base_url,omitempty"`
	View              string  `yaml:"view"                          json:"view"`
	MaxRecords        int     `yaml:"max_records,omitempty"         json:"max_records,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty" json:"requests_per_second,omitempty"`
	TimeoutSeconds    int     `yaml:"timeout_seconds,omitempty"     json:"timeout_seconds,omitempty"`
}

// CacheConfig controls the opt-in table cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"               json:"enabled"`
	Backend    string `yaml:"backend"               json:"backend"`
	TTL        string `yaml:"ttl"                   json:"ttl"`
	Dir        string `yaml:"dir,omitempty"         json:"dir,omitempty"`
	MaxEntries int    `yaml:"max_entries,omitempty" json:"max_entries,omitempty"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"      json:"default_format"`
	Locale        string `yaml:"locale,omitempty"    json:"locale,omitempty"`
	PageSize      int    `yaml:"page_size,omitempty" json:"page_size,omitempty"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Airtable: AirtableConfig{
			View: "Grid view",
		},
		Cache: CacheConfig{
			Enabled: false,
			Backend: cache.BackendMemory,
			TTL:     cache.DefaultTTL.String(),
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New loads the config at the default path. A missing file yields the
// defaults; an unreadable one is logged and ignored. Environment overrides
// are applied either way.
func New() *Config {
	path := defaultConfigPath()
	cfg, err := Load(path)
	if err != nil {
		logger := GetLogger()
		logger.Warn().Str("component", "config").Err(err).Str("path", path).
			Msg("failed to load config file, using defaults")
		cfg = Default()
		cfg.configPath = path
		cfg.applyEnvOverrides()
	}
	return cfg
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot access config path %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func defaultConfigPath() string {
	path, err := GetConfigPath()
	if err != nil {
		return configFileName
	}
	return path
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Output.Locale = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvAirtableURL); v != "" {
		c.Airtable.BaseURL = v
	}
	if v := os.Getenv(EnvAirtableView); v != "" {
		c.Airtable.View = v
	}
	if enabled, ok := cache.EnabledFromEnv(); ok {
		c.Cache.Enabled = enabled
	}
	if v := os.Getenv(cache.EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if ttl, ok := cache.TTLFromEnv(); ok {
		c.Cache.TTL = ttl.String()
	}
	if v := os.Getenv(cache.EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
}

// ConfigPath returns the file this config was loaded from or will save to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks the version constraint and every enumerated setting.
func (c *Config) Validate() error {
	if err := checkVersion(c.Version); err != nil {
		return err
	}

	var errs []error
	if !slices.Contains(OutputFormats(), c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("output.default_format %q must be one of %s",
			c.Output.DefaultFormat, strings.Join(OutputFormats(), ", ")))
	}
	if c.Output.Locale != "" {
		if _, err := language.Parse(c.Output.Locale); err != nil {
			errs = append(errs, fmt.Errorf("output.locale %q: %w", c.Output.Locale, err))
		}
	}
	if c.Output.PageSize < 0 {
		errs = append(errs, errors.New("output.page_size cannot be negative"))
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level %q is not a log level", c.Logging.Level))
	}
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if c.Cache.Backend != cache.BackendMemory && c.Cache.Backend != cache.BackendFile {
		errs = append(errs, fmt.Errorf("cache.backend %q must be %s or %s",
			c.Cache.Backend, cache.BackendMemory, cache.BackendFile))
	}
	if _, err := cache.ParseTTL(c.Cache.TTL); err != nil {
		errs = append(errs, fmt.Errorf("cache.ttl: %w", err))
	}
	if c.Airtable.MaxRecords < 0 {
		errs = append(errs, errors.New("airtable.max_records cannot be negative"))
	}
	if c.Airtable.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("airtable.requests_per_second cannot be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, supportedVersions)
	}
	return nil
}

// OutputFormats lists the accepted output formats.
func OutputFormats() []string {
	return []string{FormatTable, FormatJSON, FormatNDJSON, FormatYAML}
}

// Locale returns the configured collation locale, or language.Und.
func (c *Config) Locale() language.Tag {
	if c.Output.Locale == "" {
		return language.Und
	}
	tag, err := language.Parse(c.Output.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// CacheTTL returns the parsed cache TTL, falling back to the default.
func (c *Config) CacheTTL() time.Duration {
	ttl, err := cache.ParseTTL(c.Cache.TTL)
	if err != nil {
		return cache.DefaultTTL
	}
	return ttl
}

// CacheDir returns the file cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// Get returns the value at a dotted key such as "cache.ttl".
func (c *Config) Get(key string) (string, error) {
	switch strings.ToLower(key) {
	case "version":
		return c.Version, nil
	case "airtable.base_url":
		return c.Airtable.BaseURL, nil
	case "airtable.view":
		return c.Airtable.View, nil
	case "airtable.max_records":
		return strconv.Itoa(c.Airtable.MaxRecords), nil
	case "airtable.requests_per_second":
		return strconv.FormatFloat(c.Airtable.RequestsPerSecond, 'f', -1, 64), nil
	case "airtable.timeout_seconds":
		return strconv.Itoa(c.Airtable.TimeoutSeconds), nil
	case "cache.enabled":
		return strconv.FormatBool(c.Cache.Enabled), nil
	case "cache.backend":
		return c.Cache.Backend, nil
	case "cache.ttl":
		return c.Cache.TTL, nil
	case "cache.dir":
		return c.Cache.Dir, nil
	case "cache.max_entries":
		return strconv.Itoa(c.Cache.MaxEntries), nil
	case "output.default_format":
		return c.Output.DefaultFormat, nil
	case "output.locale":
		return c.Output.Locale, nil
	case "output.page_size":
		return strconv.Itoa(c.Output.PageSize), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}
