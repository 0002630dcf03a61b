package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/cache"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvOutputFormat, EnvLocale, EnvLogLevel, EnvLogFormat, EnvLogFile,
		EnvAirtableURL, EnvAirtableView,
		cache.EnvCacheEnabled, cache.EnvCacheBackend, cache.EnvCacheTTL, cache.EnvCacheDir,
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "Grid view", cfg.Airtable.View)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, cache.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, cache.DefaultTTL, cfg.CacheTTL())
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	t.Run("missing file gives defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.yaml")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default().Output, cfg.Output)
		assert.Equal(t, path, cfg.ConfigPath())
	})

	t.Run("file overrides sections", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
version: "1.0.0"
cache:
  enabled: true
  backend: file
  ttl: 90s
output:
  default_format: json
  locale: en-US
`))
		require.NoError(t, err)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, cache.BackendFile, cfg.Cache.Backend)
		assert.Equal(t, 90*time.Second, cfg.CacheTTL())
		assert.Equal(t, FormatJSON, cfg.Output.DefaultFormat)
		assert.Equal(t, "en-US", cfg.Locale().String())
		// Untouched sections keep their defaults.
		assert.Equal(t, "Grid view", cfg.Airtable.View)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv(EnvOutputFormat, FormatNDJSON)
		t.Setenv(cache.EnvCacheEnabled, "true")
		t.Setenv(cache.EnvCacheTTL, "120")
		t.Setenv(EnvAirtableView, "Published")
		t.Setenv(EnvLogLevel, "debug")

		cfg, err := Load(writeConfig(t, "output:\n  default_format: yaml\n"))
		require.NoError(t, err)
		assert.Equal(t, FormatNDJSON, cfg.Output.DefaultFormat)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
		assert.Equal(t, "Published", cfg.Airtable.View)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "cache: [oops"))
		assert.Error(t, err)
	})
}

func TestNew_FallsBackOnBrokenFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("cache: [oops"), 0o600))

	cfg := New()
	assert.Equal(t, Default().Cache, cfg.Cache)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty version is accepted", mutate: func(c *Config) { c.Version = "" }},
		{name: "later minor", mutate: func(c *Config) { c.Version = "1.4.2" }},
		{name: "major two", mutate: func(c *Config) { c.Version = "2.0.0" }, wantErr: ErrUnsupportedVersion},
		{name: "not semver", mutate: func(c *Config) { c.Version = "latest" }, wantErr: ErrUnsupportedVersion},
		{name: "bad format", mutate: func(c *Config) { c.Output.DefaultFormat = "xml" },
			wantErr: ErrInvalidConfig, wantMsg: "output.default_format"},
		{name: "bad locale", mutate: func(c *Config) { c.Output.Locale = "!!" },
			wantErr: ErrInvalidConfig, wantMsg: "output.locale"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" },
			wantErr: ErrInvalidConfig, wantMsg: "logging.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" },
			wantErr: ErrInvalidConfig, wantMsg: "logging.format"},
		{name: "bad backend", mutate: func(c *Config) { c.Cache.Backend = "redis" },
			wantErr: ErrInvalidConfig, wantMsg: "cache.backend"},
		{name: "ttl too long", mutate: func(c *Config) { c.Cache.TTL = "48h" },
			wantErr: ErrInvalidConfig, wantMsg: "cache.ttl"},
		{name: "negative max records", mutate: func(c *Config) { c.Airtable.MaxRecords = -1 },
			wantErr: ErrInvalidConfig, wantMsg: "airtable.max_records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.SetConfigPath(path)
	cfg.Cache.Enabled = true
	cfg.Output.PageSize = 25
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Cache.Enabled)
	assert.Equal(t, 25, loaded.Output.PageSize)
	assert.Equal(t, CurrentVersion, loaded.Version)

	assert.Error(t, (&Config{}).Save())
}

func TestGet(t *testing.T) {
	cfg := Default()
	cfg.Airtable.RequestsPerSecond = 2.5

	tests := map[string]string{
		"version":                      CurrentVersion,
		"airtable.view":                "Grid view",
		"airtable.requests_per_second": "2.5",
		"cache.enabled":                "false",
		"CACHE.BACKEND":                "memory",
		"cache.ttl":                    "5m0s",
		"output.default_format":        "table",
		"output.page_size":             "0",
		"logging.level":                "info",
	}
	for key, want := range tests {
		got, err := cfg.Get(key)
		require.NoError(t, err, key)
		assert.Equal(t, want, got, key)
	}

	_, err := cfg.Get("theme.accent")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestLocaleAndCacheFallbacks(t *testing.T) {
	cfg := Default()
	assert.Equal(t, language.Und, cfg.Locale())

	cfg.Output.Locale = "!!"
	assert.Equal(t, language.Und, cfg.Locale())

	cfg.Cache.TTL = "forever"
	assert.Equal(t, cache.DefaultTTL, cfg.CacheTTL())

	t.Setenv(EnvHome, "/srv/confirmvotes")
	dir, err := cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/confirmvotes", "cache"), dir)

	cfg.Cache.Dir = "/tmp/cv-cache"
	dir, err = cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cv-cache", dir)
}
