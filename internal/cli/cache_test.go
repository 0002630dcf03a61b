package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/confirmvotes/internal/cache"
	"github.com/rshade/confirmvotes/internal/record"
)

type cacheInfoJSON struct {
	Enabled   bool   `json:"enabled"`
	Backend   string `json:"backend"`
	TTL       string `json:"ttl"`
	Directory string `json:"directory"`
	Entries   int    `json:"entries"`
}

func cacheInfo(t *testing.T, flags ...string) cacheInfoJSON {
	t.Helper()
	out, err := execute(t, append(flags, "cache", "info", "-o", "json")...)
	require.NoError(t, err)
	var info cacheInfoJSON
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	return info
}

func TestCache_DisabledByDefault(t *testing.T) {
	fake := setupCLITest(t)

	for range 2 {
		_, err := execute(t, "list", "senators")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, fake.listCalls(record.TableSenators), "every command refetches")
}

func TestCache_FileBackend(t *testing.T) {
	fake := setupCLITest(t)
	dir := filepath.Join(t.TempDir(), "cache")
	t.Setenv(cache.EnvCacheBackend, cache.BackendFile)
	t.Setenv(cache.EnvCacheDir, dir)

	for range 2 {
		out, err := execute(t, "list", "senators", "--cache", "--cache-ttl", "10m")
		require.NoError(t, err)
		assert.Contains(t, out, "Ada Lovelace")
	}
	assert.Equal(t, 1, fake.listCalls(record.TableSenators), "second run is served from the cache")

	info := cacheInfo(t, "--cache", "--cache-ttl", "10m")
	assert.True(t, info.Enabled)
	assert.Equal(t, cache.BackendFile, info.Backend)
	assert.Equal(t, "10m", info.TTL)
	assert.Equal(t, dir, info.Directory)
	assert.Equal(t, 1, info.Entries)

	info = cacheInfo(t)
	assert.False(t, info.Enabled, "flags from earlier runs do not stick")
	assert.Equal(t, "5m", info.TTL)

	out, err := execute(t, "cache", "clear", "--expired")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 expired cache entries")

	out, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared cache at "+dir)
	assert.Zero(t, cacheInfo(t).Entries)

	_, err = execute(t, "list", "senators", "--cache")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.listCalls(record.TableSenators), "cleared cache refetches")
}

func TestCache_FetchErrorsAreNotCached(t *testing.T) {
	fake := setupCLITest(t)
	t.Setenv(cache.EnvCacheBackend, cache.BackendFile)
	t.Setenv(cache.EnvCacheDir, t.TempDir())
	t.Setenv(cache.EnvCacheEnabled, "true")

	fake.fail(record.TableSenators, 503)
	_, err := execute(t, "list", "senators")
	require.Error(t, err)

	fake.fail(record.TableSenators, 0)
	out, err := execute(t, "list", "senators")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Equal(t, 2, fake.listCalls(record.TableSenators))
}

func TestCache_MemoryBackend(t *testing.T) {
	setupCLITest(t)

	info := cacheInfo(t)
	assert.False(t, info.Enabled)
	assert.Equal(t, cache.BackendMemory, info.Backend)
	assert.Equal(t, "5m", info.TTL)

	out, err := execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to clear")

	out, err = execute(t, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "held in memory for one process only")
}
