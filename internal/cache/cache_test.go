package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/confirmvotes/internal/record"
)

type countingFetcher struct {
	calls   atomic.Int32
	finds   atomic.Int32
	release chan struct{}
	err     error
	records map[string][]record.Record
}

func (f *countingFetcher) ListRecords(_ context.Context, table string) ([]record.Record, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records[table], nil
}

func (f *countingFetcher) FindRecord(_ context.Context, table, id string) (record.Record, bool, error) {
	f.finds.Add(1)
	for _, r := range f.records[table] {
		if r.ID == id {
			return r, true, nil
		}
	}
	return record.Record{}, false, nil
}

func senators() map[string][]record.Record {
	return map[string][]record.Record{
		record.TableSenators: {
			{ID: "recSenatorsXXXX01", Table: record.TableSenators, Fields: map[string]record.Value{
				"Full Name": record.Text("Ada Lovelace"),
				"% Aye":     record.Num(0.5),
			}},
		},
	}
}

func TestEntry(t *testing.T) {
	entry := NewEntry("app/Senators", json.RawMessage(`[]`), time.Minute)
	assert.False(t, entry.IsExpired())
	assert.Greater(t, entry.TimeUntilExpiration(), time.Duration(0))
	assert.Equal(t, 60, entry.TTLSeconds)

	encoded, err := json.Marshal(entry)
	require.NoError(t, err)
	var decoded Entry
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.True(t, entry.ExpiresAt.Equal(decoded.ExpiresAt))

	entry.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, entry.IsExpired())
	assert.Equal(t, time.Duration(0), entry.TimeUntilExpiration())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	data := json.RawMessage(`[{"id":"rec"}]`)

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, store.Set("app/Individual Votes", data))
		entry, err := store.Get("app/Individual Votes")
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(entry.Data))

		stats, err := store.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Entries)
		assert.Positive(t, stats.Bytes)
		assert.Equal(t, BackendFile, stats.Backend)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete("app/Individual Votes"))
		_, err := store.Get("app/Individual Votes")
		assert.ErrorIs(t, err, ErrCacheNotFound)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		assert.ErrorIs(t, store.Set("", data), ErrInvalidCacheKey)
		_, err := store.Get("")
		assert.ErrorIs(t, err, ErrInvalidCacheKey)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Set("k1", data))
		require.NoError(t, store.Set("k2", data))
		require.NoError(t, store.Clear())
		stats, _ := store.Stats()
		assert.Equal(t, 0, stats.Entries)
	})

	t.Run("Expired", func(t *testing.T) {
		expired, err := NewFileStore(store.Directory(), -time.Second)
		require.NoError(t, err)
		require.NoError(t, expired.Set("old", data))
		require.NoError(t, expired.Set("older", data))

		_, err = expired.Get("old")
		assert.ErrorIs(t, err, ErrCacheExpired)

		removed, err := expired.CleanupExpired()
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(2, 50*time.Millisecond)
	data := json.RawMessage(`[]`)

	require.NoError(t, store.Set("a", data))
	entry, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", entry.Key)

	stats, _ := store.Stats()
	assert.Equal(t, BackendMemory, stats.Backend)
	assert.Equal(t, 1, stats.Entries)

	// Size bound evicts the least recently used key.
	require.NoError(t, store.Set("b", data))
	require.NoError(t, store.Set("c", data))
	_, err = store.Get("a")
	assert.ErrorIs(t, err, ErrCacheNotFound)

	time.Sleep(100 * time.Millisecond)
	_, err = store.Get("b")
	assert.Error(t, err, "entries past the TTL are never served")

	require.NoError(t, store.Clear())
	stats, _ = store.Stats()
	assert.Equal(t, 0, stats.Entries)
}

func TestTableCache_Disabled(t *testing.T) {
	fetcher := &countingFetcher{records: senators()}
	tc := NewTableCache(fetcher, nil, "app")
	assert.False(t, tc.Enabled())

	for range 3 {
		_, err := tc.ListRecords(context.Background(), record.TableSenators)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), fetcher.calls.Load())
	assert.NoError(t, tc.Invalidate(record.TableSenators))
}

func TestTableCache_ServesFreshEntries(t *testing.T) {
	fetcher := &countingFetcher{records: senators()}
	tc := NewTableCache(fetcher, NewMemoryStore(0, time.Minute), "app")
	ctx := context.Background()

	first, err := tc.ListRecords(ctx, record.TableSenators)
	require.NoError(t, err)
	second, err := tc.ListRecords(ctx, record.TableSenators)
	require.NoError(t, err)

	assert.Equal(t, int32(1), fetcher.calls.Load())
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "Ada Lovelace", second[0].Text("Full Name"))
	assert.Equal(t, 0.5, second[0].Float("% Aye"))

	rec, found, err := tc.FindRecord(ctx, record.TableSenators, "recSenatorsXXXX01")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ada Lovelace", rec.Text("Full Name"))
	assert.Equal(t, int32(0), fetcher.finds.Load())

	require.NoError(t, tc.Invalidate(record.TableSenators))
	_, err = tc.ListRecords(ctx, record.TableSenators)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestTableCache_TTLExpiry(t *testing.T) {
	fetcher := &countingFetcher{records: senators()}
	tc := NewTableCache(fetcher, NewMemoryStore(0, 30*time.Millisecond), "app")
	ctx := context.Background()

	_, _ = tc.ListRecords(ctx, record.TableSenators)
	time.Sleep(60 * time.Millisecond)
	_, _ = tc.ListRecords(ctx, record.TableSenators)
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestTableCache_CollapsesConcurrentMisses(t *testing.T) {
	fetcher := &countingFetcher{records: senators(), release: make(chan struct{})}
	tc := NewTableCache(fetcher, NewMemoryStore(0, time.Minute), "app")

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, err := tc.ListRecords(context.Background(), record.TableSenators)
			assert.NoError(t, err)
			assert.Len(t, recs, 1)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestTableCache_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("boom")
	fetcher := &countingFetcher{err: boom}
	tc := NewTableCache(fetcher, NewMemoryStore(0, time.Minute), "app")

	_, err := tc.ListRecords(context.Background(), record.TableSlates)
	assert.Same(t, boom, err)
	_, err = tc.ListRecords(context.Background(), record.TableSlates)
	assert.Same(t, boom, err)
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestParseTTL(t *testing.T) {
	ttl, err := ParseTTL("300")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)

	ttl, err = ParseTTL("1h")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	_, err = ParseTTL("0")
	assert.ErrorIs(t, err, ErrInvalidTTL)
	_, err = ParseTTL("48h")
	assert.ErrorIs(t, err, ErrInvalidTTL)
	_, err = ParseTTL("soon")
	assert.Error(t, err)
}

func TestEnv(t *testing.T) {
	t.Setenv(EnvCacheEnabled, "true")
	enabled, ok := EnabledFromEnv()
	assert.True(t, ok)
	assert.True(t, enabled)

	t.Setenv(EnvCacheEnabled, "nope")
	_, ok = EnabledFromEnv()
	assert.False(t, ok)

	t.Setenv(EnvCacheTTL, "90s")
	ttl, ok := TTLFromEnv()
	assert.True(t, ok)
	assert.Equal(t, 90*time.Second, ttl)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30s", FormatDuration(30*time.Second))
	assert.Equal(t, "5m", FormatDuration(5*time.Minute))
	assert.Equal(t, "2h30m", FormatDuration(2*time.Hour+30*time.Minute))
	assert.Equal(t, "3d2h", FormatDuration(74*time.Hour))
}
