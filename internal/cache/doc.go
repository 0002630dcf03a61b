// Package cache is an opt-in TTL cache for whole-table listings.
//
// Loads normally refetch every table they need. When the cache is enabled
// (config `cache.enabled`, the --cache flag, or CONFIRMVOTES_CACHE_ENABLED),
// TableCache serves listings from one of two backends:
//   - memory: an expirable LRU that lives for the process
//   - file: one JSON file per table under ~/.confirmvotes/cache/
//
// Entries older than the TTL are never served. Fetch errors are never cached.
package cache
