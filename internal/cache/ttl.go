package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL bounds and environment knobs.
const (
	// DefaultTTL is how long a table listing stays fresh (5 minutes).
	DefaultTTL = 5 * time.Minute

	// MinTTL is the shortest TTL accepted from config or flags.
	MinTTL = time.Second

	// MaxTTL is the longest TTL accepted from config or flags (1 day).
	MaxTTL = 24 * time.Hour

	// DefaultMemoryEntries bounds the memory backend. One entry per table.
	DefaultMemoryEntries = 64

	minutesPerHour = 60
	hoursPerDay    = 24

	EnvCacheEnabled = "CONFIRMVOTES_CACHE_ENABLED"
	EnvCacheBackend = "CONFIRMVOTES_CACHE_BACKEND"
	EnvCacheTTL     = "CONFIRMVOTES_CACHE_TTL"
	EnvCacheDir     = "CONFIRMVOTES_CACHE_DIR"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

// ErrInvalidTTL reports a TTL outside [MinTTL, MaxTTL].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %s and %s", MinTTL, MaxTTL)

// EnabledFromEnv reads CONFIRMVOTES_CACHE_ENABLED. ok is false when unset or unparsable.
func EnabledFromEnv() (enabled, ok bool) {
	v := os.Getenv(EnvCacheEnabled)
	if v == "" {
		return false, false
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return enabled, true
}

// TTLFromEnv reads CONFIRMVOTES_CACHE_TTL. ok is false when unset or invalid.
func TTLFromEnv() (time.Duration, bool) {
	v := os.Getenv(EnvCacheTTL)
	if v == "" {
		return 0, false
	}
	ttl, err := ParseTTL(v)
	if err != nil {
		return 0, false
	}
	return ttl, true
}

// ParseTTL accepts integer seconds ("300") or a Go duration ("5m", "1h30m").
func ParseTTL(s string) (time.Duration, error) {
	var ttl time.Duration
	if seconds, err := strconv.Atoi(s); err == nil {
		ttl = time.Duration(seconds) * time.Second
	} else {
		ttl, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", err)
		}
	}
	if ttl < MinTTL || ttl > MaxTTL {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}
	return ttl, nil
}

// FormatDuration renders d compactly: "45s", "5m", "2h30m", "3d2h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
