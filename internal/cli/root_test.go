package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/confirmvotes/internal/config"
)

func TestGlobalFlags_ApplyToOneInvocationOnly(t *testing.T) {
	tests := []struct {
		name   string
		first  []string
		second []string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "output format",
			first:  []string{"list", "senators", "-o", "json"},
			second: []string{"list", "senators"},
			check: func(t *testing.T, out string) {
				assert.False(t, strings.HasPrefix(out, "{"), "second run printed JSON:\n%s", out)
				assert.Contains(t, out, "NAME")
			},
		},
		{
			name:   "cache ttl",
			first:  []string{"--cache-ttl", "90", "config", "get", "cache.ttl"},
			second: []string{"config", "get", "cache.ttl"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, "5m0s\n", out)
			},
		},
		{
			name:   "cache enabled",
			first:  []string{"--cache", "config", "get", "cache.enabled"},
			second: []string{"config", "get", "cache.enabled"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, "false\n", out)
			},
		},
		{
			name:   "locale",
			first:  []string{"--locale", "sv", "config", "get", "output.locale"},
			second: []string{"config", "get", "output.locale"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, "\n", out)
			},
		},
		{
			name:   "config file",
			first:  []string{"--config", "/tmp/elsewhere/config.yaml", "config", "path"},
			second: []string{"config", "path"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, filepath.Join(os.Getenv(config.EnvHome), "config.yaml")+"\n", out)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)

			_, err := execute(t, tt.first...)
			require.NoError(t, err)

			out, err := execute(t, tt.second...)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}
