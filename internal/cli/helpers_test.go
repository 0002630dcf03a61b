package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/confirmvotes/internal/cache"
	"github.com/rshade/confirmvotes/internal/cli"
	"github.com/rshade/confirmvotes/internal/config"
	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/record/recordtest"
)

const (
	testAPIKey = "keyTestXXXXXXXX1234"
	testBaseID = "appTestBase"
)

// fakeAirtable serves the recordtest fixture base over the Airtable REST shape.
type fakeAirtable struct {
	server *httptest.Server
	tables map[string][]record.Record

	mu       sync.Mutex
	lists    map[string]int
	failWith map[string]int
}

func newFakeAirtable(t *testing.T) *fakeAirtable {
	t.Helper()
	f := &fakeAirtable{
		tables:   recordtest.Base(),
		lists:    make(map[string]int),
		failWith: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// fail makes every request for table answer with status.
func (f *fakeAirtable) fail(table string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith[table] = status
}

// listCalls counts list requests for table.
func (f *fakeAirtable) listCalls(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[table]
}

func wire(r record.Record) map[string]any {
	return map[string]any{"id": r.ID, "createdTime": "2024-01-01T00:00:00.000Z", "fields": r.Fields}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeAirtable) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+testAPIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": map[string]string{"type": "AUTHENTICATION_REQUIRED", "message": "Authentication required"},
		})
		return
	}

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/v0/"), "/", 3)
	if len(parts) < 2 || parts[0] != testBaseID {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		return
	}
	table := parts[1]

	f.mu.Lock()
	status := f.failWith[table]
	if len(parts) == 2 {
		f.lists[table]++
	}
	f.mu.Unlock()
	if status != 0 {
		writeJSON(w, status, map[string]any{
			"error": map[string]string{"type": "SERVER_ERROR", "message": "try again later"},
		})
		return
	}

	recs, ok := f.tables[table]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{"type": "TABLE_NOT_FOUND", "message": "Could not find table " + table},
		})
		return
	}

	if len(parts) == 3 {
		for _, rec := range recs {
			if rec.ID == parts[2] {
				writeJSON(w, http.StatusOK, wire(rec))
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		return
	}

	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, wire(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

// setupCLITest isolates config, credentials, and the Airtable endpoint, and
// returns the fake server. The config file disables client throttling.
func setupCLITest(t *testing.T) *fakeAirtable {
	t.Helper()
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvLocale, "")
	t.Setenv(cache.EnvCacheEnabled, "")
	t.Setenv(cache.EnvCacheBackend, "")
	t.Setenv(cache.EnvCacheTTL, "")
	t.Setenv(cache.EnvCacheDir, "")
	t.Setenv("NO_COLOR", "1")

	fake := newFakeAirtable(t)
	t.Setenv(config.EnvAirtableURL, fake.server.URL)
	t.Setenv(config.EnvAPIKey, testAPIKey)
	t.Setenv(config.EnvBaseID, testBaseID)

	cfg := "version: 1.0.0\nairtable:\n  view: Grid view\n  requests_per_second: 1000\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600))

	return fake
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
