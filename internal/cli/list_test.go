package cli_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/confirmvotes/internal/airtable"
	"github.com/rshade/confirmvotes/internal/cli"
	"github.com/rshade/confirmvotes/internal/pagination"
	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/record/recordtest"
	"github.com/rshade/confirmvotes/internal/router"
)

type listJSON struct {
	View    string   `json:"view"`
	Columns []string `json:"columns"`
	Rows    []struct {
		ID     string            `json:"id"`
		Fields map[string]string `json:"fields"`
		Links  map[string]string `json:"links"`
	} `json:"rows"`
	Pagination *pagination.Meta `json:"pagination"`
}

// order returns the position of each name in out, failing when one is missing.
func order(t *testing.T, out string, names ...string) []int {
	t.Helper()
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = strings.Index(out, n)
		require.GreaterOrEqual(t, idx[i], 0, "%q missing from output:\n%s", n, out)
	}
	return idx
}

func TestList_SenatorsTable(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "list", "senators")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "PARTY")
	assert.Contains(t, out, "----")
	idx := order(t, out, "Ada Lovelace", "Barbara Liskov", "Charles Babbage")
	assert.Less(t, idx[0], idx[1])
	assert.Less(t, idx[1], idx[2])
}

func TestList_SortAndSearch(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		present []string
		absent  []string
		ordered []string
	}{
		{
			name:    "name descending",
			args:    []string{"list", "senators", "--sort", "Name:desc"},
			ordered: []string{"Charles Babbage", "Barbara Liskov", "Ada Lovelace"},
		},
		{
			name:    "numeric column",
			args:    []string{"list", "senators", "--sort", "# Votes"},
			ordered: []string{"Barbara Liskov", "Charles Babbage", "Ada Lovelace"},
		},
		{
			name:    "search is case-insensitive",
			args:    []string{"list", "senators", "--search", "LISK"},
			present: []string{"Barbara Liskov"},
			absent:  []string{"Ada Lovelace", "Charles Babbage"},
		},
		{
			name:    "search matches joined columns",
			args:    []string{"list", "nominees", "--search", "water board"},
			present: []string{"Jane Roe", "Alex Poe"},
			absent:  []string{"John Doe"},
		},
		{
			name:    "singular kind",
			args:    []string{"list", "Position"},
			present: []string{"Water Board", "Arts Council", "University"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)

			out, err := execute(t, tt.args...)
			require.NoError(t, err)

			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
			if len(tt.ordered) > 0 {
				idx := order(t, out, tt.ordered...)
				for i := 1; i < len(idx); i++ {
					assert.Less(t, idx[i-1], idx[i], "%s before %s", tt.ordered[i-1], tt.ordered[i])
				}
			}
		})
	}
}

func TestList_JSONWithPagination(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "list", "senators", "-o", "json", "--limit", "2")
	require.NoError(t, err)

	var got listJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "senators", got.View)
	assert.Contains(t, got.Columns, "Name")
	require.Len(t, got.Rows, 2)
	assert.Equal(t, recordtest.SenatorAda, got.Rows[0].ID)
	assert.Equal(t, "Ada Lovelace", got.Rows[0].Fields["Name"])

	require.NotNil(t, got.Pagination)
	assert.Equal(t, 3, got.Pagination.TotalItems)
	assert.Equal(t, 2, got.Pagination.TotalPages)
	assert.True(t, got.Pagination.HasNext)
}

func TestList_PageMode(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "list", "senators", "-o", "json", "--page", "2", "--page-size", "2")
	require.NoError(t, err)

	var got listJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Charles Babbage", got.Rows[0].Fields["Name"])
	assert.Equal(t, 2, got.Pagination.CurrentPage)
	assert.False(t, got.Pagination.HasNext)
}

func TestList_JoinedLinks(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "list", "nominees", "-o", "json", "--search", "jane")
	require.NoError(t, err)

	var got listJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Water Board Commissioner", got.Rows[0].Fields["Position"])
	assert.Equal(t, recordtest.PositionWater, got.Rows[0].Links["Position"])
	assert.Equal(t, recordtest.SlateJanuary, got.Rows[0].Links["Slate"])
}

func TestList_NDJSON(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "list", "slates", "-o", "ndjson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var first struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, recordtest.SlateFebruary, first.ID, "slates are newest first")
}

func TestList_YAML(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "list", "positions", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "view: positions")
	assert.Contains(t, out, "Organization: Water Board")
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "unknown kind", args: []string{"list", "votes"}, wantErr: router.ErrUnknownKind},
		{name: "unknown sort column", args: []string{"list", "senators", "--sort", "Height"}, wantErr: pagination.ErrInvalidSortField},
		{name: "bad sort order", args: []string{"list", "senators", "--sort", "Name:up"}, wantErr: pagination.ErrInvalidSortOrder},
		{name: "mixed paging", args: []string{"list", "senators", "--page", "1", "--page-size", "2", "--offset", "1"}, wantErr: pagination.ErrMixedModes},
		{name: "page without size", args: []string{"list", "senators", "--page", "2"}, wantMsg: "page-size must be specified"},
		{name: "bad output format", args: []string{"list", "senators", "-o", "xml"}, wantMsg: "invalid output format"},
		{name: "bad cache ttl", args: []string{"list", "senators", "--cache-ttl", "forever"}, wantMsg: "invalid --cache-ttl"},
		{name: "bad locale", args: []string{"list", "senators", "--locale", "not a locale!"}, wantMsg: "invalid locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Equal(t, cli.ExitError, cli.ExitCode(err))
		})
	}
}

func TestList_FetchErrorIsReturnedUnchanged(t *testing.T) {
	fake := setupCLITest(t)
	fake.fail(record.TableSenators, http.StatusInternalServerError)

	_, err := execute(t, "list", "senators")
	require.Error(t, err)

	var fe *airtable.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, airtable.KindServer, fe.Kind)
	assert.Equal(t, record.TableSenators, fe.Table)
	assert.Equal(t, "try again later", fe.Message)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}

func TestDataCommands_MissingCredentials(t *testing.T) {
	commands := [][]string{
		{"list", "senators"},
		{"show", "senators", recordtest.SenatorAda},
		{"view", "slate-votes", recordtest.SlateJanuary},
		{"record", record.TableSenators, recordtest.SenatorAda},
		{"browse"},
	}

	for _, args := range commands {
		t.Run(args[0], func(t *testing.T) {
			fake := setupCLITest(t)
			t.Setenv("CONFIRMVOTES_AIRTABLE_API_KEY", "")
			t.Setenv("AIRTABLE_API_KEY", "")

			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CONFIRMVOTES_AIRTABLE_API_KEY")
			assert.Equal(t, cli.ExitMissingCredentials, cli.ExitCode(err))
			assert.Zero(t, fake.listCalls(record.TableSenators), "no request before the credential check")
		})
	}
}
