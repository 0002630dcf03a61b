package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/record/recordtest"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/router"
)

func texts(res *resolver.Result, column string) []string {
	idx := res.ColumnIndex(column)
	out := make([]string, len(res.Rows))
	for i, row := range res.Rows {
		out[i] = res.CellText(row, idx)
	}
	return out
}

func resolve(t *testing.T, spec resolver.ViewSpec) *resolver.Result {
	t.Helper()
	require.NoError(t, spec.Validate())
	res, err := resolver.New(recordtest.BaseStore(), resolver.WithLocale(language.English)).
		ResolveView(context.Background(), spec)
	require.NoError(t, err)
	return res
}

func TestCatalog_ListViews(t *testing.T) {
	t.Run("senators", func(t *testing.T) {
		res := resolve(t, Senators())
		assert.Equal(t, []string{"Ada Lovelace", "Barbara Liskov", "Charles Babbage"}, texts(res, "Name"))
		assert.Equal(t, []string{"50%", "100%", ""}, texts(res, "% Aye"))
		assert.Equal(t, []string{"50%", "", "100%"}, texts(res, "% Nay"))
		assert.Equal(t, []string{"2", "1", "1"}, texts(res, "# Votes"))
		assert.Equal(t, recordtest.SenatorAda, res.Rows[0].Cells[0].LinkID)
	})

	t.Run("nominees", func(t *testing.T) {
		res := resolve(t, Nominees())
		assert.Equal(t, []string{"Alex Poe", "Jane Roe", "John Doe"}, texts(res, "Name"))
		assert.Equal(t,
			[]string{"Water Board Commissioner", "Water Board Commissioner", "Arts Council Director"},
			texts(res, "Position"))
		assert.Equal(t, []string{"2024-02-20", "2024-01-15", "2024-01-15"}, texts(res, "Slate"))
		assert.Equal(t, recordtest.PositionArts, res.Rows[2].Cells[res.ColumnIndex("Position")].LinkID)
	})

	t.Run("positions", func(t *testing.T) {
		res := resolve(t, Positions())
		assert.Equal(t, []string{"Arts Council", "University", "Water Board"}, texts(res, "Organization"))
		assert.Equal(t, []string{"Director", "Trustee", "Commissioner"}, texts(res, "Role"))
	})

	t.Run("slates", func(t *testing.T) {
		res := resolve(t, Slates())
		assert.Equal(t, []string{"2024-02-20", "2024-01-15"}, texts(res, "Date"))
		assert.Equal(t, []string{"Trustee", "Director, Commissioner"}, texts(res, "Positions"))
		assert.Equal(t, []string{"No", "Yes"}, texts(res, "Confirmed?"))
	})
}

func TestCatalog_EntityViews(t *testing.T) {
	t.Run("senator votes newest first", func(t *testing.T) {
		res := resolve(t, SenatorVotes(recordtest.SenatorAda))
		assert.Equal(t, []string{"2024-02-20", "2024-01-15"}, texts(res, "Date"))
		assert.Equal(t, []string{"Nay", "Aye"}, texts(res, "Vote"))
		assert.Equal(t, []string{"No", "Yes"}, texts(res, "Confirmed?"))
		assert.Equal(t, []string{"1", "1"}, texts(res, "Slate of Day"))
	})

	t.Run("slate votes by senator", func(t *testing.T) {
		res := resolve(t, SlateVotes(recordtest.SlateJanuary))
		assert.Equal(t, []string{"Ada Lovelace", "Barbara Liskov", "Charles Babbage"}, texts(res, "Senator"))
		assert.Equal(t, []string{"Aye", "Aye", "Nay"}, texts(res, "Vote"))
	})

	t.Run("slate nominees", func(t *testing.T) {
		res := resolve(t, SlateNominees(recordtest.SlateJanuary))
		assert.Equal(t, []string{"Jane Roe", "John Doe"}, texts(res, "Name"))
		assert.Equal(t, []string{"Commissioner", "Director"}, texts(res, "Role"))
		assert.Equal(t, []string{"Water Board", "Arts Council"}, texts(res, "Organization"))
	})

	t.Run("slate nominees by either link", func(t *testing.T) {
		res := resolve(t, SlateNominees(recordtest.SlateFebruary, recordtest.NomineeJohn))
		assert.Equal(t, []string{"Alex Poe", "John Doe"}, texts(res, "Name"))
	})

	t.Run("position nominees newest year then name", func(t *testing.T) {
		res := resolve(t, PositionNominees(recordtest.PositionWater))
		assert.Equal(t, []string{"Alex Poe", "Jane Roe"}, texts(res, "Name"))
		assert.Equal(t, []string{"2024", "2024"}, texts(res, "Year"))
	})

	t.Run("nominee votes across slates", func(t *testing.T) {
		res := resolve(t, NomineeVotes(recordtest.SlateJanuary, recordtest.SlateFebruary))
		assert.Len(t, res.Rows, 4)
		assert.Equal(t, "Ada Lovelace", texts(res, "Senator")[0])
	})
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		view    string
		id      string
		wantErr error
	}{
		{name: "list view", view: ViewSenators},
		{name: "entity view", view: ViewSlateVotes, id: recordtest.SlateJanuary},
		{name: "entity view without id", view: ViewSenatorVotes, wantErr: ErrMissingID},
		{name: "list view with id", view: ViewPositions, id: recordtest.PositionArts, wantErr: ErrUnexpectedID},
		{name: "unknown", view: "committees", wantErr: ErrUnknownView},
		{name: "singular is not a view name", view: "senator", wantErr: ErrUnknownView},
		{name: "nominee votes needs the service", view: ViewNomineeVotes, id: recordtest.NomineeJane,
			wantErr: ErrUnknownView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Lookup(tt.view, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.view, spec.Name)
			assert.NoError(t, spec.Validate())
		})
	}
}

func TestNamesAndNeedsID(t *testing.T) {
	assert.Equal(t, []string{
		"nominee-votes", "nominees", "position-nominees", "positions",
		"senator-votes", "senators", "slate-nominees", "slate-votes", "slates",
	}, Names())

	assert.True(t, NeedsID(ViewNomineeVotes))
	assert.True(t, NeedsID(ViewSlateNominees))
	assert.False(t, NeedsID(ViewSlates))
}

func TestListView(t *testing.T) {
	for _, kind := range router.EntityKinds() {
		spec, err := ListView(kind)
		require.NoError(t, err)
		assert.Equal(t, string(kind), spec.Name)
	}

	_, err := ListView(router.KindHome)
	assert.ErrorIs(t, err, ErrUnknownView)
}
