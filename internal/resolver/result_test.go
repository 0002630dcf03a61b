package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/record/recordtest"
)

func senatorsResult(t *testing.T) *Result {
	t.Helper()
	res, err := New(recordtest.BaseStore()).ResolveView(context.Background(), ViewSpec{
		Name:    "senators",
		Primary: record.TableSenators,
		Columns: []Column{
			{Name: "Name", Field: "Full Name", LinkTo: LinkSelf, Kind: "senators"},
			{Name: "Party", Field: "Party"},
			{Name: "% Aye", Field: "% Aye", Format: FormatPercent},
			{Name: "Secret", Field: "District", Hidden: true},
		},
		Sort: []SortKey{{Column: "Name"}},
	})
	require.NoError(t, err)
	return res
}

func TestResult_Search(t *testing.T) {
	res := senatorsResult(t)

	assert.Equal(t, 3, res.Search("").Len())
	assert.Equal(t, 1, res.Search("  LISKOV ").Len())
	assert.Equal(t, 2, res.Search("d").Len())
	assert.Equal(t, 1, res.Search("100%").Len(), "search sees formatted text")
	assert.Equal(t, 0, res.Search("3").Len(), "hidden columns are not searched")
	assert.Equal(t, 3, res.Len(), "search never mutates the source")
}

func TestResult_ColumnHelpers(t *testing.T) {
	res := senatorsResult(t)
	assert.Equal(t, 2, res.ColumnIndex("% Aye"))
	assert.Equal(t, -1, res.ColumnIndex("nope"))
	assert.Equal(t, []int{0, 1, 2}, res.VisibleColumns())
	assert.Equal(t, "", res.CellText(res.Rows[0], 9))
	assert.Equal(t, recordtest.SenatorAda, res.Rows[0].Cells[0].LinkID)
}

func TestResult_Sorted(t *testing.T) {
	res := senatorsResult(t)
	byAye := res.Sorted([]SortKey{{Column: "% Aye", Descending: true, Compare: Numeric}}, language.Und)

	names := make([]string, 0, byAye.Len())
	for _, row := range byAye.Rows {
		names = append(names, byAye.CellText(row, 0))
	}
	assert.Equal(t, []string{"Barbara Liskov", "Ada Lovelace", "Charles Babbage"}, names)
	assert.Equal(t, "Ada Lovelace", res.CellText(res.Rows[0], 0), "Sorted copies")
}

func TestResult_SortedEmptiesLast(t *testing.T) {
	res := &Result{Columns: []Column{{Name: "Date"}}}
	for i, v := range []record.Value{record.Text("2024-02-20"), {}, record.Text("2024-01-15")} {
		res.Rows = append(res.Rows, Row{RecordID: string(rune('a' + i)), Cells: []Cell{{Value: v}}})
	}

	tests := []struct {
		name string
		key  SortKey
		want []string
	}{
		{name: "ascending", key: SortKey{Column: "Date"}, want: []string{"c", "a", "b"}},
		{name: "descending", key: SortKey{Column: "Date", Descending: true}, want: []string{"a", "c", "b"}},
		{name: "non-numeric cells tie under a numeric key", key: SortKey{Column: "Date", Compare: Numeric}, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := res.Sorted([]SortKey{tt.key}, language.Und)
			ids := make([]string, 0, sorted.Len())
			for _, row := range sorted.Rows {
				ids = append(ids, row.RecordID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestResolveLinkedRecord(t *testing.T) {
	store := recordtest.BaseStore()
	snap, err := New(store).Load(context.Background(),
		record.TableSenators, record.TableSlates, record.TableSenators)
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, 1, store.ListCalls(record.TableSenators))

	rec, ok := ResolveLinkedRecord(recordtest.SlateJanuary, snap)
	require.True(t, ok)
	assert.Equal(t, record.TableSlates, rec.Table)

	_, ok = ResolveLinkedRecord(recordtest.NomineeJane, snap)
	assert.False(t, ok, "tables that were not loaded are not searched")
	assert.Equal(t, 0, store.ListCalls(record.TableNominees))

	recs, ok := snap.Table(record.TableSlates)
	assert.True(t, ok)
	assert.Len(t, recs, 2)
	_, ok = snap.Table(record.TableNominees)
	assert.False(t, ok)
}
