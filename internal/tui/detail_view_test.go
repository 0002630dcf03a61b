package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/record/recordtest"
	"github.com/rshade/confirmvotes/internal/views"
)

func TestBarSegments(t *testing.T) {
	tests := []struct {
		name  string
		tally record.Tally
		width int
		want  [4]int
	}{
		{name: "even split", tally: record.Tally{Ayes: 1, Nays: 1}, width: 10, want: [4]int{5, 5, 0, 0}},
		{name: "unanimous", tally: record.Tally{Ayes: 7}, width: 20, want: [4]int{20, 0, 0, 0}},
		{name: "thirds fill the width", tally: record.Tally{Ayes: 1, Nays: 1, Absent: 1}, width: 10, want: [4]int{4, 3, 3, 0}},
		{name: "all four", tally: record.Tally{Ayes: 30, Nays: 5, Absent: 3, Excused: 2}, width: 40, want: [4]int{30, 5, 3, 2}},
		{name: "empty tally", tally: record.Tally{}, width: 10, want: [4]int{}},
		{name: "zero width", tally: record.Tally{Ayes: 3}, width: 0, want: [4]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := barSegments(tt.tally, tt.width)
			assert.Equal(t, tt.want, got)
			if tt.tally.Total() > 0 && tt.width > 0 {
				assert.Equal(t, tt.width, got[0]+got[1]+got[2]+got[3])
			}
		})
	}
}

func TestVoteBar(t *testing.T) {
	bar := VoteBar(record.Tally{Ayes: 2, Nays: 1}, 30)
	lines := strings.Split(bar, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 30, strings.Count(lines[0], barRune))
	assert.Contains(t, lines[1], "Aye 2 (67%)")
	assert.Contains(t, lines[1], "Nay 1 (33%)")

	assert.Equal(t, 10, strings.Count(VoteBar(record.Tally{Ayes: 1}, 3), barRune), "narrow bars widen to the minimum")
	assert.Contains(t, VoteBar(record.Tally{}, 30), "No votes recorded.")
}

func TestRenderDetailCard(t *testing.T) {
	svc := views.NewService(recordtest.BaseStore())

	t.Run("nominee", func(t *testing.T) {
		d, err := svc.Nominee(context.Background(), recordtest.NomineeJane)
		require.NoError(t, err)

		out := renderDetailCard(d, 80)
		assert.Contains(t, out, "Jane Roe")
		assert.Contains(t, out, "[1]")
		assert.Contains(t, out, "Water Board Commissioner")
		assert.Contains(t, out, "[2]")
		assert.Contains(t, out, "2024-01-15")
		assert.Contains(t, out, "Aye 2")
	})

	t.Run("senator photo", func(t *testing.T) {
		d, err := svc.Senator(context.Background(), recordtest.SenatorAda)
		require.NoError(t, err)
		assert.Contains(t, renderDetailCard(d, 120), recordtest.PhotoURL)
	})

	t.Run("not found", func(t *testing.T) {
		d, err := svc.Senator(context.Background(), recordtest.Missing)
		require.NoError(t, err)
		assert.Contains(t, renderDetailCard(d, 80), "Record not found.")
		assert.Contains(t, renderDetailCard(nil, 80), "Record not found.")
	})
}

func TestRenderRecordPage(t *testing.T) {
	svc := views.NewService(recordtest.BaseStore())
	p, err := svc.Record(context.Background(), record.TableIndividualVotes, recordtest.VoteAdaJanuary)
	require.NoError(t, err)

	out := renderRecordPage(p, 100)
	assert.Contains(t, out, "Senator")
	assert.Contains(t, out, "[1] Ada Lovelace")
	assert.Contains(t, out, "[2] 2024-01-15")
	assert.Contains(t, out, "Aye")

	links := recordLinks(p)
	require.Len(t, links, 2)
	assert.Equal(t, recordtest.SenatorAda, links[0].ID)

	missing, err := svc.Record(context.Background(), record.TableIndividualVotes, recordtest.Missing)
	require.NoError(t, err)
	assert.Contains(t, renderRecordPage(missing, 100), "Record not found.")
}
