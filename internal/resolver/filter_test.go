package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/record/recordtest"
)

func TestFilters(t *testing.T) {
	vote := recordtest.Rec(record.TableIndividualVotes, recordtest.VoteAdaJanuary, map[string]any{
		"Senator": []string{recordtest.SenatorAda},
		"Slate":   []string{recordtest.SlateJanuary, recordtest.SlateFebruary},
		"Vote":    "Aye",
	})

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"nil keeps", nil, true},
		{"link contains", LinkContains("Senator", recordtest.SenatorAda), true},
		{"link missing id", LinkContains("Senator", recordtest.SenatorCharles), false},
		{"link on absent field", LinkContains("Nominee", recordtest.SenatorAda), false},
		{"link contains any", LinkContainsAny("Slate", recordtest.Missing, recordtest.SlateFebruary), true},
		{"link contains none", LinkContainsAny("Slate", recordtest.Missing), false},
		{"id in", IDIn(recordtest.Missing, recordtest.VoteAdaJanuary), true},
		{"id not in", IDIn(recordtest.Missing), false},
		{"field equals folds case", FieldEquals("Vote", "aye"), true},
		{"field differs", FieldEquals("Vote", "Nay"), false},
		{"and", And(FieldEquals("Vote", "Aye"), LinkContains("Senator", recordtest.SenatorAda)), true},
		{"and short circuits", And(FieldEquals("Vote", "Nay"), nil), false},
		{"and of nothing", And(), true},
		{"or", Or(FieldEquals("Vote", "Nay"), IDIn(recordtest.VoteAdaJanuary)), true},
		{"or of misses", Or(FieldEquals("Vote", "Nay"), IDIn()), false},
		{"or of nothing", Or(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Keep(vote))
		})
	}
}

func TestFormatApply(t *testing.T) {
	assert.Equal(t, "38%", FormatPercent.Apply(record.Num(0.375)))
	assert.Equal(t, "100%", FormatPercent.Apply(record.Num(1)))
	assert.Equal(t, "", FormatPercent.Apply(record.Num(0)))
	assert.Equal(t, "", FormatPercent.Apply(record.Empty()))
	assert.Equal(t, "0", FormatCount.Apply(record.Empty()))
	assert.Equal(t, "7", FormatCount.Apply(record.Num(7)))
	assert.Equal(t, "x", FormatText.Apply(record.Text("x")))
}
