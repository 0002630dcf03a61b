package recordtest

import (
	"encoding/json"

	"github.com/rshade/confirmvotes/internal/record"
)

// Record ids in the fixture base.
const (
	SenatorAda     = "recSenatorsXXXX01"
	SenatorCharles = "recSenatorsXXXX02"
	SenatorBarbara = "recSenatorsXXXX03"

	SlateJanuary  = "recSlatesXXXXXX01"
	SlateFebruary = "recSlatesXXXXXX02"

	PositionWater = "recPositionsXXX01"
	PositionArts  = "recPositionsXXX02"
	PositionUni   = "recPositionsXXX03"

	NomineeJane = "recNomineesXXXX01"
	NomineeJohn = "recNomineesXXXX02"
	NomineeAlex = "recNomineesXXXX03"

	VoteAdaJanuary     = "recVotesXXXXXXX01"
	VoteCharlesJanuary = "recVotesXXXXXXX02"
	VoteBarbaraJanuary = "recVotesXXXXXXX03"
	VoteAdaFebruary    = "recVotesXXXXXXX04"

	// Missing is a well-formed id that no table holds.
	Missing = "recMissingXXXXX99"
)

// PhotoURL is the attachment URL on Ada's record.
const PhotoURL = "https://dl.airtable.test/ada.jpg"

// Base returns the fixture tables: three senators, two slates, three
// positions, three nominees, and four individual votes.
func Base() map[string][]record.Record {
	photo, _ := record.DecodeValue(json.RawMessage(
		`[{"id":"attAda","url":"` + PhotoURL + `","filename":"ada.jpg","type":"image/jpeg"}]`))

	return map[string][]record.Record{
		record.TableSenators: {
			Rec(record.TableSenators, SenatorAda, map[string]any{
				"Full Name": "Ada Lovelace", "Party": "D", "District": "1",
				"% Aye": 0.5, "% Nay": 0.5, "Number of Votes": 2,
				"Ayes": 1, "Nays": 1, "Absent": 0, "Excused": 0,
				"Photo": photo,
			}),
			Rec(record.TableSenators, SenatorCharles, map[string]any{
				"Full Name": "Charles Babbage", "Party": "R", "District": "2",
				"% Aye": 0.0, "% Nay": 1.0, "Number of Votes": 1,
				"Ayes": 0, "Nays": 1, "Absent": 0, "Excused": 0,
			}),
			Rec(record.TableSenators, SenatorBarbara, map[string]any{
				"Full Name": "Barbara Liskov", "Party": "D", "District": "3",
				"% Aye": 1.0, "Number of Votes": 1,
				"Ayes": 1, "Nays": 0, "Absent": 0, "Excused": 0,
			}),
		},
		record.TableSlates: {
			Rec(record.TableSlates, SlateJanuary, map[string]any{
				"Date": "2024-01-15", "Slate of Day": 1,
				"Position(s)": []string{PositionArts, PositionWater, PositionArts},
				"Confirmed?":  "Yes", "Ayes": 2, "Nays": 1, "Abs": 0, "Exc": 0,
			}),
			Rec(record.TableSlates, SlateFebruary, map[string]any{
				"Date": "2024-02-20", "Slate of Day": 1,
				"Position(s)": []string{PositionUni},
				"Confirmed?":  "No", "Ayes": 0, "Nays": 1, "Abs": 0, "Exc": 0,
			}),
		},
		record.TablePositions: {
			Rec(record.TablePositions, PositionWater, map[string]any{
				"Name": "Water Board Commissioner", "Role": "Commissioner", "Organization": "Water Board",
			}),
			Rec(record.TablePositions, PositionArts, map[string]any{
				"Name": "Arts Council Director", "Role": "Director", "Organization": "Arts Council",
			}),
			Rec(record.TablePositions, PositionUni, map[string]any{
				"Name": "University Trustee", "Role": "Trustee", "Organization": "University",
			}),
		},
		record.TableNominees: {
			Rec(record.TableNominees, NomineeJane, map[string]any{
				"Full Name": "Jane Roe", "Position": []string{PositionWater}, "Slate": []string{SlateJanuary},
				"Year": 2024, "Confirmed?": "Yes", "Ayes": 2, "Nays": 1, "Abs": 0, "Exc": 0,
			}),
			Rec(record.TableNominees, NomineeJohn, map[string]any{
				"Full Name": "John Doe", "Position": []string{PositionArts}, "Slate": []string{SlateJanuary},
				"Year": 2023, "Confirmed?": "Yes", "Ayes": 2, "Nays": 1,
			}),
			Rec(record.TableNominees, NomineeAlex, map[string]any{
				"Full Name": "Alex Poe", "Position": []string{PositionWater}, "Slate": []string{SlateFebruary},
				"Year": 2024, "Confirmed?": "No", "Ayes": 0, "Nays": 1,
			}),
		},
		record.TableIndividualVotes: {
			Rec(record.TableIndividualVotes, VoteAdaJanuary, map[string]any{
				"Senator": []string{SenatorAda}, "Slate": []string{SlateJanuary}, "Vote": "Aye",
			}),
			Rec(record.TableIndividualVotes, VoteCharlesJanuary, map[string]any{
				"Senator": []string{SenatorCharles}, "Slate": []string{SlateJanuary}, "Vote": "Nay",
			}),
			Rec(record.TableIndividualVotes, VoteBarbaraJanuary, map[string]any{
				"Senator": []string{SenatorBarbara}, "Slate": []string{SlateJanuary}, "Vote": "Aye",
			}),
			Rec(record.TableIndividualVotes, VoteAdaFebruary, map[string]any{
				"Senator": []string{SenatorAda}, "Slate": []string{SlateFebruary}, "Vote": "Nay",
			}),
		},
	}
}

// BaseStore returns a Store over Base().
func BaseStore() *Store {
	return NewStore(Base())
}
