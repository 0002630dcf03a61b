package views

import (
	"fmt"
	"sort"

	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/router"
)

// View names accepted by Lookup.
const (
	ViewSenators         = "senators"
	ViewNominees         = "nominees"
	ViewPositions        = "positions"
	ViewSlates           = "slates"
	ViewSenatorVotes     = "senator-votes"
	ViewSlateVotes       = "slate-votes"
	ViewSlateNominees    = "slate-nominees"
	ViewPositionNominees = "position-nominees"
	ViewNomineeVotes     = "nominee-votes"
)

const (
	kindSenators  = string(router.KindSenators)
	kindNominees  = string(router.KindNominees)
	kindSlates    = string(router.KindSlates)
	kindPositions = string(router.KindPositions)
)

func join(link, table, display string) *resolver.Join {
	return &resolver.Join{LinkField: link, TargetTable: table, TargetDisplayField: display}
}

func byName(column string) resolver.SortKey {
	return resolver.SortKey{Column: column, Compare: resolver.Collated}
}

// Senators lists every senator with vote ratios.
func Senators() resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewSenators,
		Primary: record.TableSenators,
		Columns: []resolver.Column{
			{Name: "Name", Field: "Full Name", Kind: kindSenators, LinkTo: resolver.LinkSelf},
			{Name: "Party", Field: "Party"},
			{Name: "District", Field: "District"},
			{Name: "% Aye", Field: "% Aye", Format: resolver.FormatPercent},
			{Name: "% Nay", Field: "% Nay", Format: resolver.FormatPercent},
			{Name: "# Votes", Field: "Number of Votes", Format: resolver.FormatCount},
		},
		Sort: []resolver.SortKey{byName("Name")},
	}
}

// Nominees lists every nominee with their position and slate date.
func Nominees() resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewNominees,
		Primary: record.TableNominees,
		Columns: []resolver.Column{
			{Name: "Name", Field: "Full Name", Kind: kindNominees, LinkTo: resolver.LinkSelf},
			{Name: "Position", Join: join("Position", record.TablePositions, "Name"),
				Kind: kindPositions, LinkTo: resolver.LinkJoined},
			{Name: "Slate", Join: join("Slate", record.TableSlates, "Date"),
				Kind: kindSlates, LinkTo: resolver.LinkJoined},
			{Name: "Confirmed?", Field: "Confirmed?"},
			{Name: "Ayes", Field: "Ayes", Format: resolver.FormatCount},
			{Name: "Nays", Field: "Nays", Format: resolver.FormatCount},
		},
		Sort: []resolver.SortKey{byName("Name")},
	}
}

// Positions lists every position by organization.
func Positions() resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewPositions,
		Primary: record.TablePositions,
		Columns: []resolver.Column{
			{Name: "Role", Field: "Role", Kind: kindPositions, LinkTo: resolver.LinkSelf},
			{Name: "Organization", Field: "Organization"},
		},
		Sort: []resolver.SortKey{byName("Organization")},
	}
}

// Slates lists every slate, newest first, with the roles it filled.
func Slates() resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewSlates,
		Primary: record.TableSlates,
		Columns: []resolver.Column{
			{Name: "Date", Field: "Date", Kind: kindSlates, LinkTo: resolver.LinkSelf},
			{Name: "Slate of Day", Field: "Slate of Day"},
			{Name: "Positions", Join: &resolver.Join{
				LinkField:          "Position(s)",
				TargetTable:        record.TablePositions,
				TargetDisplayField: "Role",
				Cardinality:        resolver.All,
				Distinct:           true,
				OrderBy:            "Organization",
			}, Kind: kindPositions, LinkTo: resolver.LinkJoined},
			{Name: "Confirmed?", Field: "Confirmed?"},
			{Name: "Ayes", Field: "Ayes", Format: resolver.FormatCount},
			{Name: "Nays", Field: "Nays", Format: resolver.FormatCount},
		},
		Sort: []resolver.SortKey{{Column: "Date", Descending: true}},
	}
}

// SenatorVotes lists one senator's votes, newest slate first.
func SenatorVotes(senatorID string) resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewSenatorVotes,
		Primary: record.TableIndividualVotes,
		Filter:  resolver.LinkContains("Senator", senatorID),
		Columns: []resolver.Column{
			{Name: "Date", Join: join("Slate", record.TableSlates, "Date"),
				Kind: kindSlates, LinkTo: resolver.LinkJoined},
			{Name: "Slate of Day", Join: join("Slate", record.TableSlates, "Slate of Day")},
			{Name: "Vote", Field: "Vote"},
			{Name: "Confirmed?", Join: join("Slate", record.TableSlates, "Confirmed?")},
		},
		Sort: []resolver.SortKey{{Column: "Date", Descending: true}},
	}
}

// voterColumns are the senator columns shared by slate and nominee vote lists.
func voterColumns() []resolver.Column {
	return []resolver.Column{
		{Name: "Senator", Join: join("Senator", record.TableSenators, "Full Name"),
			Kind: kindSenators, LinkTo: resolver.LinkJoined},
		{Name: "Party", Join: join("Senator", record.TableSenators, "Party")},
		{Name: "District", Join: join("Senator", record.TableSenators, "District")},
		{Name: "Vote", Field: "Vote"},
	}
}

// SlateVotes lists how each senator voted on one slate.
func SlateVotes(slateID string) resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewSlateVotes,
		Primary: record.TableIndividualVotes,
		Filter:  resolver.LinkContains("Slate", slateID),
		Columns: voterColumns(),
		Sort:    []resolver.SortKey{byName("Senator")},
	}
}

// NomineeVotes lists the votes cast on any of a nominee's slates.
func NomineeVotes(slateIDs ...string) resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewNomineeVotes,
		Primary: record.TableIndividualVotes,
		Filter:  resolver.LinkContainsAny("Slate", slateIDs...),
		Columns: voterColumns(),
		Sort:    []resolver.SortKey{byName("Senator")},
	}
}

// SlateNominees lists the nominees on one slate. Nominees are matched by
// their Slate link and, when given, by the slate's own Nominees link.
func SlateNominees(slateID string, nomineeIDs ...string) resolver.ViewSpec {
	filter := resolver.LinkContains("Slate", slateID)
	if len(nomineeIDs) > 0 {
		filter = resolver.Or(filter, resolver.IDIn(nomineeIDs...))
	}
	return resolver.ViewSpec{
		Name:    ViewSlateNominees,
		Primary: record.TableNominees,
		Filter:  filter,
		Columns: []resolver.Column{
			{Name: "Name", Field: "Full Name", Kind: kindNominees, LinkTo: resolver.LinkSelf},
			{Name: "Role", Join: join("Position", record.TablePositions, "Role"),
				Kind: kindPositions, LinkTo: resolver.LinkJoined},
			{Name: "Organization", Join: join("Position", record.TablePositions, "Organization")},
		},
		Sort: []resolver.SortKey{byName("Name")},
	}
}

// PositionNominees lists everyone nominated to one position, newest year first.
func PositionNominees(positionID string) resolver.ViewSpec {
	return resolver.ViewSpec{
		Name:    ViewPositionNominees,
		Primary: record.TableNominees,
		Filter:  resolver.LinkContains("Position", positionID),
		Columns: []resolver.Column{
			{Name: "Name", Field: "Full Name", Kind: kindNominees, LinkTo: resolver.LinkSelf},
			{Name: "Year", Field: "Year"},
			{Name: "Confirmed?", Field: "Confirmed?"},
			{Name: "Ayes", Field: "Ayes", Format: resolver.FormatCount},
			{Name: "Nays", Field: "Nays", Format: resolver.FormatCount},
		},
		Sort: []resolver.SortKey{
			{Column: "Year", Descending: true, Compare: resolver.Numeric},
			byName("Name"),
		},
	}
}

// ListView returns the list view for an entity kind.
func ListView(kind router.Kind) (resolver.ViewSpec, error) {
	switch kind {
	case router.KindSenators:
		return Senators(), nil
	case router.KindNominees:
		return Nominees(), nil
	case router.KindSlates:
		return Slates(), nil
	case router.KindPositions:
		return Positions(), nil
	default:
		return resolver.ViewSpec{}, fmt.Errorf("%w: no list view for %q", ErrUnknownView, kind)
	}
}

// entityViews need an id; nominee-votes is resolved through the Service
// because it depends on the nominee's slates.
var entityViews = map[string]func(string) resolver.ViewSpec{
	ViewSenatorVotes:     SenatorVotes,
	ViewSlateVotes:       SlateVotes,
	ViewSlateNominees:    func(id string) resolver.ViewSpec { return SlateNominees(id) },
	ViewPositionNominees: PositionNominees,
}

// NeedsID reports whether the named view is scoped to an entity.
func NeedsID(name string) bool {
	_, ok := entityViews[name]
	return ok || name == ViewNomineeVotes
}

// Names lists every view name in sorted order.
func Names() []string {
	names := []string{ViewSenators, ViewNominees, ViewPositions, ViewSlates, ViewNomineeVotes}
	for name := range entityViews {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the spec for a view name. id scopes entity views and must be
// empty for list views. nominee-votes is not available here; use Service.View.
func Lookup(name, id string) (resolver.ViewSpec, error) {
	if build, ok := entityViews[name]; ok {
		if id == "" {
			return resolver.ViewSpec{}, fmt.Errorf("%w: view %q needs an id", ErrMissingID, name)
		}
		return build(id), nil
	}
	if name == ViewNomineeVotes {
		return resolver.ViewSpec{}, fmt.Errorf("%w: %q is resolved through its nominee", ErrUnknownView, name)
	}
	if id != "" {
		return resolver.ViewSpec{}, fmt.Errorf("%w: view %q takes no id", ErrUnexpectedID, name)
	}
	kind, err := router.ParseKind(name)
	if err != nil || string(kind) != name {
		return resolver.ViewSpec{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return ListView(kind)
}
