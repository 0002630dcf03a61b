package views

import (
	"context"
	"slices"

	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/router"
)

// FieldView is one field of a generic record page. Link fields carry the
// resolved targets in Links. Ids that resolve nowhere are left out; when none
// resolve, Links is empty and the raw value is shown instead.
type FieldView struct {
	Name  string        `json:"name"            yaml:"name"`
	Value record.Value  `json:"value"           yaml:"value"`
	Links []LinkSummary `json:"links,omitempty" yaml:"links,omitempty"`
}

// RecordPage is a record from any table with its links resolved.
type RecordPage struct {
	Table  string        `json:"table"  yaml:"table"`
	ID     string        `json:"id"     yaml:"id"`
	Found  bool          `json:"found"  yaml:"found"`
	Title  string        `json:"title"  yaml:"title"`
	Fields []FieldView   `json:"fields" yaml:"fields"`
	Record record.Record `json:"-"      yaml:"-"`
}

// kindOf maps a table to the route kind that shows its records.
func kindOf(table string) router.Kind {
	switch table {
	case record.TableSenators:
		return router.KindSenators
	case record.TableNominees:
		return router.KindNominees
	case record.TableSlates:
		return router.KindSlates
	case record.TablePositions:
		return router.KindPositions
	default:
		return router.KindRecord
	}
}

// titleFields are the primary fields of the known tables.
var titleFields = map[string]string{
	record.TableSenators:  "Full Name",
	record.TableNominees:  "Full Name",
	record.TablePositions: "Name",
	record.TableSlates:    "Date",
}

// titleOf labels a record by its table's primary field, falling back to
// DisplayName for tables without one.
func titleOf(r record.Record) string {
	if field, ok := titleFields[r.Table]; ok {
		if t := r.Text(field); t != "" {
			return t
		}
	}
	return r.DisplayName()
}

// Record loads id from table and resolves each linked id against every
// known table. The requested table is loaded first so it wins any lookup.
func (s *Service) Record(ctx context.Context, table, id string) (*RecordPage, error) {
	tables := append([]string{table}, record.KnownTables()...)
	snap, err := s.resolver.Load(ctx, tables...)
	if err != nil {
		return nil, err
	}

	page := &RecordPage{Table: table, ID: id}
	recs, _ := snap.Table(table)
	idx := slices.IndexFunc(recs, func(r record.Record) bool { return r.ID == id })
	if idx < 0 {
		return page, nil
	}

	rec := recs[idx]
	page.Found = true
	page.Record = rec
	page.Title = titleOf(rec)
	for _, name := range rec.FieldNames() {
		v := rec.Fields[name]
		fv := FieldView{Name: name, Value: v}
		for _, linked := range v.LinkIDs() {
			if link, ok := linkSummary(name, linked, snap); ok {
				fv.Links = append(fv.Links, link)
			}
		}
		page.Fields = append(page.Fields, fv)
	}
	return page, nil
}

func linkSummary(field, id string, snap resolver.Snapshot) (LinkSummary, bool) {
	target, ok := resolver.ResolveLinkedRecord(id, snap)
	if !ok {
		return LinkSummary{}, false
	}
	return LinkSummary{
		Label: field,
		Kind:  kindOf(target.Table),
		Table: target.Table,
		ID:    id,
		Text:  titleOf(target),
	}, true
}
