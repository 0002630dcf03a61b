package resolver

import (
	"context"

	"github.com/rshade/confirmvotes/internal/record"
)

// Table is one loaded table.
type Table struct {
	Name    string
	Records []record.Record
}

// Snapshot is a set of loaded tables in load order.
type Snapshot []Table

// Load fetches tables in parallel and returns them in the order given.
func (r *Resolver) Load(ctx context.Context, tables ...string) (Snapshot, error) {
	unique := distinct(tables)
	loaded, err := r.fetchAll(ctx, unique)
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot, 0, len(unique))
	for _, name := range unique {
		snap = append(snap, Table{Name: name, Records: loaded[name]})
	}
	return snap, nil
}

// Table returns the records of the named table and whether it was loaded.
func (s Snapshot) Table(name string) ([]record.Record, bool) {
	for _, t := range s {
		if t.Name == name {
			return t.Records, true
		}
	}
	return nil, false
}

// ResolveLinkedRecord scans every loaded table, in load order, for id. It
// never fetches. Use it only when a link's target table is unknown.
func ResolveLinkedRecord(id string, snap Snapshot) (record.Record, bool) {
	for _, t := range snap {
		for _, rec := range t.Records {
			if rec.ID == id {
				return rec, true
			}
		}
	}
	return record.Record{}, false
}
