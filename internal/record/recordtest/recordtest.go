// Package recordtest provides an in-memory record store and a small
// confirmations base for tests.
package recordtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rshade/confirmvotes/internal/record"
)

// ErrUnknownTable is returned for tables the store does not hold.
var ErrUnknownTable = errors.New("unknown table")

// Store is an in-memory record store that counts list calls per table.
type Store struct {
	mu     sync.Mutex
	tables map[string][]record.Record
	errs   map[string]error
	lists  map[string]int
	finds  map[string]int
}

// NewStore returns a store holding tables.
func NewStore(tables map[string][]record.Record) *Store {
	return &Store{
		tables: tables,
		errs:   map[string]error{},
		lists:  map[string]int{},
		finds:  map[string]int{},
	}
}

// FailTable makes every call touching table return err.
func (s *Store) FailTable(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[table] = err
}

// ListRecords returns a copy of table.
func (s *Store) ListRecords(_ context.Context, table string) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[table]++
	if err := s.errs[table]; err != nil {
		return nil, err
	}
	recs, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return append([]record.Record(nil), recs...), nil
}

// FindRecord looks id up in table.
func (s *Store) FindRecord(_ context.Context, table, id string) (record.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds[table]++
	if err := s.errs[table]; err != nil {
		return record.Record{}, false, err
	}
	recs, ok := s.tables[table]
	if !ok {
		return record.Record{}, false, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	for _, r := range recs {
		if r.ID == id {
			return r, true, nil
		}
	}
	return record.Record{}, false, nil
}

// ListCalls returns how many times table was listed.
func (s *Store) ListCalls(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists[table]
}

// FindCalls returns how many lookups hit table.
func (s *Store) FindCalls(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finds[table]
}

// Rec builds a record from plain Go values. Strings, numbers, and bools become
// scalars. []string becomes a link list when every element is a record id and a
// scalar list otherwise.
func Rec(table, id string, fields map[string]any) record.Record {
	values := make(map[string]record.Value, len(fields))
	for name, v := range fields {
		values[name] = toValue(v)
	}
	return record.Record{ID: id, Table: table, Fields: values}
}

func toValue(v any) record.Value {
	switch t := v.(type) {
	case record.Value:
		return t
	case string:
		return record.Text(t)
	case int:
		return record.Num(float64(t))
	case float64:
		return record.Num(t)
	case bool:
		return record.ScalarValue(record.Bool(t))
	case []string:
		for _, s := range t {
			if !record.IsRecordID(s) {
				return record.Texts(t...)
			}
		}
		return record.Links(t...)
	default:
		panic(fmt.Sprintf("recordtest: unsupported field type %T", v))
	}
}
