// Package record defines the read-only data model shared by the store client,
// the relational resolver, and the renderers.
package record

import (
	"encoding/json"
	"sort"
	"time"
)

// Table names in the confirmations base.
const (
	TableSenators        = "Senators"
	TableNominees        = "Nominees"
	TablePositions       = "Positions"
	TableSlates          = "Slates"
	TableIndividualVotes = "Individual Votes"
)

// KnownTables lists every table in load order. The upstream API offers no
// table discovery, so this list is the schema.
func KnownTables() []string {
	return []string{TableSenators, TableNominees, TablePositions, TableSlates, TableIndividualVotes}
}

// displayNameFields are tried in order when a record's schema is unknown.
var displayNameFields = []string{"Name", "Title", "name", "title", "label", "Label"}

// Record is one upstream row: an id plus a normalized field map.
type Record struct {
	ID          string           `json:"id"           yaml:"id"`
	Table       string           `json:"table"        yaml:"table"`
	CreatedTime time.Time        `json:"created_time" yaml:"created_time"`
	Fields      map[string]Value `json:"fields"       yaml:"fields"`
}

// Field returns the named field, or the empty value when absent.
func (r Record) Field(name string) Value {
	if r.Fields == nil {
		return Value{}
	}
	return r.Fields[name]
}

// Text returns the display text of a field ("" when absent).
func (r Record) Text(name string) string {
	return r.Field(name).Text()
}

// Float returns a numeric field, or 0 when absent or non-numeric.
func (r Record) Float(name string) float64 {
	f, _ := r.Field(name).Float()
	return f
}

// Has reports whether the field is present and non-empty.
func (r Record) Has(name string) bool {
	return !r.Field(name).IsEmpty()
}

// LinkIDs returns the ids held by a link field.
func (r Record) LinkIDs(name string) []string {
	return r.Field(name).LinkIDs()
}

// FirstLink returns the first id of a link field and whether one exists.
func (r Record) FirstLink(name string) (string, bool) {
	ids := r.LinkIDs(name)
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// FieldNames returns field names in sorted order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DisplayName picks a human label for records whose schema is not known in advance.
func (r Record) DisplayName() string {
	for _, name := range displayNameFields {
		if v := r.Field(name); !v.IsEmpty() {
			return v.Text()
		}
	}
	for _, name := range r.FieldNames() {
		if v := r.Fields[name]; !v.IsEmpty() && v.Kind() != KindRaw {
			return v.Text()
		}
	}
	return r.ID
}

// Attachment is one entry of an attachment field.
type Attachment struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Type     string `json:"type"`
}

// Attachments decodes an attachment field. Non-attachment fields yield nil.
func (r Record) Attachments(name string) []Attachment {
	raw := r.Field(name).RawJSON()
	if raw == nil {
		return nil
	}
	var out []Attachment
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
