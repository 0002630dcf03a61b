package record

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindEmpty is an absent or null field.
	KindEmpty Kind = iota
	// KindScalar is a single string, number, or bool.
	KindScalar
	// KindScalarList is an array of scalars (multi-select, lookups).
	KindScalarList
	// KindLinkList is an array of record ids pointing into another table.
	KindLinkList
	// KindRaw is any JSON object or array of objects (attachments, collaborators).
	KindRaw
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindScalar:
		return "scalar"
	case KindScalarList:
		return "scalar_list"
	case KindLinkList:
		return "link_list"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// ScalarKind identifies the primitive held by a Scalar.
type ScalarKind int

const (
	// ScalarString holds text.
	ScalarString ScalarKind = iota
	// ScalarNumber holds a float64.
	ScalarNumber
	// ScalarBool holds a checkbox value.
	ScalarBool
)

// Scalar is a single primitive cell value.
type Scalar struct {
	kind ScalarKind
	str  string
	num  float64
	b    bool
}

// String creates a text scalar.
func String(s string) Scalar { return Scalar{kind: ScalarString, str: s} }

// Number creates a numeric scalar.
func Number(n float64) Scalar { return Scalar{kind: ScalarNumber, num: n} }

// Bool creates a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: ScalarBool, b: b} }

// Kind reports the primitive type.
func (s Scalar) Kind() ScalarKind { return s.kind }

// Text renders the scalar for display. Whole numbers render without a decimal point.
func (s Scalar) Text() string {
	switch s.kind {
	case ScalarNumber:
		return strconv.FormatFloat(s.num, 'f', -1, 64)
	case ScalarBool:
		return strconv.FormatBool(s.b)
	default:
		return s.str
	}
}

// Float returns the numeric interpretation and whether one exists.
// Numeric strings parse; booleans map to 0/1.
func (s Scalar) Float() (float64, bool) {
	switch s.kind {
	case ScalarNumber:
		return s.num, true
	case ScalarBool:
		if s.b {
			return 1, true
		}
		return 0, true
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(s.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

func (s Scalar) any() any {
	switch s.kind {
	case ScalarNumber:
		return s.num
	case ScalarBool:
		return s.b
	default:
		return s.str
	}
}

// Value is a tagged union over the shapes an upstream field can take.
// The zero Value is KindEmpty.
type Value struct {
	kind   Kind
	scalar Scalar
	list   []Scalar
	links  []string
	raw    json.RawMessage
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// ScalarValue wraps a single scalar.
func ScalarValue(s Scalar) Value { return Value{kind: KindScalar, scalar: s} }

// Text is shorthand for ScalarValue(String(s)).
func Text(s string) Value { return ScalarValue(String(s)) }

// Num is shorthand for ScalarValue(Number(n)).
func Num(n float64) Value { return ScalarValue(Number(n)) }

// List wraps a list of scalars. An empty list is the empty value.
func List(items ...Scalar) Value {
	if len(items) == 0 {
		return Value{}
	}
	return Value{kind: KindScalarList, list: append([]Scalar(nil), items...)}
}

// Texts builds a scalar list of strings.
func Texts(items ...string) Value {
	scalars := make([]Scalar, len(items))
	for i, s := range items {
		scalars[i] = String(s)
	}
	return List(scalars...)
}

// Links wraps a list of record ids. An empty list is the empty value.
func Links(ids ...string) Value {
	if len(ids) == 0 {
		return Value{}
	}
	return Value{kind: KindLinkList, links: append([]string(nil), ids...)}
}

// Raw wraps an undecoded JSON value.
func Raw(data json.RawMessage) Value {
	return Value{kind: KindRaw, raw: append(json.RawMessage(nil), data...)}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the value holds nothing displayable.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty || (v.kind == KindScalar && v.scalar.kind == ScalarString && v.scalar.str == "")
}

// Scalar returns the scalar and true when the value is KindScalar.
func (v Value) Scalar() (Scalar, bool) {
	return v.scalar, v.kind == KindScalar
}

// Scalars returns the list items for KindScalarList, or the single scalar as a one-item list.
func (v Value) Scalars() []Scalar {
	switch v.kind {
	case KindScalarList:
		return append([]Scalar(nil), v.list...)
	case KindScalar:
		return []Scalar{v.scalar}
	default:
		return nil
	}
}

// LinkIDs returns the referenced record ids, or nil when the value is not a link list.
func (v Value) LinkIDs() []string {
	if v.kind != KindLinkList {
		return nil
	}
	return append([]string(nil), v.links...)
}

// RawJSON returns the undecoded payload of a KindRaw value.
func (v Value) RawJSON() json.RawMessage {
	if v.kind != KindRaw {
		return nil
	}
	return v.raw
}

// Text renders the value for display. Lists are joined with ", ".
func (v Value) Text() string {
	switch v.kind {
	case KindScalar:
		return v.scalar.Text()
	case KindScalarList:
		parts := make([]string, len(v.list))
		for i, s := range v.list {
			parts[i] = s.Text()
		}
		return strings.Join(parts, ", ")
	case KindLinkList:
		return strings.Join(v.links, ", ")
	case KindRaw:
		return string(v.raw)
	default:
		return ""
	}
}

// Float returns the numeric interpretation of a scalar value.
func (v Value) Float() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	return v.scalar.Float()
}

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar
	case KindScalarList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	case KindLinkList:
		if len(v.links) != len(o.links) {
			return false
		}
		for i := range v.links {
			if v.links[i] != o.links[i] {
				return false
			}
		}
		return true
	case KindRaw:
		return bytes.Equal(v.raw, o.raw)
	default:
		return true
	}
}

// MarshalJSON encodes the value in its natural upstream shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar.any())
	case KindScalarList:
		items := make([]any, len(v.list))
		for i, s := range v.list {
			items[i] = s.any()
		}
		return json.Marshal(items)
	case KindLinkList:
		return json.Marshal(v.links)
	case KindRaw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes and normalizes an upstream field value.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeValue(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// MarshalYAML renders values for YAML output using their natural shape.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindScalar:
		return v.scalar.any(), nil
	case KindScalarList:
		items := make([]any, len(v.list))
		for i, s := range v.list {
			items[i] = s.any()
		}
		return items, nil
	case KindLinkList:
		return v.links, nil
	case KindRaw:
		var out any
		if err := json.Unmarshal(v.raw, &out); err != nil {
			return string(v.raw), nil //nolint:nilerr // unparseable raw payloads render as text
		}
		return out, nil
	default:
		return nil, nil
	}
}

// recordIDPattern matches upstream record ids such as "recA1b2C3d4E5f6G7".
var recordIDPattern = regexp.MustCompile(`^rec[A-Za-z0-9]{14}$`)

// IsRecordID reports whether s looks like an upstream record id.
func IsRecordID(s string) bool {
	return recordIDPattern.MatchString(s)
}
