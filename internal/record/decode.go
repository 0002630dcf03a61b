package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeValue converts one raw upstream field into a Value.
//
// Arrays whose elements are all record ids become link lists. A one-element
// array holding a non-id scalar collapses to that scalar (single-select
// normalization), so ["Aye"] decodes to "Aye" while ["recXXXXXXXXXXXXXX"]
// stays a link list.
func DecodeValue(data json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Value{}, nil
	}

	switch trimmed[0] {
	case '{':
		return Raw(trimmed), nil
	case '[':
		return decodeArray(trimmed)
	default:
		s, err := decodeScalar(trimmed)
		if err != nil {
			return Value{}, err
		}
		return ScalarValue(s), nil
	}
}

func decodeArray(data []byte) (Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return Value{}, fmt.Errorf("decoding array field: %w", err)
	}
	if len(items) == 0 {
		return Value{}, nil
	}

	scalars := make([]Scalar, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] == '{' || item[0] == '[' {
			// Attachments, collaborators, and nested arrays stay verbatim.
			return Raw(data), nil
		}
		if bytes.Equal(item, []byte("null")) {
			continue
		}
		s, err := decodeScalar(item)
		if err != nil {
			return Value{}, err
		}
		scalars = append(scalars, s)
	}
	if len(scalars) == 0 {
		return Value{}, nil
	}

	if allRecordIDs(scalars) {
		ids := make([]string, len(scalars))
		for i, s := range scalars {
			ids[i] = s.str
		}
		return Links(ids...), nil
	}

	if len(scalars) == 1 {
		return ScalarValue(scalars[0]), nil
	}
	return List(scalars...), nil
}

func allRecordIDs(scalars []Scalar) bool {
	for _, s := range scalars {
		if s.kind != ScalarString || !IsRecordID(s.str) {
			return false
		}
	}
	return true
}

func decodeScalar(data []byte) (Scalar, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Scalar{}, fmt.Errorf("decoding scalar field: %w", err)
	}
	switch t := v.(type) {
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	default:
		return Scalar{}, fmt.Errorf("unsupported scalar %s", string(data))
	}
}

// DecodeFields decodes and normalizes an upstream field map.
func DecodeFields(raw map[string]json.RawMessage) (map[string]Value, error) {
	fields := make(map[string]Value, len(raw))
	for name, data := range raw {
		v, err := DecodeValue(data)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if v.Kind() == KindEmpty {
			continue
		}
		fields[name] = v
	}
	return fields, nil
}
