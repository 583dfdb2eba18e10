// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the hep-ingest pipeline:
// the loosely-typed bibliographic record, the harvested item wrapper, and
// per-stage configuration.
package types

import (
	"strconv"
	"strings"
)

// Record is a loosely-typed bibliographic record: a mapping of field name to
// value. Both harvest-format and HEP-format records use this shape; only the
// keys and nesting differ. Values decoded from JSON carry the usual
// encoding/json dynamic types (string, float64, []any, map[string]any).
type Record map[string]any

// String returns the value under key as a string, or "" when the key is
// absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// PopString removes key from the record and returns its string value.
// Absent or non-string values yield "".
func (r Record) PopString(key string) string {
	s := r.String(key)
	delete(r, key)
	return s
}

// List returns the value under key as a []any, or nil when the key is absent
// or not a list.
func (r Record) List(key string) []any {
	l, _ := r[key].([]any)
	return l
}

// PopList removes key from the record and returns its list value.
func (r Record) PopList(key string) []any {
	l := r.List(key)
	delete(r, key)
	return l
}

// Clone returns a deep copy of the record. Nested maps and lists are copied
// recursively; scalar values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Record(val).Clone())
	case Record:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return v
	}
}

// AsRecord converts a dynamic value to a Record. It accepts both Record and
// the map[string]any produced by encoding/json.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

// AsInt converts a dynamic value to an int. Strings are parsed after
// trimming whitespace; float64 values (JSON numbers) must be integral.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// AsString converts a dynamic value to a string, returning "" for anything
// that is not a string.
func AsString(v any) string {
	s, _ := v.(string)
	return s
}
