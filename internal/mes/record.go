// internal/mes/record.go
package mes

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is the "data" object of a successful MES response with keys kept in
// document order and every value flattened to a string for templating.
type Record struct {
	keys   []string
	values map[string]string
}

func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set appends key on first use and stores value. A repeated key keeps its
// original position.
func (r *Record) Set(key, value string) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Value returns the value for key and whether it exists.
func (r *Record) Value(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in document order. The slice is a copy.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int {
	return len(r.keys)
}

// parseRecord decodes raw as a JSON object, preserving key order by walking
// decoder tokens. Absent, null, or non-object input yields an empty record.
func parseRecord(raw json.RawMessage) *Record {
	rec := NewRecord()
	if len(raw) == 0 {
		return rec
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return rec
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return rec
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return rec
		}
		key, ok := keyTok.(string)
		if !ok {
			return rec
		}

		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return rec
		}
		rec.Set(key, stringify(val))
	}
	return rec
}

// stringify flattens a decoded JSON value to the text used in reports.
// Numbers and booleans keep their JSON spelling, null becomes empty, and
// nested structures are re-encoded compactly.
func stringify(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
