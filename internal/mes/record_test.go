// internal/mes/record_test.go
package mes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRecord_KeyOrder(t *testing.T) {
	raw := json.RawMessage(`{"LINE":"L1","MODEL":"X1","STATION":"ST-04","OP":"A7"}`)

	rec := parseRecord(raw)

	assert.Equal(t, []string{"LINE", "MODEL", "STATION", "OP"}, rec.Keys())
	v, ok := rec.Value("STATION")
	assert.True(t, ok)
	assert.Equal(t, "ST-04", v)
}

func TestParseRecord_ValueStringification(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		key      string
		expected string
	}{
		{
			name:     "string verbatim",
			raw:      `{"K":"value"}`,
			key:      "K",
			expected: "value",
		},
		{
			name:     "integer keeps JSON spelling",
			raw:      `{"K":42}`,
			key:      "K",
			expected: "42",
		},
		{
			name:     "float keeps JSON spelling",
			raw:      `{"K":3.14}`,
			key:      "K",
			expected: "3.14",
		},
		{
			name:     "boolean",
			raw:      `{"K":true}`,
			key:      "K",
			expected: "true",
		},
		{
			name:     "null becomes empty",
			raw:      `{"K":null}`,
			key:      "K",
			expected: "",
		},
		{
			name:     "nested object re-encoded compactly",
			raw:      `{"K":{"a":1}}`,
			key:      "K",
			expected: `{"a":1}`,
		},
		{
			name:     "non-ascii preserved",
			raw:      `{"K":"產線一"}`,
			key:      "K",
			expected: "產線一",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parseRecord(json.RawMessage(tt.raw))
			v, ok := rec.Value(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParseRecord_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{name: "absent", raw: nil},
		{name: "null", raw: json.RawMessage(`null`)},
		{name: "array", raw: json.RawMessage(`[1,2]`)},
		{name: "string", raw: json.RawMessage(`"not an object"`)},
		{name: "garbage", raw: json.RawMessage(`{{{`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parseRecord(tt.raw)
			assert.Equal(t, 0, rec.Len())
			assert.Empty(t, rec.Keys())
		})
	}
}

func TestRecord_SetRepeatedKeyKeepsPosition(t *testing.T) {
	rec := NewRecord()
	rec.Set("A", "1")
	rec.Set("B", "2")
	rec.Set("A", "3")

	assert.Equal(t, []string{"A", "B"}, rec.Keys())
	v, _ := rec.Value("A")
	assert.Equal(t, "3", v)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		server   string
		apiPath  string
		serial   string
		expected string
	}{
		{
			name:     "trailing and leading slashes normalized",
			server:   "http://mes.local/",
			apiPath:  "/api/v1/record/",
			serial:   "SN001",
			expected: "http://mes.local/api/v1/record/SN001",
		},
		{
			name:     "no slashes supplied",
			server:   "http://mes.local",
			apiPath:  "api/v1/record/",
			serial:   "SN001",
			expected: "http://mes.local/api/v1/record/SN001",
		},
		{
			name:     "multiple trailing slashes",
			server:   "http://mes.local//",
			apiPath:  "//api/record/",
			serial:   "SN-9",
			expected: "http://mes.local/api/record/SN-9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildURL(tt.server, tt.apiPath, tt.serial))
		})
	}
}
