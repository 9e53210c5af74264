// internal/report/merge.go
package report

import (
	"strings"
	"time"

	"mes-report/internal/mes"
)

// timestampLayout renders 2-digit fractional seconds, e.g.
// "2026-08-23 14:03:07.41".
const timestampLayout = "2006-01-02 15:04:05.00"

// Merger fills template placeholders from a record. The clock is injectable
// so merges are deterministic under test.
type Merger struct {
	now func() time.Time
}

func NewMerger() *Merger {
	return &Merger{now: time.Now}
}

// Merge produces the processed report lines: a timestamp line, the template
// lines with placeholders filled, then any record keys the template never
// consumed.
//
// A placeholder is the first "##" in a line followed by the first '=' or ':'
// after it; the key is the trimmed text between. Fills always read the
// immutable record, so a key repeated across template lines fills every
// occurrence. Consumption bookkeeping only controls the append step: a key
// that filled some line is never appended again at the end.
func (m *Merger) Merge(templateLines []string, data *mes.Record) []string {
	out := make([]string, 0, len(templateLines)+data.Len()+1)
	out = append(out, m.now().Format(timestampLayout)+"\n")

	remaining := data.Keys()
	for _, line := range templateLines {
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}

		filled, key, ok := fillPlaceholder(line, data)
		if !ok {
			out = append(out, line)
			continue
		}
		out = append(out, filled)
		remaining = removeKey(remaining, key)
	}

	if len(remaining) == 0 {
		return out
	}

	extra := make([]string, 0, len(remaining))
	for _, key := range remaining {
		value, _ := data.Value(key)
		extra = append(extra, "##"+key+"="+value+"\n")
	}

	// A template ending in a lone "##" line marks where unmapped keys belong:
	// splice them in and keep that line last.
	if last := len(out) - 1; last >= 0 && strings.TrimSpace(out[last]) == "##" {
		trailer := out[last]
		out = append(out[:last], extra...)
		return append(out, trailer)
	}
	return append(out, extra...)
}

// fillPlaceholder returns the filled line and the key it consumed, or
// ok=false when the line has no placeholder or its key is not in data.
func fillPlaceholder(line string, data *mes.Record) (string, string, bool) {
	marker := strings.Index(line, "##")
	if marker < 0 {
		return "", "", false
	}

	rest := line[marker+2:]
	// First '=' or ':' after the marker wins, even when it sits in unrelated
	// trailing text.
	sep := strings.IndexAny(rest, "=:")
	if sep < 0 {
		return "", "", false
	}

	key := strings.TrimSpace(rest[:sep])
	value, ok := data.Value(key)
	if !ok {
		return "", "", false
	}

	prefix := line[:marker+2+sep+1]
	return prefix + value + "\n", key, true
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
