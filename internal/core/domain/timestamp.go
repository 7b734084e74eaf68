package domain

import (
	"bytes"
	"strconv"
	"time"
)

// Timestamp is a time.Time that tolerates the formats found in stored
// documents: RFC 3339 strings, date-only strings and unix-millisecond
// numbers. Anything unparseable decodes to the zero time instead of
// failing the whole document, so a record with a broken timestamp can
// still be classified (it simply loses recency tie-breaks).
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) >= 2 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return nil
	}
	// unix milliseconds, the legacy document-key era
	if ms, err := strconv.ParseInt(string(b), 10, 64); err == nil && ms > 0 {
		t.Time = time.UnixMilli(ms).UTC()
	}
	return nil
}
