package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// timestampLayouts are tried in order; fractional seconds are accepted after
// the seconds field by every layout. Values without an offset are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05", // python datetime.isoformat()
	"2006-01-02 15:04:05", // sqlite datetime('now')
	"2006-01-02",
}

// Timestamp decodes the completion times the score backends send: RFC3339,
// naive ISO 8601, SQL datetime text or unix seconds. It encodes as RFC3339.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp %q", s)
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*ts = Timestamp{}
			return nil
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("unsupported timestamp %s", data)
	}
	whole, frac := math.Modf(secs)
	*ts = Timestamp{Time: time.Unix(int64(whole), int64(frac*1e9)).UTC()}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}
