package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// stringLayouts are the accepted string timestamp forms, tried in order.
// Providers emit RFC 3339 (NWS, NewsAPI); the rest cover hand-edited state
// documents.
var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime is a timestamp that arrives as either an epoch-millisecond number
// or a parseable date/time string. It normalizes to epoch ms for comparison
// while preserving the original wire form, so persisted documents round-trip
// byte-faithfully.
//
// The zero FlexTime means "absent" and normalizes to 0. An unparseable string
// also normalizes to 0 but keeps its original text on re-marshal.
type FlexTime struct {
	ms       int64
	str      string
	isString bool
}

// FromMillis returns a FlexTime carried as an epoch-millisecond number.
func FromMillis(ms int64) FlexTime {
	return FlexTime{ms: ms}
}

// FromString returns a FlexTime carried as a string, parsed per ParseMillis.
func FromString(s string) FlexTime {
	return FlexTime{ms: ParseMillis(s), str: s, isString: true}
}

// FromTime returns a FlexTime carried as an RFC 3339 string.
func FromTime(t time.Time) FlexTime {
	return FromString(t.UTC().Format(time.RFC3339))
}

// Millis returns the normalized epoch-millisecond value. This is the only
// form timestamps may be compared in.
func (t FlexTime) Millis() int64 { return t.ms }

// IsZero reports whether the timestamp is absent. It also drives the
// omitzero JSON tag on optional fields.
func (t FlexTime) IsZero() bool { return t.ms == 0 && !t.isString }

func (t FlexTime) String() string {
	if t.isString {
		return t.str
	}
	return strconv.FormatInt(t.ms, 10)
}

// UnmarshalJSON accepts a JSON number (epoch ms), a JSON string, or null.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*t = FlexTime{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = FromString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = FromMillis(int64(n))
	return nil
}

// MarshalJSON writes the timestamp back in the form it was given.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.isString {
		return json.Marshal(t.str)
	}
	return json.Marshal(t.ms)
}

// ParseMillis converts a string timestamp to epoch milliseconds, returning 0
// when the string matches none of the accepted layouts.
func ParseMillis(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range stringLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UnixMilli()
		}
	}
	return 0
}
