package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Instant is the single ingestion boundary for timestamps. Callers send
// epoch milliseconds, RFC3339 strings or "YYYY-MM-DD HH:MM" pairs; inside
// the service everything is a UTC time.Time.
type Instant struct {
	time.Time
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// UnmarshalJSON accepts a JSON number (epoch milliseconds) or one of the
// supported string layouts.
func (i *Instant) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		i.Time = time.Time{}
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		t, err := ParseInstant(str)
		if err != nil {
			return err
		}
		i.Time = t
		return nil
	}

	millis, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", s, err)
	}
	i.Time = time.UnixMilli(millis).UTC()
	return nil
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if i.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(i.Time.UTC().Format(time.RFC3339))
}

// ParseInstant normalizes a timestamp string into a UTC time.Time. Plain
// digit strings are treated as epoch milliseconds.
func ParseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}

	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format %q", value)
}

// CombineDateTime builds an instant from the original form fields: a
// "YYYY-MM-DD" date and a "HH:MM" clock time.
func CombineDateTime(date, clock string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t.UTC(), nil
}
