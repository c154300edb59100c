package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateUnavailable is rendered in place of a missing or malformed timestamp.
const DateUnavailable = "date unavailable"

// ErrMalformedTimestamp is returned for date payloads that cannot be normalized.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Timestamp is a point in time that may be absent.
// The zero value is the absent timestamp.
type Timestamp struct {
	t     time.Time
	valid bool
}

// NewTimestamp wraps t; the zero time yields an absent timestamp.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{t: t, valid: true}
}

// Valid reports whether the timestamp carries a real value.
func (ts Timestamp) Valid() bool {
	return ts.valid
}

// Time returns the wrapped time and whether it is present.
func (ts Timestamp) Time() (time.Time, bool) {
	return ts.t, ts.valid
}

// Before reports whether ts is earlier than other. Absent timestamps never compare.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.valid && other.valid && ts.t.Before(other.t)
}

// Format renders ts with layout or the DateUnavailable placeholder.
func (ts Timestamp) Format(layout string) string {
	if !ts.valid {
		return DateUnavailable
	}
	return ts.t.Format(layout)
}

var stringLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp normalizes a raw JSON date. Accepted shapes are an ISO-8601 string
// and a [year, month, day, hour, minute, second(, nanos)] tuple with a 1-based month.
// null, "" and an empty body give an absent timestamp without error.
func ParseTimestamp(raw []byte) (Timestamp, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Timestamp{}, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Timestamp{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, err)
		}
		return parseTimestampString(s)
	case '[':
		var parts []int
		if err := json.Unmarshal(raw, &parts); err != nil {
			return Timestamp{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, err)
		}
		return TimestampFromParts(parts)
	default:
		return Timestamp{}, fmt.Errorf("%w: unexpected %q", ErrMalformedTimestamp, string(raw))
	}
}

func parseTimestampString(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// TimestampFromParts builds a UTC timestamp from date-time components.
// At least year, month and day are required; month is 1-based.
func TimestampFromParts(parts []int) (Timestamp, error) {
	if len(parts) < 3 || len(parts) > 7 {
		return Timestamp{}, fmt.Errorf("%w: %d components", ErrMalformedTimestamp, len(parts))
	}
	values := make([]int, 7)
	copy(values, parts)
	year, month, day, hour, minute, second, nanos := values[0], values[1], values[2], values[3], values[4], values[5], values[6]

	if month < 1 || month > 12 || day < 1 || hour < 0 || hour > 23 ||
		minute < 0 || minute > 59 || second < 0 || second > 59 || nanos < 0 || nanos > 999999999 {
		return Timestamp{}, fmt.Errorf("%w: %v out of range", ErrMalformedTimestamp, parts)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, nanos, time.UTC)
	if t.Day() != day {
		return Timestamp{}, fmt.Errorf("%w: %v is not a calendar date", ErrMalformedTimestamp, parts)
	}
	return NewTimestamp(t), nil
}
