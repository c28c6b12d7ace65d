package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// referenceDate is the epoch of numeric dates in blobs written by the
// original mobile app (seconds since 2001-01-01 UTC).
var referenceDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// maxReferenceSeconds bounds numeric dates to what time.Duration can hold.
const maxReferenceSeconds = float64(math.MaxInt64 / int64(time.Second))

type Timestamp struct {
	time.Time
}

// At wraps t for use in optional task fields.
func At(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// MarshalJSON implements the json.Marshaler interface for Timestamp.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.Time.Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface for Timestamp.
// Both RFC 3339 strings and reference-date seconds are accepted.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("failed to parse timestamp '%s': %w", s, err)
		}
		ts.Time = t
		return nil
	}

	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("failed to parse timestamp %s: %w", b, err)
	}
	if math.Abs(secs) > maxReferenceSeconds {
		return fmt.Errorf("timestamp %s out of range", b)
	}
	whole, frac := math.Modf(secs)
	ts.Time = time.Unix(referenceDate.Unix()+int64(whole), int64(frac*float64(time.Second))).UTC()
	return nil
}
