package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			input: `"2026-10-15T09:30:00Z"`,
			want:  time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "reference date seconds",
			input: `86400`,
			want:  time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "fractional seconds",
			input: `0.5`,
			want:  time.Date(2001, 1, 1, 0, 0, 0, int(500*time.Millisecond), time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, ts.Equal(tt.want), "got %v, want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestampUnmarshalRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday-ish"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &ts))
}

func TestTimestampUnmarshalRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{`1e13`, `-1e13`, `1e300`} {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(in), &ts), in)
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`9000000000`), &ts))
	assert.True(t, ts.Equal(referenceDate.Add(9000000000*time.Second)))
}

func TestTaskClone(t *testing.T) {
	due := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	orig := Task{ID: "1", DueAt: At(due), CompletedAt: At(due)}

	c := orig.Clone()
	c.DueAt.Time = due.AddDate(1, 0, 0)
	c.CompletedAt.Time = due.AddDate(1, 0, 0)

	assert.True(t, orig.DueAt.Equal(due))
	assert.True(t, orig.CompletedAt.Equal(due))
	assert.Nil(t, Task{}.Clone().DueAt)
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" High ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}
