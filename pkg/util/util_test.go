package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestParseDue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"compact days", "+1d", time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)},
		{"compact hours", "6h", time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)},
		{"compact past", "-2w", time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)},
		{"date only", "2026-10-20", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)},
		{"date and time", "2026-10-20 17:45", time.Date(2026, 10, 20, 17, 45, 0, 0, time.UTC)},
		{"rfc3339", "2026-10-20T08:00:00+02:00", time.Date(2026, 10, 20, 6, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDue(tt.input, now)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "ParseDue(%q) = %v, want %v", tt.input, got, tt.want)
		})
	}
}

func TestParseDueNaturalLanguage(t *testing.T) {
	got, err := ParseDue("tomorrow", now)
	require.NoError(t, err)
	y, m, d := got.Date()
	assert.Equal(t, []int{2026, 10, 16}, []int{y, int(m), d})
}

func TestParseDueRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "qwerty zxcv"} {
		_, err := ParseDue(input, now)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseCompactDuration(t *testing.T) {
	got, err := ParseCompactDuration("+3m", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2027, 1, 15, 12, 0, 0, 0, time.UTC)))

	got, err = ParseCompactDuration("1y", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2027, 10, 15, 12, 0, 0, 0, time.UTC)))

	for _, bad := range []string{"6", "h", "++1d", "1x", "tomorrow"} {
		_, err := ParseCompactDuration(bad, now)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestHumanDue(t *testing.T) {
	assert.Equal(t, "today 18:00", HumanDue(time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "tomorrow 09:30", HumanDue(time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC), now))
	assert.Equal(t, "yesterday 23:59", HumanDue(time.Date(2026, 10, 14, 23, 59, 0, 0, time.UTC), now))
	assert.Equal(t, "2026-11-02 08:00", HumanDue(time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC), now))
}
