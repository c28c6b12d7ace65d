package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	r := &Recorder{}

	require.NoError(t, r.Schedule(ctx, Alert{ID: "1"}))
	require.NoError(t, r.Schedule(ctx, Alert{ID: "2"}))
	assert.Len(t, r.Pending(), 2)

	require.NoError(t, r.ClearAll(ctx))
	assert.Empty(t, r.Pending())
	assert.Equal(t, 1, r.Clears())

	r.ScheduleErr = errors.New("denied")
	assert.Error(t, r.Schedule(ctx, Alert{ID: "3"}))
	assert.Empty(t, r.Pending())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(log.NewStdLogger(&buf))

	require.NoError(t, n.ClearAll(context.Background()))
	require.NoError(t, n.Schedule(context.Background(), Alert{
		ID:      "abc",
		Title:   "Don't forget your task!",
		Body:    "Storia: Ripassa is about to expire today!",
		Trigger: time.Date(2026, 10, 15, 15, 30, 0, 0, time.UTC),
	}))

	out := buf.String()
	assert.Contains(t, out, "reminder scheduled")
	assert.Contains(t, out, "2026-10-15 15:30:00")
	assert.Contains(t, out, "abc")
}
