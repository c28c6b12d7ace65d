package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/spacepod/pkg/notify"
)

type fakeCalendar struct {
	mu       sync.Mutex
	existing []string
	deleted  []string
	inserted []calendar.Event
	filters  []string
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/users/me/calendarList"):
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"id": "work-id", "summary": "Work"},
				{"id": "cal-1", "summary": "Tasks"},
			},
		})
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/calendars/cal-1/events"):
		f.filters = append(f.filters, r.URL.Query().Get("privateExtendedProperty"))
		items := make([]map[string]string, 0, len(f.existing))
		for _, id := range f.existing {
			items = append(items, map[string]string{"id": id})
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	case r.Method == http.MethodDelete && strings.Contains(r.URL.Path, "/calendars/cal-1/events/"):
		f.deleted = append(f.deleted, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/calendars/cal-1/events"):
		var ev calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.inserted = append(f.inserted, ev)
		json.NewEncoder(w).Encode(map[string]string{"id": "created-1"})
	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusNotFound)
	}
}

func newTestService(t *testing.T, fake *fakeCalendar) *calendar.Service {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	srv, err := calendar.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)
	return srv
}

func TestNewClientWithServiceFindsCalendar(t *testing.T) {
	srv := newTestService(t, &fakeCalendar{})

	n, err := NewClientWithService(context.Background(), srv, "Tasks", log.DefaultLogger)
	require.NoError(t, err)
	assert.Equal(t, "cal-1", n.calendarID)

	_, err = NewClientWithService(context.Background(), srv, "Holidays", log.DefaultLogger)
	assert.ErrorContains(t, err, "not found")
}

func TestClearAllDeletesTaggedEvents(t *testing.T) {
	fake := &fakeCalendar{existing: []string{"e1", "e2"}}
	n := NewNotifier(newTestService(t, fake), "cal-1", log.DefaultLogger)

	require.NoError(t, n.ClearAll(context.Background()))

	assert.Equal(t, []string{"spacepod_reminder=true"}, fake.filters)
	assert.ElementsMatch(t, []string{"e1", "e2"}, fake.deleted)
}

func TestScheduleInsertsEvent(t *testing.T) {
	fake := &fakeCalendar{}
	n := NewNotifier(newTestService(t, fake), "cal-1", log.DefaultLogger)

	trigger := time.Date(2026, 10, 15, 15, 30, 0, 0, time.UTC)
	err := n.Schedule(context.Background(), notify.Alert{
		ID:      "alert-1",
		Title:   "Don't forget your task!",
		Body:    "Storia: Quiz is about to expire today!",
		Trigger: trigger,
	})
	require.NoError(t, err)

	require.Len(t, fake.inserted, 1)
	ev := fake.inserted[0]
	assert.Equal(t, "Don't forget your task!", ev.Summary)
	assert.Equal(t, "Storia: Quiz is about to expire today!", ev.Description)
	assert.Equal(t, "2026-10-15T15:30:00Z", ev.Start.DateTime)
	assert.Equal(t, "2026-10-15T15:45:00Z", ev.End.DateTime)
	assert.Equal(t, "true", ev.ExtendedProperties.Private["spacepod_reminder"])
	assert.Equal(t, "alert-1", ev.ExtendedProperties.Private["spacepod_alert_id"])
	require.NotNil(t, ev.Reminders)
	require.Len(t, ev.Reminders.Overrides, 1)
	assert.Equal(t, "popup", ev.Reminders.Overrides[0].Method)
	assert.Zero(t, ev.Reminders.Overrides[0].Minutes)
}

func TestScheduleRejectsRepeating(t *testing.T) {
	fake := &fakeCalendar{}
	n := NewNotifier(newTestService(t, fake), "cal-1", log.DefaultLogger)

	err := n.Schedule(context.Background(), notify.Alert{ID: "x", Repeats: true})
	assert.ErrorIs(t, err, ErrRepeatingAlert)
	assert.Empty(t, fake.inserted)
}
