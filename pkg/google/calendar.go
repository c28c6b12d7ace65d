package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/spacepod/pkg/notify"
)

const (
	// reminderProperty tags every event created by the notifier so ClearAll
	// never touches the user's own events.
	reminderProperty = "spacepod_reminder"
	alertIDProperty  = "spacepod_alert_id"

	eventLength = 15 * time.Minute
)

var ErrRepeatingAlert = errors.New("repeating alerts are not supported")

// Notifier delivers alerts as Google Calendar events carrying a popup
// reminder at the trigger time.
type Notifier struct {
	srv        *calendar.Service
	calendarID string
	log        *log.Helper
}

func NewNotifier(srv *calendar.Service, calendarID string, logger log.Logger) *Notifier {
	return &Notifier{
		srv:        srv,
		calendarID: calendarID,
		log:        log.NewHelper(log.With(logger, "component", "google")),
	}
}

// ClearAll deletes every event this notifier created.
func (n *Notifier) ClearAll(ctx context.Context) error {
	var ids []string
	err := n.srv.Events.List(n.calendarID).
		PrivateExtendedProperty(reminderProperty+"=true").
		ShowDeleted(false).
		Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				ids = append(ids, item.Id)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("unable to list reminder events: %w", err)
	}

	var errs []error
	for _, id := range ids {
		if err := n.srv.Events.Delete(n.calendarID, id).Context(ctx).Do(); err != nil {
			errs = append(errs, fmt.Errorf("delete event %s: %w", id, err))
		}
	}
	n.log.Debugf("removed %d reminder events", len(ids)-len(errs))
	return errors.Join(errs...)
}

// Schedule inserts a one-shot event for a.
func (n *Notifier) Schedule(ctx context.Context, a notify.Alert) error {
	if a.Repeats {
		return ErrRepeatingAlert
	}
	event := EventForAlert(a)
	created, err := n.srv.Events.Insert(n.calendarID, event).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to insert reminder event: %w", err)
	}
	n.log.Debugf("reminder %s stored as event %s", a.ID, created.Id)
	return nil
}

// EventForAlert converts an alert to the calendar event that carries it.
func EventForAlert(a notify.Alert) *calendar.Event {
	return &calendar.Event{
		Summary:     a.Title,
		Description: a.Body,
		Start: &calendar.EventDateTime{
			DateTime: a.Trigger.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: a.Trigger.Add(eventLength).Format(time.RFC3339),
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: 0, ForceSendFields: []string{"Minutes"}},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				reminderProperty: "true",
				alertIDProperty:  a.ID,
			},
		},
	}
}
