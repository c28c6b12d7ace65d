package google

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/spacepod/pkg/auth"
)

// NewClient authorizes against Google and returns a Notifier for the
// calendar whose summary is calendarName.
func NewClient(ctx context.Context, calendarName string, logger log.Logger) (*Notifier, error) {
	client, err := auth.GetClient(ctx, auth.Scopes)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}
	return NewClientWithService(ctx, srv, calendarName, logger)
}

// NewClientWithService resolves calendarName on an existing service.
func NewClientWithService(ctx context.Context, srv *calendar.Service, calendarName string, logger log.Logger) (*Notifier, error) {
	calendarID, err := FindCalendar(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewNotifier(srv, calendarID, logger), nil
}

// FindCalendar returns the ID of the first calendar named calendarName.
func FindCalendar(ctx context.Context, srv *calendar.Service, calendarName string) (string, error) {
	var calendarID string
	err := srv.CalendarList.List().Pages(ctx, func(page *calendar.CalendarList) error {
		for _, item := range page.Items {
			if item.Summary == calendarName && calendarID == "" {
				calendarID = item.Id
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	if calendarID == "" {
		return "", fmt.Errorf("calendar '%s' not found", calendarName)
	}
	return calendarID, nil
}
