package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/todo/pkg/auth"
	"github.com/harrisonrobin/todo/pkg/index"
	"google.golang.org/api/calendar/v3"
)

// NewClient authenticates with the credentials in configDir and returns a
// client for the calendar with the given name.
func NewClient(ctx context.Context, configDir, calendarName string, idx *index.EventIndex) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx, configDir)
	if err != nil {
		return nil, err
	}
	calendarID, err := FindCalendarID(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewCalendarClient(srv, calendarID, idx), nil
}

// FindCalendarID looks up a calendar in the user's list by its summary.
func FindCalendarID(ctx context.Context, srv *calendar.Service, name string) (string, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar '%s' not found", name)
}
