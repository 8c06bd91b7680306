package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/taskweb/pkg/auth"
)

// NewClient authenticates with the cached token in configDir and resolves
// calendarName to its id.
func NewClient(ctx context.Context, configDir, calendarName string) (*CalendarClient, error) {
	client, err := auth.GetClient(ctx, configDir, auth.Scopes)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}
	return NewClientForService(ctx, srv, calendarName)
}

// NewClientForService resolves calendarName using an existing service.
func NewClientForService(ctx context.Context, srv *calendar.Service, calendarName string) (*CalendarClient, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return NewCalendarClient(srv, item.Id), nil
		}
	}
	return nil, fmt.Errorf("calendar '%s' not found", calendarName)
}
