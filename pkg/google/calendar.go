package google

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
)

// CalendarClient pushes tasks into one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	now        func() time.Time
}

// NewCalendarClient wraps an existing service.
func NewCalendarClient(srv *calendar.Service, calendarID string) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, now: time.Now}
}

// SyncTask creates, patches or, for deleted tasks, removes the event that
// mirrors task. It returns the resulting event, or nil after a removal.
func (c *CalendarClient) SyncTask(ctx context.Context, task taskwarrior.Task) (*calendar.Event, error) {
	existing, err := c.GetEventByTaskID(ctx, task.UUID)
	if err != nil {
		return nil, fmt.Errorf("error searching for event: %w", err)
	}

	if task.Status == taskwarrior.DELETED {
		if existing != nil {
			return nil, c.DeleteEvent(ctx, existing.Id)
		}
		return nil, nil
	}

	event, err := ConvertTaskToEvent(task, c.now())
	if err != nil {
		return nil, err
	}

	if existing != nil {
		patch, err := EventNeedsUpdate(existing, event)
		if err != nil {
			return nil, fmt.Errorf("could not compare task with its calendar event: %w", err)
		}
		if patch == nil {
			return existing, nil
		}
		return c.PatchEvent(ctx, existing.Id, patch)
	}

	return c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// GetEventByTaskID finds the event carrying the task's uuid, or nil.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, taskUUID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskUUID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
