package google

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/harrisonrobin/todo/pkg/index"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/util"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient is a Google Calendar API client.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
}

// NewCalendarClient creates a new Google Calendar client.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx}
}

// SyncEvent creates the event for task or patches the existing one.
func (c *CalendarClient) SyncEvent(ctx context.Context, task model.Task, colorID string, now time.Time) (*calendar.Event, error) {
	event, err := util.ConvertTaskToCalendarEvent(&task, colorID, now)
	if err != nil {
		return nil, err
	}

	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(task.ID); eventID != "" {
			existing, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}
	if existing == nil {
		existing, err = c.GetEventByTaskID(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch := util.EventNeedsUpdate(existing, event)
		if patch == nil {
			c.remember(task.ID, existing.Id)
			return existing, nil
		}
		updated, err := c.PatchEvent(ctx, existing.Id, patch)
		if err != nil {
			return nil, err
		}
		c.remember(task.ID, updated.Id)
		return updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	c.remember(task.ID, created.Id)
	return created, nil
}

func (c *CalendarClient) remember(taskID int64, eventID string) {
	if c.index != nil {
		c.index.Set(taskID, eventID)
	}
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// GetEventByTaskID searches for the event carrying the task id.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, taskID int64) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", util.TaskIDProperty, strconv.FormatInt(taskID, 10))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	for _, item := range events.Items {
		if id, ok := util.GetTaskIDFromEvent(item); !ok || id != taskID {
			continue
		}
		if item.Status != "cancelled" {
			return item, nil
		}
	}
	if len(events.Items) > 0 {
		log.Printf("[Calendar] Only cancelled events found for task %d", taskID)
	}
	return nil, nil
}
