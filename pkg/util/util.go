package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "todo_id"

var isoDurationRe = regexp.MustCompile(`(\d+)([HMS])`)

// ParseDuration parses the time part of an ISO 8601 duration (PT1H30M).
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO 8601 duration format: %s", s)
	}
	s = s[1:]
	if len(s) == 0 || s[0] != 'T' {
		return 0, fmt.Errorf("invalid ISO 8601 duration (missing T): P%s", s)
	}
	s = s[1:]

	var total time.Duration
	for _, match := range isoDurationRe.FindAllStringSubmatch(s, -1) {
		value, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration: PT%s", s)
	}
	return total, nil
}

// ParseEstimate reads a time estimate in whole minutes. It accepts a bare
// minute count ("45"), a Go duration ("1h30m") or ISO 8601 ("PT1H30M").
func ParseEstimate(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty estimate")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("estimate must not be negative: %d", n)
		}
		return n, nil
	}

	var d time.Duration
	var err error
	if strings.HasPrefix(strings.ToUpper(s), "P") {
		d, err = ParseDuration(strings.ToUpper(s))
	} else {
		d, err = time.ParseDuration(s)
	}
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("estimate must not be negative: %s", s)
	}
	return int(d.Round(time.Minute) / time.Minute), nil
}

// SummaryFor is the event title: ✓ for completed tasks, ! once overdue.
func SummaryFor(task model.Task, now time.Time) string {
	switch {
	case task.Completed:
		return "✓ " + task.Text
	case task.IsOverdue(now):
		return "! " + task.Text
	}
	return task.Text
}

// ConvertTaskToCalendarEvent builds an all-day event on the task's due date.
func ConvertTaskToCalendarEvent(task *model.Task, colorID string, now time.Time) (*calendar.Event, error) {
	if task == nil {
		return nil, fmt.Errorf("could not convert nil Task")
	}
	if task.DueDate.IsZero() {
		return nil, fmt.Errorf("task %d has no due date", task.ID)
	}

	var desc strings.Builder
	if len(task.Tags) > 0 {
		for _, tag := range task.Tags {
			desc.WriteString(fmt.Sprintf("#%s ", tag))
		}
		desc.WriteString("\n\n")
	}

	status := "pending"
	if task.Completed {
		status = "completed"
	}
	desc.WriteString(fmt.Sprintf("Status: %s\n", status))
	desc.WriteString(fmt.Sprintf("Category: %s\n", task.Category))
	desc.WriteString(fmt.Sprintf("Priority: %s\n", task.Priority))
	if task.TimeEstimate > 0 {
		desc.WriteString(fmt.Sprintf("Estimate: %s\n", time.Duration(task.TimeEstimate)*time.Minute))
	}
	desc.WriteString(fmt.Sprintf("ID: %d\n", task.ID))

	if task.Notes != "" {
		desc.WriteString("\nNotes:\n")
		desc.WriteString(task.Notes)
		desc.WriteString("\n")
	}

	return &calendar.Event{
		Summary:     SummaryFor(*task, now),
		ColorId:     colorID,
		Start:       &calendar.EventDateTime{Date: task.DueDate.String()},
		End:         &calendar.EventDateTime{Date: task.DueDate.AddDays(1).String()},
		Description: desc.String(),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: strconv.FormatInt(task.ID, 10),
			},
		},
	}, nil
}

// EventNeedsUpdate returns a patch holding the fields of target that differ
// from existing, or nil when they already agree.
func EventNeedsUpdate(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	return dt.DateTime
}

// GetTaskIDFromEvent reads the task id stored on an event.
func GetTaskIDFromEvent(event *calendar.Event) (int64, bool) {
	if event == nil || event.ExtendedProperties == nil {
		return 0, false
	}
	raw, ok := event.ExtendedProperties.Private[TaskIDProperty]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}
