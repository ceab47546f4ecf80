package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting: high=3, medium=2, low=1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority maps a name to a Priority, falling back to medium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	}
	return PriorityMedium
}

const (
	DefaultCategory     = "personal"
	DefaultTimeEstimate = 30
)

// Categories is the fixed set a task can be filed under.
var Categories = []string{"personal", "work", "shopping", "health", "education"}

// ParseCategory returns the matching category or DefaultCategory.
func ParseCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if c == s {
			return c
		}
	}
	return DefaultCategory
}

// Task is one to-do item. JSON names match the browser encoding so saved
// collections load unchanged.
type Task struct {
	ID           int64      `json:"id"`
	Text         string     `json:"text"`
	Completed    bool       `json:"completed"`
	Category     string     `json:"category"`
	DueDate      Date       `json:"dueDate"`
	Priority     Priority   `json:"priority"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	Tags         []string   `json:"tags"`
	TimeEstimate int        `json:"timeEstimate,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	c.Tags = append([]string(nil), t.Tags...)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if t.LastModified != nil {
		lm := *t.LastModified
		c.LastModified = &lm
	}
	return c
}

// IsOverdue reports whether t is incomplete and its due date has passed.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Instant().Before(now)
}

// ModifiedAt is LastModified, or CreatedAt for tasks never modified.
func (t Task) ModifiedAt() time.Time {
	if t.LastModified != nil {
		return *t.LastModified
	}
	return t.CreatedAt
}

// HasTag reports whether t carries tag, ignoring case.
func (t Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if strings.EqualFold(tg, tag) {
			return true
		}
	}
	return false
}

// Draft carries the form fields used to create a task.
type Draft struct {
	Text         string   `json:"text"`
	Category     string   `json:"category"`
	DueDate      string   `json:"dueDate"`
	Priority     string   `json:"priority"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
	TimeEstimate *int     `json:"timeEstimate"`
}

// FilterKind selects which tasks a view keeps.
type FilterKind string

const (
	FilterAll       FilterKind = "all"
	FilterActive    FilterKind = "active"
	FilterCompleted FilterKind = "completed"
	FilterOverdue   FilterKind = "overdue"
)

// ParseFilter accepts the filter names; empty means all.
func ParseFilter(s string) (FilterKind, error) {
	switch f := FilterKind(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted, FilterOverdue:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// SortKind selects the ordering of a view.
type SortKind string

const (
	SortDueDate      SortKind = "dueDate"
	SortPriority     SortKind = "priority"
	SortAlphabetical SortKind = "alphabetical"
	SortCreated      SortKind = "created"
	SortModified     SortKind = "modified"
)

var sortKinds = []SortKind{SortDueDate, SortPriority, SortAlphabetical, SortCreated, SortModified}

// ParseSort accepts the sort names case-insensitively; empty means created.
func ParseSort(s string) (SortKind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortCreated, nil
	}
	for _, k := range sortKinds {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q", s)
}
