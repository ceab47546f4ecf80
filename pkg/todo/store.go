// Package todo holds the task collection and the pure view pipeline over it.
package todo

import (
	"log"
	"strings"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
)

// Store owns an ordered task collection. Every mutation installs a new
// slice, so collections handed out earlier are never changed underneath
// their holders. Store is not safe for concurrent use.
type Store struct {
	tasks []model.Task
	now   func() time.Time
}

// NewStore returns a store seeded with tasks, in order. Tags are
// normalised and tasks repeating an earlier id are dropped.
func NewStore(tasks []model.Task) *Store {
	s := &Store{now: time.Now}
	s.tasks = make([]model.Task, 0, len(tasks))
	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			log.Printf("[Store] Dropping task %d %q: duplicate id", t.ID, t.Text)
			continue
		}
		seen[t.ID] = true
		c := t.Clone()
		c.Tags = NormalizeTags(c.Tags)
		s.tasks = append(s.tasks, c)
	}
	return s
}

// SetClock replaces the time source used for ids and timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a deep copy of the collection in insertion order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int64) (model.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// Add creates a task from d. It returns false and leaves the collection
// untouched when the trimmed text is empty.
func (s *Store) Add(d model.Draft) (model.Task, bool) {
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return model.Task{}, false
	}

	now := s.now().UTC()
	due := model.DateOf(now)
	if d.DueDate != "" {
		if parsed, err := model.ParseDate(d.DueDate); err == nil {
			due = parsed
		}
	}

	estimate := model.DefaultTimeEstimate
	if d.TimeEstimate != nil {
		estimate = max(*d.TimeEstimate, 0)
	}

	modified := now
	task := model.Task{
		ID:           s.nextID(now),
		Text:         text,
		Category:     model.ParseCategory(d.Category),
		DueDate:      due,
		Priority:     model.ParsePriority(d.Priority),
		Notes:        d.Notes,
		CreatedAt:    now,
		LastModified: &modified,
		Tags:         NormalizeTags(d.Tags),
		TimeEstimate: estimate,
	}

	next := make([]model.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	s.tasks = append(next, task)
	return task.Clone(), true
}

// Toggle flips the completion flag of the task with the given id.
func (s *Store) Toggle(id int64) bool {
	return s.update(id, func(t *model.Task) {
		t.Completed = !t.Completed
	})
}

// EditText replaces the text of the task with the given id. The text is
// stored as given; an empty string is accepted.
func (s *Store) EditText(id int64, text string) bool {
	return s.update(id, func(t *model.Task) {
		t.Text = text
	})
}

// Remove deletes the task with the given id.
func (s *Store) Remove(id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	s.tasks = append(next, s.tasks[i+1:]...)
	return true
}

func (s *Store) update(id int64, fn func(*model.Task)) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]model.Task, len(s.tasks))
	copy(next, s.tasks)

	t := next[i].Clone()
	fn(&t)
	modified := s.now().UTC()
	t.LastModified = &modified
	next[i] = t

	s.tasks = next
	return true
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the creation time in milliseconds, stepping past the largest
// existing id so ids stay unique and increasing.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, t := range s.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// NormalizeTags trims tags, drops empty ones, and removes duplicates while
// keeping the first occurrence. The result never aliases in.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
