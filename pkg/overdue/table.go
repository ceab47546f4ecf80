package overdue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const tableFile = "pending_tasks.json"

type Entry struct {
	TaskID  int64     `json:"task_id"`
	EventID string    `json:"event_id"`
	Text    string    `json:"text"`
	Due     time.Time `json:"due"`
}

// Table tracks incomplete tasks whose calendar events are not yet marked
// overdue.
type Table struct {
	Entries map[int64]Entry `json:"entries"`
	Path    string          `json:"-"`
	dirty   bool
}

// NewTable loads the table stored in dir, if any.
func NewTable(dir string) (*Table, error) {
	t := &Table{
		Path:    filepath.Join(dir, tableFile),
		Entries: make(map[int64]Entry),
	}

	if _, err := os.Stat(t.Path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(t); err != nil {
		return err
	}
	if t.Entries == nil {
		t.Entries = make(map[int64]Entry)
	}
	return nil
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

// Update tracks a task that is still incomplete and not yet due; anything
// else is dropped from the table.
func (t *Table) Update(e Entry, completed bool, now time.Time) {
	if completed || e.Due.IsZero() || !e.Due.After(now) {
		t.Remove(e.TaskID)
		return
	}
	if old, exists := t.Entries[e.TaskID]; !exists || old != e {
		t.Entries[e.TaskID] = e
		t.dirty = true
	}
}

// Restore puts back an entry taken by Sweep, so the next sweep returns it
// again.
func (t *Table) Restore(e Entry) {
	t.Entries[e.TaskID] = e
	t.dirty = true
}

func (t *Table) Remove(taskID int64) {
	if _, exists := t.Entries[taskID]; exists {
		delete(t.Entries, taskID)
		t.dirty = true
	}
}

// Sweep returns entries that have become overdue (Due <= now), oldest
// first, and removes them.
func (t *Table) Sweep(now time.Time) []Entry {
	var swept []Entry
	for id, entry := range t.Entries {
		if !entry.Due.After(now) {
			swept = append(swept, entry)
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	sort.Slice(swept, func(i, j int) bool {
		if swept[i].Due.Equal(swept[j].Due) {
			return swept[i].TaskID < swept[j].TaskID
		}
		return swept[i].Due.Before(swept[j].Due)
	})
	return swept
}
