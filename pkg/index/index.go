package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const indexFile = "events.json"

// EventIndex maps task ids to calendar event ids and remembers when the
// last successful sync finished.
type EventIndex struct {
	Mappings map[int64]string `json:"mappings"`
	LastSync time.Time        `json:"last_sync"`
	Path     string           `json:"-"`
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex loads the index stored in dir, if any.
func NewEventIndex(dir string) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[int64]string),
		Path:     filepath.Join(dir, indexFile),
	}

	if _, err := os.Stat(idx.Path); err == nil {
		if err := idx.Load(); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *EventIndex) Load() error {
	f, err := os.Open(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(idx); err != nil {
		return err
	}
	if idx.Mappings == nil {
		idx.Mappings = make(map[int64]string)
	}
	return nil
}

func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	dir := filepath.Dir(idx.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.Create(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(idx); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(taskID int64) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[taskID]
}

func (idx *EventIndex) Set(taskID int64, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[taskID] != eventID {
		idx.Mappings[taskID] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(taskID int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[taskID]; exists {
		delete(idx.Mappings, taskID)
		idx.dirty = true
	}
}

// TaskIDs returns the indexed task ids in ascending order.
func (idx *EventIndex) TaskIDs() []int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]int64, 0, len(idx.Mappings))
	for id := range idx.Mappings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (idx *EventIndex) LastSynced() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.LastSync
}

func (idx *EventIndex) MarkSynced(t time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.LastSync = t
	idx.dirty = true
}
