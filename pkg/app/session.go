// Package app ties the task store to its persistence: every successful
// mutation is followed by an explicit save of the whole collection.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/storage"
	"github.com/harrisonrobin/todo/pkg/todo"
)

// Session owns the task collection for one running process. Operations
// run one at a time, each to completion, so callers on several goroutines
// (the HTTP server) observe the same order a single event loop would.
type Session struct {
	mu     sync.Mutex
	store  *todo.Store
	kv     storage.KV
	key    string
	locale string
	now    func() time.Time
}

// Open loads the collection stored under key and returns a session over it.
func Open(ctx context.Context, kv storage.KV, key, locale string) (*Session, error) {
	if key == "" {
		key = storage.DefaultKey
	}
	tasks, err := storage.LoadTasks(ctx, kv, key)
	if err != nil {
		return nil, err
	}
	return &Session{
		store:  todo.NewStore(tasks),
		kv:     kv,
		key:    key,
		locale: locale,
		now:    time.Now,
	}, nil
}

// SetClock replaces the time source for timestamps and overdue checks.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.store.SetClock(now)
}

// Add creates a task. ok is false when the draft text is blank, in which
// case nothing is saved.
func (s *Session) Add(ctx context.Context, d model.Draft) (task model.Task, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok = s.store.Add(d)
	if !ok {
		return task, false, nil
	}
	return task, true, s.persist(ctx)
}

// Toggle flips completion and returns the updated task. It reports false
// for unknown ids.
func (s *Session) Toggle(ctx context.Context, id int64) (model.Task, bool, error) {
	return s.mutateTask(ctx, id, func(st *todo.Store) bool { return st.Toggle(id) })
}

// EditText replaces a task's text and returns the updated task. It reports
// false for unknown ids.
func (s *Session) EditText(ctx context.Context, id int64, text string) (model.Task, bool, error) {
	return s.mutateTask(ctx, id, func(st *todo.Store) bool { return st.EditText(id, text) })
}

// Remove deletes a task. It reports false for unknown ids.
func (s *Session) Remove(ctx context.Context, id int64) (bool, error) {
	return s.mutate(ctx, func(st *todo.Store) bool { return st.Remove(id) })
}

// Get returns a copy of one task.
func (s *Session) Get(id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// Tasks returns a copy of the whole collection in insertion order.
func (s *Session) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Tasks()
}

// View returns the filtered, searched and sorted projection.
func (s *Session) View(q todo.Query) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return todo.View(s.store.Tasks(), q, s.now(), todo.NewCollator(s.locale))
}

// Snapshot returns the view and the stats of the same collection state.
func (s *Session) Snapshot(q todo.Query) ([]model.Task, todo.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, now := s.store.Tasks(), s.now()
	return todo.View(tasks, q, now, todo.NewCollator(s.locale)), todo.ComputeStats(tasks, now)
}

// Stats aggregates the whole collection.
func (s *Session) Stats() todo.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return todo.ComputeStats(s.store.Tasks(), s.now())
}

func (s *Session) mutate(ctx context.Context, fn func(*todo.Store) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(s.store) {
		return false, nil
	}
	return true, s.persist(ctx)
}

func (s *Session) mutateTask(ctx context.Context, id int64, fn func(*todo.Store) bool) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(s.store) {
		return model.Task{}, false, nil
	}
	task, _ := s.store.Get(id)
	return task, true, s.persist(ctx)
}

// persist must be called with mu held. Failures are reported once and
// not retried; the in-memory collection keeps the mutation either way.
func (s *Session) persist(ctx context.Context) error {
	if err := storage.SaveTasks(ctx, s.kv, s.key, s.store.Tasks()); err != nil {
		return fmt.Errorf("task changed but was not saved: %w", err)
	}
	return nil
}
