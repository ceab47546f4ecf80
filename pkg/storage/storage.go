// Package storage persists the task collection under a single key in a
// key-value store.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/harrisonrobin/todo/pkg/model"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "todos"

// ErrNotFound is returned by KV.Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// KV is a synchronous key-value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// LoadTasks reads the collection stored under key. A missing or
// undecodable value yields an empty collection; only read failures of the
// store itself are returned.
func LoadTasks(ctx context.Context, kv KV, key string) ([]model.Task, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Printf("[Storage] Ignoring undecodable value under %q: %v", key, err)
		return []model.Task{}, nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// SaveTasks writes the whole collection under key.
func SaveTasks(ctx context.Context, kv KV, key string, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
