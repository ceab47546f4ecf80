package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/harrisonrobin/todo/pkg/model"
)

func sampleTasks() []model.Task {
	created := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return []model.Task{{
		ID:           created.UnixMilli(),
		Text:         "Buy milk",
		Category:     "shopping",
		DueDate:      model.DateOf(created),
		Priority:     model.PriorityMedium,
		CreatedAt:    created,
		LastModified: &created,
		Tags:         []string{"urgent"},
		TimeEstimate: 30,
	}}
}

func setupTestRedis(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return NewRedisKV(client), mr
}

func assertRoundTrip(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if err := SaveTasks(ctx, kv, DefaultKey, sampleTasks()); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}
	got, err := LoadTasks(ctx, kv, DefaultKey)
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(got) != 1 || got[0].Text != "Buy milk" || got[0].Tags[0] != "urgent" {
		t.Errorf("Unexpected tasks after reload: %+v", got)
	}
}

func TestFileKVRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv := NewFileKV(dir)
	assertRoundTrip(t, kv)

	info, err := os.Stat(filepath.Join(dir, DefaultKey+".json"))
	if err != nil {
		t.Fatalf("Expected data file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestFileKVMissingKey(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	if _, err := kv.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	tasks, err := LoadTasks(context.Background(), kv, "absent")
	if err != nil || len(tasks) != 0 {
		t.Errorf("Expected empty collection, got %v, %v", tasks, err)
	}
}

func TestFileKVRejectsPathKeys(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	if err := kv.Set(context.Background(), "../escape", []byte("x")); err == nil {
		t.Error("Expected invalid key error")
	}
}

func TestLoadTasksUndecodable(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	if err := kv.Set(context.Background(), DefaultKey, []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	tasks, err := LoadTasks(context.Background(), kv, DefaultKey)
	if err != nil {
		t.Fatalf("Expected no error for undecodable data, got %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected empty collection, got %d tasks", len(tasks))
	}
}

func TestRedisKVRoundTrip(t *testing.T) {
	kv, mr := setupTestRedis(t)
	assertRoundTrip(t, kv)

	raw, err := mr.Get(DefaultKey)
	if err != nil {
		t.Fatalf("Expected key in redis: %v", err)
	}
	if raw == "" || raw[0] != '[' {
		t.Errorf("Expected JSON array, got %q", raw)
	}
}

func TestRedisKVMissingKey(t *testing.T) {
	kv, _ := setupTestRedis(t)
	if _, err := kv.Get(context.Background(), DefaultKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRedisKVReadFailure(t *testing.T) {
	kv, mr := setupTestRedis(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LoadTasks(ctx, kv, DefaultKey); err == nil {
		t.Error("Expected error when redis is unreachable")
	}
}
