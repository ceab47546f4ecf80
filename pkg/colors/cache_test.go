package colors

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetColorIDStable(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewColorCache(dir)
	if err != nil {
		t.Fatalf("NewColorCache failed: %v", err)
	}

	work := cache.GetColorID("work")
	health := cache.GetColorID("health")
	if work == health {
		t.Errorf("Expected distinct colors, both got %s", work)
	}
	if got := cache.GetColorID(""); got != uncategorizedColor {
		t.Errorf("Expected uncategorized color, got %s", got)
	}
	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewColorCache(dir)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := reloaded.GetColorID("work"); got != work {
		t.Errorf("Expected work to keep color %s, got %s", work, got)
	}
}

func TestAssignColorRecyclesLeastRecentlyUsed(t *testing.T) {
	cache, _ := NewColorCache(t.TempDir())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	// 10 colors are assignable.
	for i := 0; i < maxColor-1; i++ {
		cache.GetColorID(fmt.Sprintf("c%d", i))
	}
	firstColor := cache.Categories["c0"].ColorID
	cache.GetColorID("c0") // c1 is now the least recently used

	got := cache.GetColorID("new")
	if _, exists := cache.Categories["c1"]; exists {
		t.Error("Expected c1 to be evicted")
	}
	if got == firstColor {
		t.Errorf("c0 was used recently and should keep color %s", firstColor)
	}
}

func TestLoadNullCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, cacheFile), []byte("null"), 0600); err != nil {
		t.Fatal(err)
	}
	cache, err := NewColorCache(dir)
	if err != nil {
		t.Fatalf("NewColorCache failed: %v", err)
	}
	if got := cache.GetColorID("work"); got == "" || got == uncategorizedColor {
		t.Errorf("Expected a category color, got %q", got)
	}
}
