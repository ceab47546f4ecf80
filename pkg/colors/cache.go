package colors

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Google Calendar event colors 1..11; 8 (graphite) is kept for tasks
// without a category.
const (
	uncategorizedColor = "8"
	maxColor           = 11
	cacheFile          = "category_colors.json"
)

type CategoryState struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

// ColorCache gives each category a stable event color, recycling the least
// recently used one when all colors are taken.
type ColorCache struct {
	Path       string
	Categories map[string]*CategoryState `json:"categories"`
	now        func() time.Time
	dirty      bool
}

// NewColorCache loads the cache stored in dir, if any.
func NewColorCache(dir string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:       filepath.Join(dir, cacheFile),
		Categories: make(map[string]*CategoryState),
		now:        time.Now,
	}

	if _, err := os.Stat(cache.Path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&c.Categories); err != nil {
		return err
	}
	if c.Categories == nil {
		c.Categories = make(map[string]*CategoryState)
	}
	return nil
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Printf("[Colors] Error creating cache directory: %v", err)
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		log.Printf("[Colors] Error creating cache file: %v", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Categories)
	if err == nil {
		c.dirty = false
	}
	return err
}

// GetColorID returns the color for category and marks it as recently used.
func (c *ColorCache) GetColorID(category string) string {
	if category == "" {
		return uncategorizedColor
	}

	if state, exists := c.Categories[category]; exists {
		state.LastUsed = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(category)
}

func (c *ColorCache) assignColor(category string) string {
	used := make(map[string]bool)
	for _, s := range c.Categories {
		used[s.ColorID] = true
	}

	for i := 1; i <= maxColor; i++ {
		id := strconv.Itoa(i)
		if id == uncategorizedColor || used[id] {
			continue
		}
		c.Categories[category] = &CategoryState{ColorID: id, LastUsed: c.now()}
		c.dirty = true
		return id
	}

	// Every color is taken: recycle the least recently used one.
	var oldest string
	var oldestTime time.Time
	first := true
	for name, s := range c.Categories {
		if first || s.LastUsed.Before(oldestTime) {
			oldest, oldestTime, first = name, s.LastUsed, false
		}
	}

	recycled := c.Categories[oldest].ColorID
	delete(c.Categories, oldest)
	c.Categories[category] = &CategoryState{ColorID: recycled, LastUsed: c.now()}
	c.dirty = true
	return recycled
}
