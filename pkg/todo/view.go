package todo

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/harrisonrobin/todo/pkg/model"
)

// Query describes one projection of the collection.
type Query struct {
	Filter model.FilterKind
	Search string
	Sort   model.SortKind
}

// NewCollator returns a collator for alphabetical ordering in the given
// BCP 47 locale. Unknown or empty locales fall back to English.
func NewCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return collate.New(tag)
}

// View filters, searches and sorts tasks without modifying them. A nil
// collator sorts alphabetically in English. Collators are not safe for
// concurrent use; pass one per goroutine.
func View(tasks []model.Task, q Query, now time.Time, col *collate.Collator) []model.Task {
	term := strings.ToLower(q.Search)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesFilter(t, q.Filter, now) || !matchesSearch(t, term) {
			continue
		}
		out = append(out, t.Clone())
	}

	if q.Sort == model.SortAlphabetical && col == nil {
		col = NewCollator("")
	}
	if cmp := comparator(q.Sort, col); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func matchesFilter(t model.Task, f model.FilterKind, now time.Time) bool {
	switch f {
	case model.FilterActive:
		return !t.Completed
	case model.FilterCompleted:
		return t.Completed
	case model.FilterOverdue:
		return t.IsOverdue(now)
	}
	return true
}

// matchesSearch expects term already lower-cased.
func matchesSearch(t model.Task, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Text), term) ||
		strings.Contains(strings.ToLower(t.Category), term) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func comparator(kind model.SortKind, col *collate.Collator) func(a, b model.Task) int {
	switch kind {
	case model.SortDueDate:
		return func(a, b model.Task) int {
			return a.DueDate.Instant().Compare(b.DueDate.Instant())
		}
	case model.SortPriority:
		return func(a, b model.Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		}
	case model.SortAlphabetical:
		return func(a, b model.Task) int {
			return col.CompareString(a.Text, b.Text)
		}
	case model.SortCreated:
		return func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	case model.SortModified:
		return func(a, b model.Task) int {
			return b.ModifiedAt().Compare(a.ModifiedAt())
		}
	}
	return nil
}
