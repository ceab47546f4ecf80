package google

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harrisonrobin/todo/pkg/colors"
	"github.com/harrisonrobin/todo/pkg/index"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/overdue"
	"google.golang.org/api/calendar/v3"
)

// Syncer mirrors the task collection into a calendar. Only tasks changed
// since the previous run are pushed in full; tasks that merely crossed their
// due date get their summary patched through the overdue table.
type Syncer struct {
	Client *CalendarClient
	Index  *index.EventIndex
	Sweep  *overdue.Table
	Colors *colors.ColorCache
}

// Report counts what a sync run did.
type Report struct {
	Synced        int
	MarkedOverdue int
	Deleted       int
	Skipped       int
}

// NewSyncer loads the index, overdue table and color cache kept in dir.
func NewSyncer(client *CalendarClient, idx *index.EventIndex, dir string) (*Syncer, error) {
	table, err := overdue.NewTable(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load overdue table: %w", err)
	}
	cache, err := colors.NewColorCache(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load color cache: %w", err)
	}
	return &Syncer{Client: client, Index: idx, Sweep: table, Colors: cache}, nil
}

// Sync pushes tasks to the calendar and saves the local state. Failures on
// single tasks are logged and counted as skipped; the run continues.
func (s *Syncer) Sync(ctx context.Context, tasks []model.Task, now time.Time) (Report, error) {
	var report Report
	lastSync := s.Index.LastSynced()
	byID := make(map[int64]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	for _, e := range s.Sweep.Sweep(now) {
		t, ok := byID[e.TaskID]
		if !ok || t.Completed || t.ModifiedAt().After(lastSync) {
			continue
		}
		if _, err := s.Client.PatchEvent(ctx, e.EventID, &calendar.Event{Summary: "! " + t.Text}); err != nil {
			log.Printf("[Sync] Error marking event %s overdue: %v", e.EventID, err)
			s.Sweep.Restore(e)
			report.Skipped++
			continue
		}
		report.MarkedOverdue++
	}

	for _, t := range tasks {
		if s.Index.Get(t.ID) != "" && !t.ModifiedAt().After(lastSync) {
			continue
		}
		event, err := s.Client.SyncEvent(ctx, t, s.Colors.GetColorID(t.Category), now)
		if err != nil {
			log.Printf("[Sync] Error syncing task %d: %v", t.ID, err)
			report.Skipped++
			continue
		}
		report.Synced++
		s.Sweep.Update(overdue.Entry{
			TaskID:  t.ID,
			EventID: event.Id,
			Text:    t.Text,
			Due:     t.DueDate.Instant(),
		}, t.Completed, now)
	}

	for _, id := range s.Index.TaskIDs() {
		if _, ok := byID[id]; ok {
			continue
		}
		if err := s.Client.DeleteEvent(ctx, s.Index.Get(id)); err != nil {
			log.Printf("[Sync] Error deleting event for removed task %d: %v", id, err)
			report.Skipped++
			continue
		}
		s.Index.Remove(id)
		s.Sweep.Remove(id)
		report.Deleted++
	}

	if report.Skipped == 0 {
		s.Index.MarkSynced(now)
	}
	return report, s.save()
}

func (s *Syncer) save() error {
	return errors.Join(s.Index.Save(), s.Sweep.Save(), s.Colors.Save())
}
