package todo

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
)

// Stats aggregates the whole collection, independent of any view.
type Stats struct {
	Total            int `json:"total"`
	Completed        int `json:"completed"`
	Overdue          int `json:"overdue"`
	TotalMinutes     int `json:"totalTime"`
	RemainingMinutes int `json:"remainingTime"`
}

// ComputeStats folds tasks into Stats, evaluating overdue against now.
func ComputeStats(tasks []model.Task, now time.Time) Stats {
	var s Stats
	for _, t := range tasks {
		s.Total++
		s.TotalMinutes += t.TimeEstimate
		if t.Completed {
			s.Completed++
			continue
		}
		s.RemainingMinutes += t.TimeEstimate
		if t.IsOverdue(now) {
			s.Overdue++
		}
	}
	return s
}

// FormatMinutes renders a minute count as "Xh Ym".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}
