package todo

import (
	"testing"

	"github.com/harrisonrobin/todo/pkg/model"
)

func TestComputeStats(t *testing.T) {
	tasks := fixture()
	for i := range tasks {
		tasks[i].TimeEstimate = (i + 1) * 10
	}

	got := ComputeStats(tasks, now)
	want := Stats{Total: 4, Completed: 1, Overdue: 2, TotalMinutes: 100, RemainingMinutes: 70}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestRemovingCompletedKeepsRemaining(t *testing.T) {
	s := newTestStore()
	est := 45
	a, _ := s.Add(model.Draft{Text: "a", TimeEstimate: &est})
	b, _ := s.Add(model.Draft{Text: "b"})
	s.Toggle(b.ID)

	before := ComputeStats(s.Tasks(), now).RemainingMinutes
	if before != 45 {
		t.Fatalf("Expected remaining 45, got %d", before)
	}
	s.Remove(b.ID)
	if after := ComputeStats(s.Tasks(), now).RemainingMinutes; after != before {
		t.Errorf("Remaining changed from %d to %d after removing completed task", before, after)
	}
	s.Remove(a.ID)
	if after := ComputeStats(s.Tasks(), now); after != (Stats{}) {
		t.Errorf("Expected zero stats on empty collection, got %+v", after)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{0: "0h 0m", 45: "0h 45m", 90: "1h 30m", 600: "10h 0m"}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
