package orgmode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `#+TITLE: Inbox
* TODO [#A] Pay rent :home:money:
  DEADLINE: <2024-03-01 Fri 09:00>
  :PROPERTIES:
  :Effort:   0:45
  :CATEGORY: work
  :END:
  Transfer before noon.
** DONE Buy eggs
   CLOSED: [2024-02-27 Tue 18:02]
* Notes
  Plain heading, not a task.
* TODO [#C] Stretch
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sample), "inbox.org")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d: %+v", len(entries), entries)
	}

	rent := entries[0].Draft
	if rent.Text != "Pay rent" || rent.Priority != "high" || rent.DueDate != "2024-03-01" {
		t.Errorf("Unexpected first entry: %+v", rent)
	}
	if len(rent.Tags) != 2 || rent.Tags[0] != "home" || rent.Tags[1] != "money" {
		t.Errorf("Unexpected tags: %v", rent.Tags)
	}
	if rent.TimeEstimate == nil || *rent.TimeEstimate != 45 {
		t.Errorf("Expected 45 minute effort, got %v", rent.TimeEstimate)
	}
	if rent.Category != "work" || rent.Notes != "Transfer before noon." {
		t.Errorf("Unexpected category or notes: %q %q", rent.Category, rent.Notes)
	}

	eggs := entries[1]
	if !eggs.Completed || eggs.Draft.Text != "Buy eggs" || eggs.Draft.Notes != "" {
		t.Errorf("Unexpected done entry: %+v", eggs)
	}
	if entries[2].Draft.Priority != "low" || entries[2].Draft.DueDate != "" {
		t.Errorf("Unexpected last entry: %+v", entries[2].Draft)
	}
}

func TestParseFilesAndFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox.org")
	if err := os.WriteFile(path, []byte(sample), 0600); err != nil {
		t.Fatal(err)
	}
	entries, err := ParseFiles([]string{path})
	if err != nil {
		t.Fatalf("ParseFiles failed: %v", err)
	}
	if got := FilterEntries(entries, "money"); len(got) != 1 || got[0].Draft.Text != "Pay rent" {
		t.Errorf("Unexpected filter result: %+v", got)
	}
	if _, err := ParseFiles([]string{filepath.Join(t.TempDir(), "missing.org")}); err == nil {
		t.Error("Expected error for missing file")
	}
}
