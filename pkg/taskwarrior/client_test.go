package taskwarrior

import (
	"strings"
	"testing"
	"time"
)

func TestParseTask(t *testing.T) {
	input := `{
		"uuid": "f45a05b3-c12e-42e5-9c9c-333333333333",
		"description": "Buy milk",
		"status": "pending",
		"due": "20230101T120000Z",
		"project": "Groceries",
		"tags": ["buy", "food"],
		"annotations": [
			{"entry": "20230101T120500Z", "description": "Don't forget almond milk"}
		]
	}`

	client := NewClient()
	tasks, err := client.ParseTasks(strings.NewReader(input))
	if err != nil || len(tasks) != 1 {
		t.Fatalf("ParseTasks failed: %d tasks, %v", len(tasks), err)
	}
	task := tasks[0]

	if task.UUID != "f45a05b3-c12e-42e5-9c9c-333333333333" {
		t.Errorf("Expected UUID f45a05b3-c12e-42e5-9c9c-333333333333, got %s", task.UUID)
	}
	if task.Description != "Buy milk" {
		t.Errorf("Expected Description 'Buy milk', got '%s'", task.Description)
	}
	if len(task.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(task.Tags))
	}
	if len(task.Annotations) != 1 {
		t.Errorf("Expected 1 annotation, got %d", len(task.Annotations))
	}
	expectedDue, _ := time.Parse(time.RFC3339, "2023-01-01T12:00:00Z")
	if !task.Due.Time.Equal(expectedDue) {
		t.Errorf("Expected Due %v, got %v", expectedDue, task.Due.Time)
	}
}

func TestParseTasksArrayAndStream(t *testing.T) {
	client := NewClient()

	array := `[{"uuid":"a","description":"one","status":"pending"},{"uuid":"b","description":"two","status":"completed"}]`
	tasks, err := client.ParseTasks(strings.NewReader(array))
	if err != nil || len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks from array, got %d, %v", len(tasks), err)
	}

	stream := "{\"uuid\":\"a\",\"description\":\"one\",\"status\":\"pending\"}\n{\"uuid\":\"b\",\"description\":\"two\",\"status\":\"pending\"}\n"
	tasks, err = client.ParseTasks(strings.NewReader(stream))
	if err != nil || len(tasks) != 2 || tasks[1].UUID != "b" {
		t.Fatalf("Expected 2 tasks from stream, got %+v, %v", tasks, err)
	}

	tasks, err = client.ParseTasks(strings.NewReader("  \n"))
	if err != nil || len(tasks) != 0 {
		t.Errorf("Expected no tasks from blank input, got %v, %v", tasks, err)
	}
}

func TestToDraft(t *testing.T) {
	due := &CustomTime{Time: time.Date(2023, 1, 1, 23, 30, 0, 0, time.UTC)}
	task := Task{
		Description: "Buy milk",
		Status:      PENDING,
		Due:         due,
		Project:     "Shopping",
		Priority:    "H",
		Tags:        []string{"food"},
		Annotations: []Annotation{{Description: "almond"}, {Description: "oat"}},
		Est:         "PT45M",
	}

	d := ToDraft(task)
	if d.Text != "Buy milk" || d.Category != "shopping" || d.Priority != "high" {
		t.Errorf("Unexpected draft: %+v", d)
	}
	if d.DueDate != "2023-01-01" {
		t.Errorf("Expected due 2023-01-01, got %s", d.DueDate)
	}
	if d.Notes != "almond\noat" {
		t.Errorf("Expected joined annotations, got %q", d.Notes)
	}
	if d.TimeEstimate == nil || *d.TimeEstimate != 45 {
		t.Errorf("Expected 45 minute estimate, got %v", d.TimeEstimate)
	}

	task.Project = "Garden"
	if d := ToDraft(task); d.Category != "" || len(d.Tags) != 2 || d.Tags[1] != "Garden" {
		t.Errorf("Expected unknown project kept as tag, got %+v", d)
	}
	if Importable(Task{Description: "x", Status: DELETED}) {
		t.Error("Deleted tasks should not be importable")
	}
	if Importable(Task{Description: "x", Status: WAITING}) {
		t.Error("Waiting tasks should not be importable")
	}
	if !Importable(Task{Description: "x", Status: COMPLETED}) {
		t.Error("Completed tasks should be importable")
	}
}
