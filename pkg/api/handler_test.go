package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harrisonrobin/todo/pkg/app"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/storage"
	"github.com/harrisonrobin/todo/pkg/todo"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T, opts Options) (*gin.Engine, *app.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	session, err := app.Open(context.Background(), storage.NewFileKV(t.TempDir()), "", "en")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	session.SetClock(func() time.Time { return testNow })
	return NewRouter(session, opts), session
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndListTasks(t *testing.T) {
	r, _ := setupRouter(t, Options{})

	yesterday := model.DateOf(testNow).AddDays(-1).String()
	w := doJSON(r, http.MethodPost, "/api/tasks", model.Draft{
		Text:     "Buy milk",
		Category: "shopping",
		DueDate:  yesterday,
		Tags:     []string{"urgent"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created model.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode task: %v", err)
	}

	w = doJSON(r, http.MethodGet, "/api/tasks?filter=overdue&search=URGENT&sort=dueDate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Tasks []model.Task `json:"tasks"`
		Stats todo.Stats   `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(resp.Tasks) != 1 || resp.Tasks[0].ID != created.ID {
		t.Errorf("Expected the created task in the overdue view, got %+v", resp.Tasks)
	}
	if resp.Stats.Overdue != 1 || resp.Stats.Total != 1 {
		t.Errorf("Unexpected stats: %+v", resp.Stats)
	}
}

func TestCreateTaskBlankText(t *testing.T) {
	r, session := setupRouter(t, Options{})

	w := doJSON(r, http.MethodPost, "/api/tasks", model.Draft{Text: "   "})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", w.Code)
	}
	if len(session.Tasks()) != 0 {
		t.Error("Blank draft should not add a task")
	}
}

func TestCreateTaskBadDate(t *testing.T) {
	r, _ := setupRouter(t, Options{})
	w := doJSON(r, http.MethodPost, "/api/tasks", model.Draft{Text: "x", DueDate: "next week"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestToggleEditDelete(t *testing.T) {
	r, session := setupRouter(t, Options{})
	task, _, err := session.Add(context.Background(), model.Draft{Text: "Draft"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	base := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := doJSON(r, http.MethodPost, base+"/toggle", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Toggle: expected 200, got %d", w.Code)
	}
	var toggled model.Task
	if err := json.Unmarshal(w.Body.Bytes(), &toggled); err != nil || toggled.ID != task.ID || !toggled.Completed {
		t.Errorf("Expected the toggled task in the response, got %s", w.Body.String())
	}
	if got, _ := session.Get(task.ID); !got.Completed {
		t.Error("Expected task completed after toggle")
	}

	w = doJSON(r, http.MethodPut, base+"/text", gin.H{"text": "Final"})
	if w.Code != http.StatusOK {
		t.Fatalf("Edit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var edited model.Task
	if err := json.Unmarshal(w.Body.Bytes(), &edited); err != nil || edited.Text != "Final" {
		t.Errorf("Expected the edited task in the response, got %s", w.Body.String())
	}
	if got, _ := session.Get(task.ID); got.Text != "Final" {
		t.Errorf("Expected text Final, got %q", got.Text)
	}

	w = doJSON(r, http.MethodDelete, base, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Delete: expected 204, got %d", w.Code)
	}
	if len(session.Tasks()) != 0 {
		t.Error("Expected empty collection after delete")
	}
}

func TestUnknownIDs(t *testing.T) {
	r, _ := setupRouter(t, Options{})

	tests := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodGet, "/api/tasks/42", nil, http.StatusNotFound},
		{http.MethodPost, "/api/tasks/42/toggle", nil, http.StatusNotFound},
		{http.MethodPut, "/api/tasks/42/text", gin.H{"text": "x"}, http.StatusNotFound},
		{http.MethodDelete, "/api/tasks/42", nil, http.StatusNotFound},
		{http.MethodDelete, "/api/tasks/abc", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := doJSON(r, tt.method, tt.path, tt.body); w.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, w.Code)
		}
	}
}

func TestListTasksRejectsUnknownKinds(t *testing.T) {
	r, _ := setupRouter(t, Options{})
	for _, q := range []string{"filter=soon", "sort=random"} {
		if w := doJSON(r, http.MethodGet, "/api/tasks?"+q, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	r, _ := setupRouter(t, Options{})

	w := doJSON(r, http.MethodGet, "/api/health", nil)
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("Expected caller request id echoed, got %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	r, _ := setupRouter(t, Options{RateLimit: 1})

	if w := doJSON(r, http.MethodGet, "/api/health", nil); w.Code != http.StatusOK {
		t.Fatalf("First request: expected 200, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/health", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("Second request: expected 429, got %d", w.Code)
	}
}

func TestCategories(t *testing.T) {
	r, _ := setupRouter(t, Options{})
	w := doJSON(r, http.MethodGet, "/api/categories", nil)

	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(resp.Categories) != len(model.Categories) {
		t.Errorf("Expected %d categories, got %v", len(model.Categories), resp.Categories)
	}
}
