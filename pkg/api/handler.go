package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harrisonrobin/todo/pkg/app"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/todo"
)

// TaskHandler serves the task collection over HTTP.
type TaskHandler struct {
	session *app.Session
}

func NewTaskHandler(session *app.Session) *TaskHandler {
	return &TaskHandler{session: session}
}

type editTextRequest struct {
	Text *string `json:"text" binding:"required"`
}

// ListTasks returns the view and the collection stats.
// GET /api/tasks?filter=overdue&search=milk&sort=dueDate
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter, err := model.ParseFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sortKind, err := model.ParseSort(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, stats := h.session.Snapshot(todo.Query{Filter: filter, Search: c.Query("search"), Sort: sortKind})
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"stats": stats,
	})
}

// GetTask returns one task.
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, found := h.session.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask adds a task from a draft.
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var draft model.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if draft.DueDate != "" {
		if _, err := model.ParseDate(draft.DueDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	task, ok, err := h.session.Add(c.Request.Context(), draft)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Task text is empty"})
		return
	}
	if err != nil {
		h.saveFailed(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ToggleTask flips completion.
// POST /api/tasks/:id/toggle
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, found, err := h.session.Toggle(c.Request.Context(), id)
	h.respondMutation(c, task, found, err)
}

// EditText replaces the task text.
// PUT /api/tasks/:id/text
func (h *TaskHandler) EditText(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req editTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, found, err := h.session.EditText(c.Request.Context(), id, *req.Text)
	h.respondMutation(c, task, found, err)
}

// DeleteTask removes a task.
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	found, err := h.session.Remove(c.Request.Context(), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		h.saveFailed(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats returns the aggregate statistics.
// GET /api/stats
func (h *TaskHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Stats())
}

// GetCategories lists the categories a task can be filed under.
// GET /api/categories
func (h *TaskHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.Categories})
}

func (h *TaskHandler) respondMutation(c *gin.Context, task model.Task, found bool, err error) {
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		h.saveFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) saveFailed(c *gin.Context, err error) {
	log.Printf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return 0, false
	}
	return id, true
}
