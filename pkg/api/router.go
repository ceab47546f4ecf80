// Package api exposes the task session as a JSON API for a browser
// front-end.
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/harrisonrobin/todo/pkg/app"
)

const requestIDHeader = "X-Request-ID"

// Options tune the router middleware.
type Options struct {
	// RateLimit is requests per second across all clients; zero disables it.
	RateLimit float64
	// AllowOrigins lists CORS origins; empty allows any origin.
	AllowOrigins []string
}

// NewRouter builds the gin engine serving session under /api.
func NewRouter(session *app.Session, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), corsMiddleware(opts.AllowOrigins))
	if opts.RateLimit > 0 {
		burst := max(int(opts.RateLimit), 1)
		r.Use(RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
	}

	h := NewTaskHandler(session)
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.GET("/stats", h.GetStats)
		api.GET("/categories", h.GetCategories)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", h.ListTasks)
			tasks.POST("", h.CreateTask)
			tasks.GET("/:id", h.GetTask)
			tasks.POST("/:id/toggle", h.ToggleTask)
			tasks.PUT("/:id/text", h.EditText)
			tasks.DELETE("/:id", h.DeleteTask)
		}
	}
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	return cors.New(cfg)
}

// RequestID tags each request with an id, reusing the caller's when sent,
// and logs the request once it completes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()
		log.Printf("[API] %s %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// RateLimit rejects requests once limiter runs out of tokens.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}
