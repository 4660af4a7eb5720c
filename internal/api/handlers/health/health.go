package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"meal-deals/internal/core/ai/queue"
	"meal-deals/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// readyTimeout bound on each readiness check
const readyTimeout = 2 * time.Second

// Checker dependency probed by the readiness check
type Checker interface {
	Ping(ctx context.Context) error
}

// Generation generation guard status
type Generation interface {
	State() gobreaker.State
	QueueStatus() *queue.Status
}

// HealthResponse health check body
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Uptime     string                 `json:"uptime"`
	Runtime    map[string]interface{} `json:"runtime"`
	Generation *GenerationStatus      `json:"generation,omitempty"`
}

// GenerationStatus breaker and queue state
type GenerationStatus struct {
	Breaker string        `json:"breaker"`
	Queue   *queue.Status `json:"queue"`
}

// Handler health endpoints
type Handler struct {
	name       string
	version    string
	checks     map[string]Checker
	generation Generation
	started    time.Time
}

// NewHandler creates a Handler. generation may be nil.
func NewHandler(name, version string, checks map[string]Checker, generation Generation) *Handler {
	return &Handler{
		name:       name,
		version:    version,
		checks:     checks,
		generation: generation,
		started:    time.Now(),
	}
}

// Root service banner
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": h.name + " is running",
		"version": h.version,
	})
}

// HealthCheck reports version and runtime statistics
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.generation != nil {
		response.Generation = &GenerationStatus{
			Breaker: h.generation.State().String(),
			Queue:   h.generation.QueueStatus(),
		}
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck pings every dependency, 503 when any fails
func (h *Handler) ReadinessCheck(c *gin.Context) {
	results := make(map[string]string, len(h.checks))
	ready := true

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		err := check.Ping(ctx)
		cancel()

		if err != nil {
			ready = false
			results[name] = err.Error()
			common.LogWarn("readiness check failed", zap.String("check", name), zap.Error(err))
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": results,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": results,
	})
}

// LivenessCheck always alive while the process serves
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
