package handlers

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"todo_api/internal/bootstrap"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// InitState reports the schema initialization state
type InitState interface {
	State() bootstrap.State
	Err() error
}

type HealthHandler struct {
	db      Pinger
	gate    InitState
	started time.Time
	version string
}

func NewHealthHandler(db Pinger, gate InitState, version string) *HealthHandler {
	return &HealthHandler{db: db, gate: gate, started: time.Now(), version: version}
}

// HealthResponse is the body of /readyz
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness answers as long as the process can serve HTTP
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports database reachability and migration state. Until the
// gate reaches Initialized the instance is not ready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, ok := h.check(ctx, true)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = strconv.FormatFloat(float64(m.Alloc)/1024/1024, 'f', 2, 64)

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	code := http.StatusOK
	if !ok {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Health is the short form: database up and initialization not failed.
// A lazily initialized instance that has not migrated yet is still healthy.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks, ok := h.check(ctx, false)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"init":    checks["migrations"],
	})
}

// check probes the database and the gate. With strict set, any state other
// than Initialized fails; otherwise only Failed does.
func (h *HealthHandler) check(ctx context.Context, strict bool) (map[string]string, bool) {
	checks := make(map[string]string, 3)
	ok := true

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		ok = false
	} else {
		checks["database"] = "healthy"
	}

	state := h.gate.State()
	checks["migrations"] = state.String()
	switch {
	case state == bootstrap.StateFailed:
		ok = false
		if err := h.gate.Err(); err != nil {
			checks["migrations"] += ": " + err.Error()
		}
	case strict && state != bootstrap.StateInitialized:
		ok = false
	}

	return checks, ok
}
