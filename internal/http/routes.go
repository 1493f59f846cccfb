package http

import (
	"context"
	"time"

	"todo_api/internal/auth"
	"todo_api/internal/bootstrap"
	"todo_api/internal/http/handlers"
	"todo_api/internal/http/middleware"
	"todo_api/internal/http/respond"
	"todo_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Gate is the initialization controller as seen by the router
type Gate interface {
	EnsureReady(ctx context.Context) error
	State() bootstrap.State
	Err() error
}

type Deps struct {
	Todos handlers.TodoService
	Gate  Gate
	DB    handlers.Pinger

	// optional
	Redis  *redis.Client
	Hub    *ws.Hub
	Issuer *auth.Issuer

	RateLimit          int
	RateWindow         time.Duration
	AllowedOrigin      string
	Version            string
	ExposeErrorDetails bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(d.AllowedOrigin))
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	resp := respond.New(d.ExposeErrorDetails)
	h := handlers.NewHandler(d.Todos, resp)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Gate, d.Version)

	// Health checks (no rate limiting, no gate)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.Hub != nil {
		r.GET("/todos/events", ws.HandleEvents(d.Hub, d.AllowedOrigin))
	}

	rl := middleware.RateLimit(d.Redis, d.RateLimit, d.RateWindow)
	ready := middleware.RequireReady(d.Gate, resp)

	for _, prefix := range []string{"/todos", "/api/v1/todos"} {
		g := r.Group(prefix)
		g.Use(rl, ready)
		registerTodoRoutes(g, h, middleware.JWT(d.Issuer))
	}
}

func registerTodoRoutes(g *gin.RouterGroup, h *handlers.Handler, authn gin.HandlerFunc) {
	g.GET("", h.ListTodos)
	g.GET("/:id", h.GetTodo)
	g.POST("", authn, h.CreateTodo)
	g.PUT("/:id", authn, h.UpdateTodo)
	g.DELETE("/:id", authn, h.DeleteTodo)
}
