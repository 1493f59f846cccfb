package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo_api/internal/auth"
	"todo_api/internal/domain"
	"todo_api/internal/http/respond"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readyFunc func(context.Context) error

func (f readyFunc) EnsureReady(ctx context.Context) error { return f(ctx) }

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireReadyPassesWhenInitialized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/todos", RequireReady(readyFunc(func(context.Context) error { return nil }), respond.New(false)),
		func(c *gin.Context) { c.JSON(200, []string{}) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil))
	assert.Equal(t, 200, w.Code)
}

func TestRequireReadyRejectsAfterFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	initErr := &domain.InitError{Cause: errors.New("bad ddl")}
	called := false

	r := gin.New()
	r.GET("/todos", RequireReady(readyFunc(func(context.Context) error { return initErr }), respond.New(false)),
		func(c *gin.Context) { called = true })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to initialize application")
	assert.False(t, called)
}

func TestJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	iss := auth.NewIssuer("s3cret")
	tok, err := iss.Generate("ops")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/todos", JWT(iss), func(c *gin.Context) {
		c.String(200, c.GetString(SubjectKey))
	})

	req := httptest.NewRequest(http.MethodPost, "/todos", nil)
	assert.Equal(t, 401, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/todos", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, 401, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := serve(r, req)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "ops", w.Body.String())
}

func TestJWTDisabledWithoutIssuer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/todos", JWT(nil), func(c *gin.Context) { c.Status(201) })

	assert.Equal(t, 201, serve(r, httptest.NewRequest(http.MethodPost, "/todos", nil)).Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("https://todo.example"))
	r.GET("/todos", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "https://todo.example")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://todo.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Origin", "https://other.example")
	w = serve(r, req)
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/todos", func(c *gin.Context) { c.Status(200) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
