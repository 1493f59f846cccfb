package handlers

import (
	"net/http"
	"strconv"

	"todo_api/internal/domain"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTodos GET /todos?q=&completed=
func (h *Handler) ListTodos(c *gin.Context) {
	var f domain.TodoFilter
	f.Query = c.Query("q")

	if raw := c.Query("completed"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			h.resp.BadRequest(c, "completed must be true or false")
			return
		}
		f.Completed = &b
	}

	todos, err := h.Todos.List(c.Request.Context(), f)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, service.NewTodoViews(todos))
}

// GetTodo GET /todos/:id
func (h *Handler) GetTodo(c *gin.Context) {
	id, err := todoID(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	t, err := h.Todos.Get(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, service.NewTodoView(t))
}

// CreateTodo POST /todos
func (h *Handler) CreateTodo(c *gin.Context) {
	var in domain.CreateTodoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.BadRequest(c, "invalid request body")
		return
	}

	t, err := h.Todos.Create(c.Request.Context(), in)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, service.NewTodoView(t))
}

// UpdateTodo PUT /todos/:id
func (h *Handler) UpdateTodo(c *gin.Context) {
	id, err := todoID(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	var in domain.UpdateTodoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.BadRequest(c, "invalid request body")
		return
	}

	t, err := h.Todos.Update(c.Request.Context(), id, in)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, service.NewTodoView(t))
}

// DeleteTodo DELETE /todos/:id
func (h *Handler) DeleteTodo(c *gin.Context) {
	id, err := todoID(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	if err := h.Todos.Delete(c.Request.Context(), id); err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
