// Package respond converts handler outcomes into JSON responses. It is the
// only place where domain errors become HTTP status codes.
package respond

import (
	"errors"
	"net/http"

	"todo_api/internal/domain"
	"todo_api/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Responder struct {
	exposeDetails bool
}

// New returns a Responder. With exposeDetails set, unexpected errors carry
// their text in details; otherwise it is only logged.
func New(exposeDetails bool) *Responder {
	return &Responder{exposeDetails: exposeDetails}
}

// Error writes err as a JSON error response and aborts the chain
func (r *Responder) Error(c *gin.Context, err error) {
	status, body := r.classify(err)
	log := logger.WithContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, body)
}

// BadRequest reports malformed input that never reached the service
func (r *Responder) BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Error:   http.StatusText(http.StatusBadRequest),
		Message: msg,
	})
}

func (r *Responder) classify(err error) (int, ErrorBody) {
	var (
		vErr    *domain.ValidationError
		initErr *domain.InitError
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, ErrorBody{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: vErr.Error(),
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorBody{
			Error:   http.StatusText(http.StatusNotFound),
			Message: "Todo not found",
		}
	case errors.As(err, &initErr):
		return http.StatusServiceUnavailable, ErrorBody{
			Error:   http.StatusText(http.StatusServiceUnavailable),
			Message: "Failed to initialize application",
			Details: initErr.Error(),
		}
	}

	body := ErrorBody{
		Error:   http.StatusText(http.StatusInternalServerError),
		Message: "An unexpected error occurred",
	}
	if r.exposeDetails {
		body.Details = err.Error()
	}
	return http.StatusInternalServerError, body
}
