package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "orkg-backend/backend/pkg/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// fail writes the error envelope. Server-side failures are logged and their
// details are not sent to the client.
func (h *handler) fail(c *gin.Context, err error) {
	status := apperrors.StatusOf(err)
	message := err.Error()
	if b, ok := apperrors.AsBase(err); ok && status < http.StatusInternalServerError {
		message = b.Message
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		message = "An internal error occurred."
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC(),
	})
}
