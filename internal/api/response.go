package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sivi/internal/service/assistant"
)

// isoMillis matches the millisecond ISO 8601 form clients already parse.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type handlerFunc func(c *gin.Context) (int, any, error)

// enveloped wraps every successful payload as {success, data, timestamp}.
func (h *Handler) enveloped(fn handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, data, err := fn(c)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(status, envelope{
			Success:   true,
			Data:      data,
			Timestamp: time.Now().UTC().Format(isoMillis),
		})
	}
}

type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(msg string) error {
	return &requestError{status: http.StatusBadRequest, message: msg}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		c.JSON(reqErr.status, gin.H{"error": reqErr.message})
	case errors.Is(err, assistant.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.TrimPrefix(err.Error(), assistant.ErrInvalidInput.Error()+": ")})
	case errors.Is(err, assistant.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, assistant.ErrNoPrompts):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Stack().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
