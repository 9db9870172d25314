package middleware

import (
	"errors"
	"io"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// ContextRequestID holds the id echoed in the X-Request-ID header
	ContextRequestID = "requestID"
	requestIDHeader  = "X-Request-ID"
)

// RequestID reuses the caller's X-Request-ID or generates a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("requestId", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("clientIp", c.ClientIP()).
			Int64("userId", c.GetInt64(ContextUserID)).
			Msg("HTTP request")
	}
}

var errPanic = errors.New("panic recovered")

// Recovery turns panics into a 500 response and logs the stack
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Interface("panic", recovered).
			Bytes("stack", debug.Stack()).
			Str("requestId", c.GetString(ContextRequestID)).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		HandleAPIError(c, errPanic)
	})
}
