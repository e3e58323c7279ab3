package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-Id"

type traceKey struct{}

// Trace tags every request with a trace id, taken from the X-Trace-Id
// header when the client sent one.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = strings.ReplaceAll(uuid.New().String(), "-", "")
		}
		c.Set(TraceHeader, traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), traceKey{}, traceID))
		c.Header(TraceHeader, traceID)
		c.Next()

		if c.Writer.Status() >= 500 {
			log.Printf("[%s] %s %s -> %d", traceID, c.Request.Method, c.Request.URL.Path, c.Writer.Status())
		}
	}
}

// TraceID returns the trace id carried by ctx, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}
