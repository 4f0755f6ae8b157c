package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey      = "requestId"
	requestIDHeader   = "X-Request-Id"
	cloudTraceHeader  = "X-Cloud-Trace-Context"
	maxRequestIDBytes = 128
)

// RequestID tags the request with an ID taken from X-Request-Id, else the
// trace ID of X-Cloud-Trace-Context, else a fresh uuid. The ID is echoed
// in the X-Request-Id response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := incomingRequestID(c)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func incomingRequestID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(requestIDHeader)); id != "" && len(id) <= maxRequestIDBytes {
		return id
	}
	// TRACE_ID/SPAN_ID;o=OPTIONS
	trace := strings.TrimSpace(c.GetHeader(cloudTraceHeader))
	if i := strings.IndexByte(trace, '/'); i >= 0 {
		trace = trace[:i]
	}
	if trace != "" && len(trace) <= maxRequestIDBytes {
		return trace
	}
	return ""
}

// RequestIDFromContext returns the ID set by RequestID.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}
