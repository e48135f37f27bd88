package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/firmtemplate/firm-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize is the request body limit when none is configured
const DefaultMaxBodySize int64 = 1024 * 1024

// BodySizeLimitMiddleware limits the size of request bodies.
// Body-carrying requests must declare a Content-Length that is a non-negative integer
// no larger than maxBodySize; the body is then capped at that size while it is read.
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}

	return func(c *gin.Context) {
		// Skip for GET, HEAD, OPTIONS requests (no body)
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		length, status, message := declaredLength(c.Request)
		if status == 0 && length > maxBodySize {
			status, message = http.StatusRequestEntityTooLarge, "Payload too large"
		}
		if status != 0 {
			metrics.RejectedBodies.WithLabelValues(strconv.Itoa(status)).Inc()
			c.AbortWithStatusJSON(status, gin.H{"error": message})
			return
		}

		// Limit the request body size
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

		c.Next()
	}
}

// declaredLength returns the Content-Length, or the status and message to reject with
func declaredLength(r *http.Request) (int64, int, string) {
	raw := strings.TrimSpace(r.Header.Get("Content-Length"))
	if raw == "" {
		// A server request without the header has ContentLength 0 (no body) or -1 (chunked).
		// Only in-process requests carry a positive length without the header.
		if r.ContentLength <= 0 {
			return 0, http.StatusLengthRequired, "Content-Length required"
		}
		return r.ContentLength, 0, ""
	}

	length, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || length < 0 {
		return 0, http.StatusBadRequest, "Invalid Content-Length"
	}
	return length, 0, ""
}
