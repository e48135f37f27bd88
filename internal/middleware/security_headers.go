package middleware

import (
	"github.com/gin-gonic/gin"
)

// contentSecurityPolicy allows the scheduling and video embeds the site renders
const contentSecurityPolicy = "default-src 'self'; " +
	"frame-src https://calendly.com https://cal.com https://www.youtube.com https://player.vimeo.com; " +
	"img-src 'self' data: https:; " +
	"object-src 'none'; base-uri 'self'; frame-ancestors 'none'; form-action 'self'"

// SecurityHeadersMiddleware adds security headers to all HTTP responses.
// HSTS is only sent in production, where the API is served over TLS.
func SecurityHeadersMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", contentSecurityPolicy)

		// X-Frame-Options: Prevents clickjacking attacks
		c.Header("X-Frame-Options", "DENY")

		// X-Content-Type-Options: Prevents MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Referrer-Policy: Controls referrer information
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Permissions-Policy: Restricts browser features
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")

		c.Header("X-Permitted-Cross-Domain-Policies", "none")

		if production {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}

		// Cache-Control: Prevent caching of API responses
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")

		c.Next()
	}
}
