package middleware

import (
	"github.com/gin-gonic/gin"
)

// CSPMiddleware sets Content Security Policy and other security headers
func CSPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Restrictive policy for API endpoints
		csp := "default-src 'none'; " +
			"script-src 'none'; " +
			"style-src 'none'; " +
			"img-src 'none'; " +
			"font-src 'none'; " +
			"connect-src 'self'; " +
			"media-src 'none'; " +
			"object-src 'none'; " +
			"child-src 'none'; " +
			"frame-src 'none'; " +
			"worker-src 'none'; " +
			"frame-ancestors 'none'; " +
			"form-action 'none'; " +
			"base-uri 'none'; " +
			"manifest-src 'none'; " +
			"upgrade-insecure-requests; " +
			"block-all-mixed-content"

		c.Header("Content-Security-Policy", csp)

		// Additional security headers
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Strict-Transport-Security (HSTS) - only set for HTTPS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}
