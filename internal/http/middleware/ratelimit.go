// Package middleware contains shared Gin middleware for the staff admin API.
//
// This file adapts the keyed token-bucket limiter to HTTP: one bucket per
// client IP, rejecting excess traffic with 429 before handlers run.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lehmann-Bruno/petup-assistant/internal/ratelimit"
)

// RateLimit returns a middleware that throttles requests per client IP using
// the given limiter. Rejected requests get a JSON 429 envelope carrying the
// correlation ID.
func RateLimit(limiter *ratelimit.Keyed) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		rid, _ := c.Get(requestIDKey)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": asString(rid),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}
