package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPLimiter builds an in-memory per-IP limiter from a formatted rate such
// as "5-M".
func NewIPLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("middleware.NewIPLimiter: %w", err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit rejects requests from a client IP once it exceeds the limiter's rate.
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		lctx, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "middleware.RateLimit: limiter lookup failed", "ip", ip, "error", err)
			abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			slog.WarnContext(c.Request.Context(), "middleware.RateLimit: limit exceeded", "ip", ip, "limit", lctx.Limit)
			abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later")
			return
		}
		c.Next()
	}
}
