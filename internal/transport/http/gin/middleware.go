package httpgin

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set("request_id", reqID)

		c.Next()
	}
}

// CORS opens the API to the storefront origin. The header set is exactly
// what this API reads and emits: Idempotency-Key on order creation,
// If-None-Match for ETag revalidation, Retry-After on rate-limit and
// idempotency conflicts.
func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			"GET", "POST", "PUT", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Request-ID",
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"ETag",
			"Cache-Control",
			"Retry-After",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(cfg)
}

// LoggingMiddleware emits one grouped record per request once the handler
// chain finishes. route is the matched gin pattern ("/api/lessons/:id"),
// path the concrete URL.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		reqID, _ := c.Get("request_id")

		group := slog.Group("http",
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", c.Writer.Size()),
		)

		if len(c.Errors) > 0 {
			logger.Error("http", group)
		} else {
			logger.Info("http", group)
		}
	}
}
