package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oggyb/findtheone/internal/auth"
	"github.com/oggyb/findtheone/internal/cache"
	svcErr "github.com/oggyb/findtheone/internal/errors"
)

const (
	identityKey     = "identity"
	requestIDHeader = "X-Request-ID"
)

// RequestLogger assigns a request id and logs each request once it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"request_id", requestID,
			"duration", time.Since(start),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("http request failed", append(attrs, "errors", c.Errors.String())...)
		case status >= http.StatusBadRequest:
			logger.Info("http request rejected", attrs...)
		default:
			logger.Debug("http request", attrs...)
		}
	}
}

// AuthRequired validates the bearer JWT and stores the identity on the gin context.
func AuthRequired(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "missing or malformed authorization header",
				"reason": svcErr.ReasonUnauthenticated,
			})
			return
		}
		id, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "invalid or expired token",
				"reason": svcErr.ReasonUnauthenticated,
			})
			return
		}
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// GetUserID returns the authenticated user id (must be used after AuthRequired).
func GetUserID(c *gin.Context) uint64 {
	v, ok := c.Get(identityKey)
	if !ok {
		return 0
	}
	return v.(auth.Identity).UserID
}

// RateLimit limits requests per authenticated user, or per client IP before
// authentication, using the shared Redis counter.
func RateLimit(rc *cache.RedisCache, limit int, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	if window <= 0 {
		window = time.Minute
	}
	return func(c *gin.Context) {
		if rc == nil || limit <= 0 {
			c.Next()
			return
		}
		subject := "ip:" + c.ClientIP()
		if uid := GetUserID(c); uid != 0 {
			subject = "user:" + strconv.FormatUint(uid, 10)
		}

		allowed, err := rc.Allow(c.Request.Context(), subject, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", "err", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded", "reason": "RATE_LIMITED"})
			return
		}
		c.Next()
	}
}
