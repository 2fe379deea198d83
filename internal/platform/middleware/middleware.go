package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// SharerIDHeader carries the requesting user's identity. Authentication
	// itself is owned by the upstream gateway; this service trusts the header.
	SharerIDHeader = "X-Sharer-User-Id"

	requestIDHeader = "X-Request-Id"

	sharerIDKey  = "sharerUserID"
	requestIDKey = "requestID"
)

// Recovery converts panics into a 500 response and logs the failure.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"success": false, "error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// RequestID propagates the inbound request id, minting one if absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// SharerIdentity parses the X-Sharer-User-Id header into the context when
// present. Handlers that require an identity use GetSharerID and reject the
// request themselves, since some routes (search, user management) are
// identity-free.
func SharerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(SharerIDHeader)
		if raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					gin.H{"success": false, "error": "invalid " + SharerIDHeader + " header"})
				return
			}
			c.Set(sharerIDKey, id)
		}
		c.Next()
	}
}

// GetSharerID returns the requesting user's id set by SharerIdentity.
func GetSharerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(sharerIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
