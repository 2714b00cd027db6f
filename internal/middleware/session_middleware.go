package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suitloom/suitloom-backend/internal/errors"
)

const (
	// SessionHeader carries the configurator session across requests
	SessionHeader = "X-Session-ID"

	SessionIDKey = "session_id"
)

// 세션 ID는 UUID 또는 짧은 영숫자 토큰만 허용
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// RequireSession extracts the configurator session ID from the
// X-Session-ID header. A missing header gets a fresh UUID assigned and
// echoed back, so anonymous visitors can configure without an account.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
			log.Debug("Assigned new configurator session", map[string]interface{}{
				"session_id": sessionID,
			})
		} else if !sessionIDPattern.MatchString(sessionID) {
			log.Warn("Rejected malformed session ID", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.BadRequest(c, errors.ValidationInvalidInput, "세션 ID 형식이 올바르지 않습니다")
			c.Abort()
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the session ID from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}
