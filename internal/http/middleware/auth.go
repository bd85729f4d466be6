package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionStore looks up an issued session by its token id. Satisfied by
// repository.SessionRepository.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
}

// JWT authenticates requests with a bearer token and rejects revoked or
// expired sessions. On success it stores user_id and session_id in the gin
// context.
func JWT(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, sessionID, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
			return
		}
		if sess.UserID != userID || !sess.Active(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session revoked or expired"})
			return
		}

		c.Set("user_id", userID)
		c.Set("session_id", sessionID)
		c.Next()
	}
}
