package middleware

import (
	"context"
	"net/http"
	"strings"

	"kigalimove/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionAuth.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxRole      = "role"
	CtxSessionID = "sessionID"
	CtxWorkerID  = "workerID"
)

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*utils.AuthSession, error)
}

// SessionAuth rejects requests without a live session with 401.
func SessionAuth(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		session, err := sessions.CurrentSession(c.Request.Context(), tokenString)
		if err != nil || session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please log in again."})
			return
		}

		c.Set(CtxUserID, session.UserID)
		c.Set(CtxUserName, session.UserName)
		c.Set(CtxRole, session.Role)
		c.Set(CtxSessionID, session.ID)
		c.Set(CtxWorkerID, session.WorkerID)
		c.Next()
	}
}
