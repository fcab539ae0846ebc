package middleware

import (
	"net/http"

	"kigalimove/models"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets through only sessions whose role is listed. It must run after SessionAuth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := models.Role(c.GetString(CtxRole))
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have access to this dashboard"})
			return
		}
		c.Next()
	}
}

// WorkerRoles are the roles served by the worker dashboard.
var WorkerRoles = []models.Role{models.RoleDriver, models.RoleHelper, models.RoleCleaner}
