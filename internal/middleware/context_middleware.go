package middleware

import (
	"leaveflow/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
)

// ContextMiddleware mirrors the authenticated actor into the standard
// request context so repositories and services can log it without
// depending on gin.
func ContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorID := c.GetString("user_id"); actorID != "" {
			ctx := contextutil.WithActorID(c.Request.Context(), actorID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
