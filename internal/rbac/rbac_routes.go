package rbac

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, handler *Handler, mws ...gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(mws...)
	{
		group.POST("/enforce", handler.Enforce)
		group.POST("/reload", handler.Reload)
	}
}
