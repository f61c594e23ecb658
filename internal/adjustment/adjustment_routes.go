package adjustment

import (
	"leaveflow/internal/middleware"
	"leaveflow/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	adjustments := r.Group("/leave-adjustments")
	adjustments.Use(middleware.AuthMiddleware())
	{
		adjustments.GET("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "leave_adjustment", "read"),
			handler.GetAll,
		)
		adjustments.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_adjustment", "read"),
			handler.GetById,
		)
		adjustments.POST("/resize",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_adjustment", "create"),
			handler.CreateResize,
		)
		adjustments.POST("/cancel",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_adjustment", "create"),
			handler.CreateCancellation,
		)
		adjustments.POST("/:id/decide",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_adjustment", "decide"),
			handler.Decide,
		)
	}
}
