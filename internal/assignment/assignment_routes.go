package assignment

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
	assignments := r.Group("/leave-assignments")
	assignments.Use(middleware.AuthMiddleware())
	{
		assignments.GET("/:employeeId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_assignment", "read"),
			handler.GetAll,
		)
		assignments.GET("/:employeeId/export",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "leave_assignment", "read"),
			handler.Export,
		)
		assignments.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_assignment", "manage"),
			handler.Save,
		)
		assignments.POST("/import",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "leave_assignment", "manage"),
			handler.Import,
		)
	}
}
