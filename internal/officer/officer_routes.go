package officer

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
	officers := r.Group("/reporting-officers")
	officers.Use(middleware.AuthMiddleware())
	{
		officers.GET("/:employeeId",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "reporting_officer", "read"),
			handler.GetReportingOfficer,
		)
	}
}
