package ledger

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
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/:employeeId",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "leave_balance", "read"),
			handler.GetBalance,
		)
	}
}
