package request

import (
	"leaveflow/internal/middleware"
	"leaveflow/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "leave_request", "read"),
			handler.GetAll,
		)
		requests.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_request", "read"),
			handler.GetById,
		)
		requests.GET("/:id/breakup",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_request", "read"),
			handler.GetBreakup,
		)
		if redisClient != nil {
			requests.POST("",
				middleware.Idempotency(redisClient),
				middleware.RateLimitByUser(0.5, 2),
				middleware.RBACAuthorize(rbacService, "leave_request", "create"),
				handler.Submit,
			)
		} else {
			requests.POST("",
				middleware.RateLimitByUser(0.5, 2),
				middleware.RBACAuthorize(rbacService, "leave_request", "create"),
				handler.Submit,
			)
		}
		requests.POST("/preview",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "leave_request", "read"),
			handler.Preview,
		)
		requests.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_request", "update"),
			handler.Update,
		)
		requests.POST("/:id/cancel",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_request", "update"),
			handler.Cancel,
		)
		requests.POST("/:id/decide",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_request", "decide"),
			handler.Decide,
		)
	}
}
