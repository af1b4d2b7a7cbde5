package attendance

import (
	"go-ojt/internal/middleware"
	"go-ojt/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer, rdb *redis.Client) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		punch := attendances.Group("")
		punch.Use(
			middleware.RBACAuthorize(enforcer, "attendance", "punch"),
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
		)
		{
			punch.POST("/time-in", h.TimeIn)
			punch.POST("/lunch-out", h.LunchOut)
			punch.POST("/lunch-in", h.LunchIn)
			punch.POST("/time-out", h.TimeOut)
		}

		attendances.GET("/user/:userId", middleware.RBACAuthorize(enforcer, "attendance", "read"), h.GetUser)
		attendances.GET("", middleware.RBACAuthorize(enforcer, "attendance", "read_all"), h.GetAll)
		attendances.GET("/login-status", middleware.RBACAuthorize(enforcer, "attendance", "read_all"), h.LoginStatus)
		attendances.PUT("/:id", middleware.RBACAuthorize(enforcer, "attendance", "update"), h.Update)
		attendances.DELETE("/:id", middleware.RBACAuthorize(enforcer, "attendance", "delete"), h.Delete)
	}
}
