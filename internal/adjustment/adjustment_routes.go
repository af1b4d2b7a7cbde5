package adjustment

import (
	"go-ojt/internal/middleware"
	"go-ojt/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	adjustments := r.Group("/adjustments")
	adjustments.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		adjustments.POST("", middleware.RBACAuthorize(enforcer, "adjustment", "create"), h.Create)
		adjustments.GET("", middleware.RBACAuthorize(enforcer, "adjustment", "read"), h.List)
		adjustments.POST("/:id/decide", middleware.RBACAuthorize(enforcer, "adjustment", "decide"), h.Decide)
	}
}
