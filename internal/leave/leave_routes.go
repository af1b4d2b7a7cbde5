package leave

import (
	"go-ojt/internal/middleware"
	"go-ojt/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		leaves.POST("", middleware.RBACAuthorize(enforcer, "leave", "create"), h.Create)
		leaves.GET("", middleware.RBACAuthorize(enforcer, "leave", "read"), h.List)
		leaves.POST("/:id/decide", middleware.RBACAuthorize(enforcer, "leave", "decide"), h.Decide)
		leaves.DELETE("/:id", middleware.RBACAuthorize(enforcer, "leave", "delete"), h.Delete)
	}
}
