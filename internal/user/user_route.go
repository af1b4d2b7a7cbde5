package user

import (
	"go-ojt/internal/middleware"
	"go-ojt/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		users.GET("", middleware.RBACAuthorize(enforcer, "user", "read_all"), h.GetAll)
		users.GET("/admins", middleware.RBACAuthorize(enforcer, "user", "read_all"), h.GetAdmins)
		users.GET("/:userId/ojt-hours", middleware.RBACAuthorize(enforcer, "ojt_hours", "read"), h.GetOJTHours)
		users.PUT("/:userId/ojt-hours", middleware.RBACAuthorize(enforcer, "ojt_hours", "update"), h.UpdateOJTHours)
		users.PUT("/:id/role", middleware.RBACAuthorize(enforcer, "user", "update"), h.ChangeRole)
		users.POST("/:id/resign", middleware.RBACAuthorize(enforcer, "user", "update"), h.ResignAdmin)
		users.POST("/:id/reinstate", middleware.RBACAuthorize(enforcer, "user", "update"), h.ReinstateAdmin)
		users.PUT("/:id/info", middleware.RBACAuthorize(enforcer, "user", "update"), h.UpdateInfo)
	}
}
