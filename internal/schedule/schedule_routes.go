package schedule

import (
	"go-ojt/internal/middleware"
	"go-ojt/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		schedules.GET("/today", middleware.RBACAuthorize(enforcer, "schedule", "read"), h.GetToday)
		schedules.POST("", middleware.RBACAuthorize(enforcer, "schedule", "update"), h.SetSchedules)
	}
}
