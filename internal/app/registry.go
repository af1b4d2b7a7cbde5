package app

import (
	"database/sql"

	"go-ojt/internal/adjustment"
	"go-ojt/internal/attendance"
	"go-ojt/internal/auth"
	"go-ojt/internal/leave"
	"go-ojt/internal/messaging/kafka"
	"go-ojt/internal/rbac"
	"go-ojt/internal/schedule"
	"go-ojt/internal/shared/clock"
	"go-ojt/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Registry holds the assembled services so the worker and consumer
// binaries can reuse the same wiring as the API.
type Registry struct {
	UserService       user.Service
	ScheduleService   schedule.Service
	AttendanceService attendance.Service
	LeaveService      leave.Service
	AdjustmentService adjustment.Service
	AuthService       auth.Service
	OutboxRepo        kafka.OutboxRepository
}

// buildRegistry wires repositories into services following the package
// dependency order: user, schedule, attendance, then leave and adjustment
// on top.
func buildRegistry(db *sql.DB, gormDB *gorm.DB) Registry {
	clk := clock.New()

	userRepo := user.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	adjustmentRepo := adjustment.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	userService := user.NewService(userRepo, attendanceRepo)
	scheduleService := schedule.NewService(scheduleRepo, userRepo, clk)
	attendanceService := attendance.NewService(
		db,
		attendanceRepo,
		scheduleService,
		leaveRepo,
		userService,
		userRepo,
		outboxRepo,
		clk,
	)
	leaveService := leave.NewService(db, leaveRepo, attendanceRepo, userRepo, outboxRepo, clk)
	adjustmentService := adjustment.NewService(adjustmentRepo, attendanceRepo, attendanceService, clk)
	authService := auth.NewService(userRepo, clk)

	return Registry{
		UserService:       userService,
		ScheduleService:   scheduleService,
		AttendanceService: attendanceService,
		LeaveService:      leaveService,
		AdjustmentService: adjustmentService,
		AuthService:       authService,
		OutboxRepo:        outboxRepo,
	}
}

func registerModules(
	router *gin.Engine,
	reg Registry,
	rdb *redis.Client,
) error {
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	authHandler := auth.NewHandler(reg.AuthService)
	userHandler := user.NewHandler(reg.UserService)
	scheduleHandler := schedule.NewHandler(reg.ScheduleService)
	attendanceHandler := attendance.NewHandler(reg.AttendanceService, rdb)
	leaveHandler := leave.NewHandler(reg.LeaveService)
	adjustmentHandler := adjustment.NewHandler(reg.AdjustmentService)

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, enforcer)
		schedule.RegisterRoutes(api, scheduleHandler, enforcer)
		attendance.RegisterRoutes(api, attendanceHandler, enforcer, rdb)
		leave.RegisterRoutes(api, leaveHandler, enforcer)
		adjustment.RegisterRoutes(api, adjustmentHandler, enforcer)
	}

	return nil
}
