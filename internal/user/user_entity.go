package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Username string    `gorm:"column:username;type:varchar(100);not null"`
	Email    string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password string    `gorm:"column:password;type:text;not null"`
	Role     string    `gorm:"column:role;type:varchar(20);not null;default:USER"`

	// OJT quota. TotalOJTHours nil means the admin has not assigned one
	// yet; RemainingWorkHours is derived and stays nil until a quota is
	// set. A negative remaining value means the intern is over quota and
	// is kept as-is.
	TotalOJTHours      *int     `gorm:"column:total_ojt_hours"`
	RemainingWorkHours *float64 `gorm:"column:remaining_work_hours"`

	OnLeave           bool `gorm:"column:on_leave;not null;default:false"`
	UseCustomSchedule bool `gorm:"column:use_custom_schedule;not null;default:false"`

	Department *string `gorm:"column:department;type:varchar(100)"`
	Position   *string `gorm:"column:position;type:varchar(100)"`
	Supervisor *string `gorm:"column:supervisor;type:varchar(100)"`
	Manager    *string `gorm:"column:manager;type:varchar(100)"`

	ResignedAt *time.Time     `gorm:"column:resigned_at"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}
