package adjustment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// TimeAdjustment is an intern's request to correct punches on one of their
// attendance records. The requested values sit here untouched until an
// admin approves, at which point they are applied through the attendance
// edit path so tardiness and hours re-derive the usual way.
type TimeAdjustment struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	AttendanceID uuid.UUID `gorm:"column:attendance_id;type:uuid;not null;index"`

	TimeIn   *time.Time `gorm:"column:time_in;type:timestamptz"`
	LunchOut *time.Time `gorm:"column:lunch_out;type:timestamptz"`
	LunchIn  *time.Time `gorm:"column:lunch_in;type:timestamptz"`
	BreakOut *time.Time `gorm:"column:break_out;type:timestamptz"`
	BreakIn  *time.Time `gorm:"column:break_in;type:timestamptz"`
	TimeOut  *time.Time `gorm:"column:time_out;type:timestamptz"`

	Reason string `gorm:"column:reason;type:text;not null"`
	Status string `gorm:"column:status;type:varchar(10);not null;default:PENDING"`

	DecidedBy *uuid.UUID `gorm:"column:decided_by;type:uuid"`
	DecidedAt *time.Time `gorm:"column:decided_at;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeAdjustment) TableName() string {
	return "time_adjustments"
}
