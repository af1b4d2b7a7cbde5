package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusTardy   = "TARDY"
	StatusAbsent  = "ABSENT"
	StatusOnLeave = "ON_LEAVE"
)

// Attendance is one user's punch record for one calendar day. The unique
// index on (user_id, date) is the concurrency gate: two racing time-ins
// can never both insert.
type Attendance struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_attendance_user_date"`
	Date   time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_user_date"`

	TimeIn   *time.Time `gorm:"column:time_in;type:timestamptz"`
	LunchOut *time.Time `gorm:"column:lunch_out;type:timestamptz"`
	LunchIn  *time.Time `gorm:"column:lunch_in;type:timestamptz"`
	TimeOut  *time.Time `gorm:"column:time_out;type:timestamptz"`
	BreakOut *time.Time `gorm:"column:break_out;type:timestamptz"`
	BreakIn  *time.Time `gorm:"column:break_in;type:timestamptz"`

	Status                string `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	TardinessMinutes      int    `gorm:"column:tardiness_minutes;not null;default:0"`
	LunchTardinessMinutes int    `gorm:"column:lunch_tardiness_minutes;not null;default:0"`
	BreakTardinessMinutes int    `gorm:"column:break_tardiness_minutes;not null;default:0"`

	// Derived once time-out lands. StraightWorkHours is the raw punch
	// delta; TotalWorkHours is schedule-clipped minus lunch and is the
	// figure that consumes the OJT quota.
	StraightWorkHours *float64 `gorm:"column:straight_work_hours"`
	TotalWorkHours    *float64 `gorm:"column:total_work_hours"`

	// Set when the row was materialized by an approved leave rather than
	// a real punch.
	LeaveID *uuid.UUID `gorm:"column:leave_id;type:uuid;index"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attendance) TableName() string {
	return "attendances"
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusTardy, StatusAbsent, StatusOnLeave:
		return true
	default:
		return false
	}
}
