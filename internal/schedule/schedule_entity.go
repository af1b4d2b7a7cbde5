package schedule

import (
	"time"

	"github.com/google/uuid"
)

// UserSchedule is an admin-set override of the default work window for one
// user on one specific calendar date. StartTime/EndTime are wall-clock
// "HH:MM" strings in the org timezone.
type UserSchedule struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_weekday_date"`
	Weekday      int       `gorm:"column:weekday;not null;uniqueIndex:uq_user_weekday_date"`
	ScheduleDate time.Time `gorm:"column:schedule_date;type:date;not null;uniqueIndex:uq_user_weekday_date"`
	StartTime    string    `gorm:"column:start_time;type:varchar(5);not null"`
	EndTime      string    `gorm:"column:end_time;type:varchar(5);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserSchedule) TableName() string {
	return "user_schedules"
}

// Window is a resolved work window: absolute instants anchored to one
// calendar date in the org timezone.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) StartTime() string { return w.Start.Format("15:04") }
func (w Window) EndTime() string   { return w.End.Format("15:04") }
