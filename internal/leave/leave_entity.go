package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	CoverageFullDay = "FULL_DAY"
	CoverageHalfDay = "HALF_DAY"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Leave is a request for a date range. Approval materializes ON_LEAVE
// attendance rows for the covered weekdays; rejection or deletion removes
// them again.
type Leave struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
	Coverage  string    `gorm:"column:coverage;type:varchar(10);not null;default:FULL_DAY"`
	LeaveType string    `gorm:"column:leave_type;type:varchar(30)"`
	Reason    string    `gorm:"column:reason;type:text"`

	// Attachment is an optional link to supporting evidence, a medical
	// certificate for example. Storage lives outside this service.
	Attachment *string `gorm:"column:attachment;type:text"`

	Status string `gorm:"column:status;type:varchar(10);not null;default:PENDING"`

	DecidedBy *uuid.UUID `gorm:"column:decided_by;type:uuid"`
	DecidedAt *time.Time `gorm:"column:decided_at;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Leave) TableName() string {
	return "leaves"
}

func ValidCoverage(c string) bool {
	return c == CoverageFullDay || c == CoverageHalfDay
}
