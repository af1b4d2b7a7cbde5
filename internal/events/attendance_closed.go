package events

import "time"

const AttendanceClosedTopic = "ojt.attendance.closed.v1"

// AttendanceClosedEvent is emitted after a successful time-out so the
// remaining-hours consumer can refresh the user's quota.
type AttendanceClosedEvent struct {
	EventType      string    `json:"event_type"`
	AttendanceID   string    `json:"attendance_id"`
	UserID         string    `json:"user_id"`
	Date           string    `json:"date"`
	TotalWorkHours float64   `json:"total_work_hours"`
	OccurredAt     time.Time `json:"occurred_at"`
}
