package leave

import "time"

type CreateLeaveRequest struct {
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	Coverage   string  `json:"coverage" binding:"omitempty,oneof=FULL_DAY HALF_DAY"`
	LeaveType  string  `json:"leave_type" binding:"omitempty,max=30"`
	Reason     string  `json:"reason" binding:"required,max=500"`
	Attachment *string `json:"attachment" binding:"omitempty,url"`
}

type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type LeaveResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Coverage   string  `json:"coverage"`
	LeaveType  string  `json:"leave_type,omitempty"`
	Reason     string  `json:"reason"`
	Attachment *string `json:"attachment,omitempty"`
	Status     string  `json:"status"`
	DecidedBy  *string `json:"decided_by,omitempty"`
	DecidedAt  *string `json:"decided_at,omitempty"`
}

// DecideLeaveResponse reports the dates the synchronizer refused to touch
// because real punch data already existed there.
type DecideLeaveResponse struct {
	Leave        LeaveResponse `json:"leave"`
	SkippedDates []string      `json:"skipped_dates"`
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		UserID:     l.UserID.String(),
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		Coverage:   l.Coverage,
		LeaveType:  l.LeaveType,
		Reason:     l.Reason,
		Attachment: l.Attachment,
		Status:     l.Status,
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(rows []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		resp[i] = mapToResponse(l)
	}
	return resp
}
