package adjustment

import "time"

type CreateAdjustmentRequest struct {
	AttendanceID string     `json:"attendance_id" binding:"required,uuid"`
	TimeIn       *time.Time `json:"time_in"`
	LunchOut     *time.Time `json:"lunch_out"`
	LunchIn      *time.Time `json:"lunch_in"`
	BreakOut     *time.Time `json:"break_out"`
	BreakIn      *time.Time `json:"break_in"`
	TimeOut      *time.Time `json:"time_out"`
	Reason       string     `json:"reason" binding:"required,max=500"`
}

type DecideAdjustmentRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type AdjustmentResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	AttendanceID string  `json:"attendance_id"`
	TimeIn       *string `json:"time_in,omitempty"`
	LunchOut     *string `json:"lunch_out,omitempty"`
	LunchIn      *string `json:"lunch_in,omitempty"`
	BreakOut     *string `json:"break_out,omitempty"`
	BreakIn      *string `json:"break_in,omitempty"`
	TimeOut      *string `json:"time_out,omitempty"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	DecidedBy    *string `json:"decided_by,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
}

func mapToResponse(a TimeAdjustment) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:           a.ID.String(),
		UserID:       a.UserID.String(),
		AttendanceID: a.AttendanceID.String(),
		TimeIn:       fmtTime(a.TimeIn),
		LunchOut:     fmtTime(a.LunchOut),
		LunchIn:      fmtTime(a.LunchIn),
		BreakOut:     fmtTime(a.BreakOut),
		BreakIn:      fmtTime(a.BreakIn),
		TimeOut:      fmtTime(a.TimeOut),
		Reason:       a.Reason,
		Status:       a.Status,
	}
	if a.DecidedBy != nil {
		v := a.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if a.DecidedAt != nil {
		v := a.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(rows []TimeAdjustment) []AdjustmentResponse {
	resp := make([]AdjustmentResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
