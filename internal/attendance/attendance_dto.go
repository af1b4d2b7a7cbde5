package attendance

import "time"

type AttendanceResponse struct {
	ID                    string   `json:"id"`
	UserID                string   `json:"user_id"`
	Date                  string   `json:"date"`
	State                 string   `json:"state"`
	Status                string   `json:"status"`
	TimeIn                *string  `json:"time_in"`
	LunchOut              *string  `json:"lunch_out"`
	LunchIn               *string  `json:"lunch_in"`
	TimeOut               *string  `json:"time_out"`
	BreakOut              *string  `json:"break_out,omitempty"`
	BreakIn               *string  `json:"break_in,omitempty"`
	TardinessMinutes      int      `json:"tardiness_minutes"`
	LunchTardinessMinutes int      `json:"lunch_tardiness_minutes"`
	BreakTardinessMinutes int      `json:"break_tardiness_minutes"`
	StraightWorkHours     *float64 `json:"straight_work_hours"`
	TotalWorkHours        *float64 `json:"total_work_hours"`
}

// AdminUpdateRequest carries the editable punch fields. Absent fields keep
// the stored values; a supplied status becomes authoritative.
type AdminUpdateRequest struct {
	TimeIn   *time.Time `json:"time_in"`
	LunchOut *time.Time `json:"lunch_out"`
	LunchIn  *time.Time `json:"lunch_in"`
	BreakOut *time.Time `json:"break_out"`
	BreakIn  *time.Time `json:"break_in"`
	TimeOut  *time.Time `json:"time_out"`
	Status   *string    `json:"status"`
}

type UserAttendanceResponse struct {
	Records  []AttendanceResponse `json:"records"`
	WorkDays int                  `json:"work_days"`
}

type LoginStatusEntry struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	TimeIn   *string `json:"time_in,omitempty"`
}

type LoginStatusResponse struct {
	LoggedIn  []LoginStatusEntry `json:"logged_in"`
	LoggedOut []LoginStatusEntry `json:"logged_out"`
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                    a.ID.String(),
		UserID:                a.UserID.String(),
		Date:                  a.Date.Format("2006-01-02"),
		State:                 StateOf(&a).String(),
		Status:                a.Status,
		TimeIn:                fmtTime(a.TimeIn),
		LunchOut:              fmtTime(a.LunchOut),
		LunchIn:               fmtTime(a.LunchIn),
		TimeOut:               fmtTime(a.TimeOut),
		BreakOut:              fmtTime(a.BreakOut),
		BreakIn:               fmtTime(a.BreakIn),
		TardinessMinutes:      a.TardinessMinutes,
		LunchTardinessMinutes: a.LunchTardinessMinutes,
		BreakTardinessMinutes: a.BreakTardinessMinutes,
		StraightWorkHours:     a.StraightWorkHours,
		TotalWorkHours:        a.TotalWorkHours,
	}
	return resp
}

func mapToListResponse(rows []Attendance) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
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
