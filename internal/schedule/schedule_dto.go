package schedule

type SetScheduleRequest struct {
	// UserID is a single id, a comma-separated id list, or "ALL".
	UserID    string `json:"user_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type SetScheduleResponse struct {
	UpdatedUsers int `json:"updated_users"`
}

type TodayScheduleResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
