package user

type UpdateOJTHoursRequest struct {
	TotalOJTHours int `json:"total_ojt_hours" binding:"required"`
}

type OJTHoursResponse struct {
	TotalOJTHours      *int     `json:"total_ojt_hours"`
	RemainingWorkHours *float64 `json:"remaining_work_hours"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UpdateInfoRequest struct {
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Supervisor *string `json:"supervisor"`
	Manager    *string `json:"manager"`
}

type UserResponse struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	Role               string   `json:"role"`
	TotalOJTHours      *int     `json:"total_ojt_hours,omitempty"`
	RemainingWorkHours *float64 `json:"remaining_work_hours,omitempty"`
	OnLeave            bool     `json:"on_leave"`
	UseCustomSchedule  bool     `json:"use_custom_schedule"`
	Department         *string  `json:"department,omitempty"`
	Position           *string  `json:"position,omitempty"`
	Supervisor         *string  `json:"supervisor,omitempty"`
	Manager            *string  `json:"manager,omitempty"`
	ResignedAt         *string  `json:"resigned_at,omitempty"`
}
