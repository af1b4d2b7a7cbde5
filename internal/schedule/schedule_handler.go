package schedule

import (
	"net/http"

	"go-ojt/internal/shared/apperror"
	"go-ojt/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) SetSchedules(c *gin.Context) {
	var req SetScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.SetSchedules(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetToday(c *gin.Context) {
	userID := c.GetString("user_id_validated")

	resp, err := h.service.GetToday(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// resp is nil on weekends: no schedule is not an error.
	response.Success(c, http.StatusOK, resp, nil)
}
