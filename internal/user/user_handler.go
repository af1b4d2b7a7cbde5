package user

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

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAdmins(c *gin.Context) {
	resp, err := h.service.GetAdmins(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetOJTHours(c *gin.Context) {
	targetID := c.Param("userId")
	actorID := c.GetString("user_id_validated")
	role := c.GetString("role")

	// Interns may only read their own quota.
	if role != RoleAdmin && actorID != targetID {
		writeServiceError(c, apperror.ErrForbidden)
		return
	}

	resp, err := h.service.GetOJTHours(c.Request.Context(), targetID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateOJTHours(c *gin.Context) {
	var req UpdateOJTHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.UpdateOJTHours(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	actorID := c.GetString("user_id_validated")
	if err := h.service.ChangeRole(c.Request.Context(), actorID, c.Param("id"), req.Role); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "role updated"}, nil)
}

func (h *Handler) ResignAdmin(c *gin.Context) {
	actorID := c.GetString("user_id_validated")
	if err := h.service.ResignAdmin(c.Request.Context(), actorID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "admin resigned"}, nil)
}

func (h *Handler) ReinstateAdmin(c *gin.Context) {
	actorID := c.GetString("user_id_validated")
	if err := h.service.ReinstateAdmin(c.Request.Context(), actorID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "admin reinstated"}, nil)
}

func (h *Handler) UpdateInfo(c *gin.Context) {
	var req UpdateInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	if err := h.service.UpdateInfo(c.Request.Context(), c.Param("id"), req); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "user information updated"}, nil)
}
