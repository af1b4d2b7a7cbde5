package attendance

import (
	"encoding/json"
	"net/http"
	"time"

	"go-ojt/internal/shared/apperror"
	"go-ojt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// punch wraps the four punch operations with the idempotency bookkeeping:
// release the lock on the way out and cache the successful response for
// replay.
func (h *Handler) punch(c *gin.Context, fn func() (AttendanceResponse, error)) {
	lockKey := c.GetString("idempotency_lock_key")
	cacheKey := c.GetString("idempotency_cache_key")
	if h.rdb != nil && lockKey != "" {
		defer h.rdb.Del(c.Request.Context(), lockKey)
	}

	resp, err := fn()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil && cacheKey != "" {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			_ = h.rdb.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour).Err()
		}
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) TimeIn(c *gin.Context) {
	userID := c.GetString("user_id_validated")
	role := c.GetString("role")
	h.punch(c, func() (AttendanceResponse, error) {
		return h.service.TimeIn(c.Request.Context(), userID, role)
	})
}

func (h *Handler) LunchOut(c *gin.Context) {
	userID := c.GetString("user_id_validated")
	h.punch(c, func() (AttendanceResponse, error) {
		return h.service.LunchOut(c.Request.Context(), userID)
	})
}

func (h *Handler) LunchIn(c *gin.Context) {
	userID := c.GetString("user_id_validated")
	h.punch(c, func() (AttendanceResponse, error) {
		return h.service.LunchIn(c.Request.Context(), userID)
	})
}

func (h *Handler) TimeOut(c *gin.Context) {
	userID := c.GetString("user_id_validated")
	h.punch(c, func() (AttendanceResponse, error) {
		return h.service.TimeOut(c.Request.Context(), userID)
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	resp, err := h.service.GetUser(
		c.Request.Context(),
		c.Param("userId"),
		c.GetString("user_id_validated"),
		c.GetString("role"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) LoginStatus(c *gin.Context) {
	resp, err := h.service.LoginStatus(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.AdminUpdate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "attendance deleted"}, nil)
}
