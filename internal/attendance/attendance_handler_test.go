package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-ojt/internal/attendance"
	attendanceerrors "go-ojt/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	timeInFn      func(ctx context.Context, userID, role string) (attendance.AttendanceResponse, error)
	timeOutFn     func(ctx context.Context, userID string) (attendance.AttendanceResponse, error)
	adminUpdateFn func(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error)
	loginStatusFn func(ctx context.Context) (attendance.LoginStatusResponse, error)
}

func (f *fakeService) TimeIn(ctx context.Context, userID, role string) (attendance.AttendanceResponse, error) {
	return f.timeInFn(ctx, userID, role)
}
func (f *fakeService) LunchOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeService) LunchIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeService) TimeOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	return f.timeOutFn(ctx, userID)
}
func (f *fakeService) RecalculateHours(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeService) AdminUpdate(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error) {
	return f.adminUpdateFn(ctx, id, req)
}
func (f *fakeService) GetUser(ctx context.Context, targetID, actorID, actorRole string) (attendance.UserAttendanceResponse, error) {
	return attendance.UserAttendanceResponse{}, nil
}
func (f *fakeService) GetAll(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	return nil, nil
}
func (f *fakeService) LoginStatus(ctx context.Context) (attendance.LoginStatusResponse, error) {
	return f.loginStatusFn(ctx)
}
func (f *fakeService) Delete(ctx context.Context, id string) error { return nil }

func TestHandler_TimeIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()

	t.Run("success caches response and releases lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		resp := attendance.AttendanceResponse{ID: uuid.New().String(), UserID: userID, Status: "PRESENT"}
		svc := &fakeService{
			timeInFn: func(ctx context.Context, uid, role string) (attendance.AttendanceResponse, error) {
				assert.Equal(t, userID, uid)
				return resp, nil
			},
		}
		h := attendance.NewHandler(svc, rdb)

		payload, err := json.Marshal(resp)
		assert.NoError(t, err)
		mock.ExpectSet("idemp:cache", payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel("idemp:cache:lock").SetVal(1)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", userID)
		c.Set("role", "USER")
		c.Set("idempotency_cache_key", "idemp:cache")
		c.Set("idempotency_lock_key", "idemp:cache:lock")
		c.Request = httptest.NewRequest(http.MethodPost, "/attendances/time-in", nil)

		h.TimeIn(c)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":true`)
		assert.Contains(t, w.Body.String(), "PRESENT")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate punch maps to the transition code", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &fakeService{
			timeInFn: func(ctx context.Context, uid, role string) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyTimedIn
			},
		}
		h := attendance.NewHandler(svc, rdb)

		mock.ExpectDel("idemp:cache:lock").SetVal(1)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", userID)
		c.Set("role", "USER")
		c.Set("idempotency_cache_key", "idemp:cache")
		c.Set("idempotency_lock_key", "idemp:cache:lock")
		c.Request = httptest.NewRequest(http.MethodPost, "/attendances/time-in", nil)

		h.TimeIn(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ALREADY_TIMED_IN")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recordID := uuid.New().String()

	t.Run("valid body reaches the service", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := &fakeService{
			adminUpdateFn: func(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, recordID, id)
				assert.NotNil(t, req.TimeIn)
				return attendance.AttendanceResponse{ID: id, Status: "PRESENT"}, nil
			},
		}
		h := attendance.NewHandler(svc, rdb)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: recordID}}
		c.Request = httptest.NewRequest(http.MethodPut, "/attendances/"+recordID,
			strings.NewReader(`{"time_in":"2025-03-03T09:00:00+08:00"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Update(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		h := attendance.NewHandler(&fakeService{}, rdb)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: recordID}}
		c.Request = httptest.NewRequest(http.MethodPut, "/attendances/"+recordID,
			strings.NewReader(`{"time_in":12345}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Update(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":false`)
	})
}

func TestHandler_LoginStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, _ := redismock.NewClientMock()
	svc := &fakeService{
		loginStatusFn: func(ctx context.Context) (attendance.LoginStatusResponse, error) {
			return attendance.LoginStatusResponse{
				LoggedIn:  []attendance.LoginStatusEntry{{UserID: uuid.NewString(), Username: "Jane Intern"}},
				LoggedOut: []attendance.LoginStatusEntry{},
			}, nil
		},
	}
	h := attendance.NewHandler(svc, rdb)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances/login-status", nil)

	h.LoginStatus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Intern")
}
