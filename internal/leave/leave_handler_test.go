package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ojt/internal/leave"
	leaveerrors "go-ojt/internal/leave/errors"
	"go-ojt/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn  func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getMineFn func(ctx context.Context, userID string) ([]leave.LeaveResponse, error)
	getAllFn  func(ctx context.Context) ([]leave.LeaveResponse, error)
	decideFn  func(ctx context.Context, leaveID, actorID string, req leave.DecideLeaveRequest) (leave.DecideLeaveResponse, error)
}

func (f *fakeService) Create(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, userID, req)
}
func (f *fakeService) GetMine(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
	return f.getMineFn(ctx, userID)
}
func (f *fakeService) GetAll(ctx context.Context) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeService) Decide(ctx context.Context, leaveID, actorID string, req leave.DecideLeaveRequest) (leave.DecideLeaveResponse, error) {
	return f.decideFn(ctx, leaveID, actorID, req)
}
func (f *fakeService) Delete(ctx context.Context, leaveID, actorID, role string) error { return nil }
func (f *fakeService) RefreshOnLeaveFlag(ctx context.Context, userID uuid.UUID) error  { return nil }
func (f *fakeService) RefreshAllOnLeaveFlags(ctx context.Context) (int, error)         { return 0, nil }

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()

	t.Run("created", func(t *testing.T) {
		svc := &fakeService{
			createFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, "2025-03-07", req.StartDate)
				return leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending}, nil
			},
		}
		h := leave.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", userID)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves",
			strings.NewReader(`{"start_date":"2025-03-07","end_date":"2025-03-10","coverage":"FULL_DAY","reason":"family matters"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), leave.StatusPending)
	})

	t.Run("missing reason fails validation", func(t *testing.T) {
		h := leave.NewHandler(&fakeService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", userID)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves",
			strings.NewReader(`{"start_date":"2025-03-07","end_date":"2025-03-10"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":false`)
	})
}

func TestHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()

	t.Run("admins see everything", func(t *testing.T) {
		svc := &fakeService{
			getAllFn: func(ctx context.Context) ([]leave.LeaveResponse, error) {
				return []leave.LeaveResponse{{ID: uuid.NewString()}, {ID: uuid.NewString()}}, nil
			},
			getMineFn: func(ctx context.Context, uid string) ([]leave.LeaveResponse, error) {
				t.Fatal("admin listing must not fall back to own requests")
				return nil, nil
			},
		}
		h := leave.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("role", user.RoleAdmin)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)

		h.List(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("interns see their own", func(t *testing.T) {
		svc := &fakeService{
			getMineFn: func(ctx context.Context, uid string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, userID, uid)
				return []leave.LeaveResponse{{ID: uuid.NewString()}}, nil
			},
		}
		h := leave.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("role", user.RoleUser)
		c.Set("user_id_validated", userID)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)

		h.List(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_Decide(t *testing.T) {
	gin.SetMode(gin.TestMode)
	leaveID := uuid.New().String()
	adminID := uuid.New().String()

	t.Run("approved with skipped dates", func(t *testing.T) {
		svc := &fakeService{
			decideFn: func(ctx context.Context, lid, actorID string, req leave.DecideLeaveRequest) (leave.DecideLeaveResponse, error) {
				assert.Equal(t, leaveID, lid)
				assert.Equal(t, adminID, actorID)
				assert.Equal(t, leave.StatusApproved, req.Status)
				return leave.DecideLeaveResponse{
					Leave:        leave.LeaveResponse{ID: lid, Status: leave.StatusApproved},
					SkippedDates: []string{"2025-03-07"},
				}, nil
			},
		}
		h := leave.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", adminID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/decide",
			strings.NewReader(`{"status":"APPROVED"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Decide(c)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "2025-03-07")
	})

	t.Run("double decision conflicts", func(t *testing.T) {
		svc := &fakeService{
			decideFn: func(ctx context.Context, lid, actorID string, req leave.DecideLeaveRequest) (leave.DecideLeaveResponse, error) {
				return leave.DecideLeaveResponse{}, leaveerrors.ErrAlreadyDecided
			},
		}
		h := leave.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", adminID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/decide",
			strings.NewReader(`{"status":"REJECTED"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Decide(c)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
