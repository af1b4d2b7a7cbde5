package adjustment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	adjustmenterrors "go-ojt/internal/adjustment/errors"
	"go-ojt/internal/attendance"
	"go-ojt/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, a *TimeAdjustment) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error)
	decideFn   func(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		createFn: func(ctx context.Context, a *TimeAdjustment) error { return nil },
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error) {
			return nil, gorm.ErrRecordNotFound
		},
		decideFn: func(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
			return true, nil
		},
	}
}

func (f *fakeRepo) Create(ctx context.Context, a *TimeAdjustment) error { return f.createFn(ctx, a) }
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]TimeAdjustment, error) {
	return nil, nil
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]TimeAdjustment, error) { return nil, nil }
func (f *fakeRepo) Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
	return f.decideFn(ctx, id, status, decidedBy, decidedAt)
}

type fakeAttendanceRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error)
}

func (f *fakeAttendanceRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }
func (f *fakeAttendanceRepo) Create(ctx context.Context, a *attendance.Attendance) error { return nil }
func (f *fakeAttendanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeAttendanceRepo) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*attendance.Attendance, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAttendanceRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) FindAll(ctx context.Context) ([]attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) FindAllByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) FindPunchedDatesInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]time.Time, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) Update(ctx context.Context, a *attendance.Attendance) error { return nil }
func (f *fakeAttendanceRepo) SetLunchOut(ctx context.Context, id uuid.UUID, t time.Time) (bool, error) {
	return true, nil
}
func (f *fakeAttendanceRepo) SetLunchIn(ctx context.Context, id uuid.UUID, t time.Time, lunchTardiness int, status string) (bool, error) {
	return true, nil
}
func (f *fakeAttendanceRepo) SetTimeOut(ctx context.Context, id uuid.UUID, t time.Time, straight, total float64) (bool, error) {
	return true, nil
}
func (f *fakeAttendanceRepo) UpdateHours(ctx context.Context, id uuid.UUID, straight, total float64) error {
	return nil
}
func (f *fakeAttendanceRepo) SumTotalWorkHours(ctx context.Context, userID uuid.UUID) (float64, error) {
	return 0, nil
}
func (f *fakeAttendanceRepo) UpsertOnLeave(ctx context.Context, userID uuid.UUID, date time.Time, leaveID uuid.UUID) error {
	return nil
}
func (f *fakeAttendanceRepo) DeleteByLeave(ctx context.Context, leaveID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeAttendanceRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeApplier struct {
	adminUpdateFn func(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error)
}

func (f *fakeApplier) TimeIn(ctx context.Context, userID, role string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeApplier) LunchOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeApplier) LunchIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeApplier) TimeOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeApplier) RecalculateHours(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeApplier) AdminUpdate(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error) {
	if f.adminUpdateFn != nil {
		return f.adminUpdateFn(ctx, id, req)
	}
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeApplier) GetUser(ctx context.Context, targetID, actorID, actorRole string) (attendance.UserAttendanceResponse, error) {
	return attendance.UserAttendanceResponse{}, nil
}
func (f *fakeApplier) GetAll(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	return nil, nil
}
func (f *fakeApplier) LoginStatus(ctx context.Context) (attendance.LoginStatusResponse, error) {
	return attendance.LoginStatusResponse{}, nil
}
func (f *fakeApplier) Delete(ctx context.Context, id string) error { return nil }

func tsp(t time.Time) *time.Time { return &t }

var testNow = time.Date(2025, 3, 4, 17, 0, 0, 0, clock.Org)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	attendanceID := uuid.New()

	ownRecord := func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
		return &attendance.Attendance{ID: attendanceID, UserID: userID}, nil
	}

	t.Run("requires at least one punch field", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakeAttendanceRepo{findByIDFn: ownRecord}, &fakeApplier{}, clock.Fixed(testNow))

		_, err := svc.Create(ctx, userID.String(), CreateAdjustmentRequest{
			AttendanceID: attendanceID.String(),
			Reason:       "forgot everything",
		})
		assert.ErrorIs(t, err, adjustmenterrors.ErrNoFields)
	})

	t.Run("only the record owner may file", func(t *testing.T) {
		other := uuid.New()
		repo := &fakeAttendanceRepo{findByIDFn: func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: attendanceID, UserID: other}, nil
		}}
		svc := NewService(newFakeRepo(), repo, &fakeApplier{}, clock.Fixed(testNow))

		_, err := svc.Create(ctx, userID.String(), CreateAdjustmentRequest{
			AttendanceID: attendanceID.String(),
			Reason:       "forgot to punch out",
			TimeOut:      tsp(time.Date(2025, 3, 3, 18, 0, 0, 0, clock.Org)),
		})
		assert.ErrorIs(t, err, adjustmenterrors.ErrNotOwner)
	})

	t.Run("pending request saved", func(t *testing.T) {
		repo := newFakeRepo()
		var saved TimeAdjustment
		repo.createFn = func(ctx context.Context, a *TimeAdjustment) error {
			saved = *a
			return nil
		}
		svc := NewService(repo, &fakeAttendanceRepo{findByIDFn: ownRecord}, &fakeApplier{}, clock.Fixed(testNow))

		resp, err := svc.Create(ctx, userID.String(), CreateAdjustmentRequest{
			AttendanceID: attendanceID.String(),
			Reason:       "forgot to punch out",
			TimeOut:      tsp(time.Date(2025, 3, 3, 18, 0, 0, 0, clock.Org)),
		})
		assert.NoError(t, err)
		assert.Equal(t, StatusPending, resp.Status)
		assert.Equal(t, attendanceID, saved.AttendanceID)
		assert.NotNil(t, saved.TimeOut)
	})
}

func TestService_Decide(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()
	attendanceID := uuid.New()
	adjustmentID := uuid.New()

	pending := func() *TimeAdjustment {
		return &TimeAdjustment{
			ID:           adjustmentID,
			UserID:       userID,
			AttendanceID: attendanceID,
			TimeOut:      tsp(time.Date(2025, 3, 3, 18, 0, 0, 0, clock.Org)),
			Reason:       "forgot to punch out",
			Status:       StatusPending,
		}
	}

	t.Run("approval applies punches through the edit path", func(t *testing.T) {
		repo := newFakeRepo()
		repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error) {
			return pending(), nil
		}

		applied := false
		applier := &fakeApplier{adminUpdateFn: func(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error) {
			applied = true
			assert.Equal(t, attendanceID.String(), id)
			assert.NotNil(t, req.TimeOut)
			assert.Nil(t, req.Status)
			return attendance.AttendanceResponse{}, nil
		}}
		svc := NewService(repo, &fakeAttendanceRepo{}, applier, clock.Fixed(testNow))

		resp, err := svc.Decide(ctx, adjustmentID.String(), adminID.String(), DecideAdjustmentRequest{Status: StatusApproved})
		assert.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, StatusApproved, resp.Status)
	})

	t.Run("rejection does not touch the record", func(t *testing.T) {
		repo := newFakeRepo()
		repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error) {
			return pending(), nil
		}
		applier := &fakeApplier{adminUpdateFn: func(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error) {
			t.Fatal("rejected adjustment must not edit attendance")
			return attendance.AttendanceResponse{}, nil
		}}
		svc := NewService(repo, &fakeAttendanceRepo{}, applier, clock.Fixed(testNow))

		resp, err := svc.Decide(ctx, adjustmentID.String(), adminID.String(), DecideAdjustmentRequest{Status: StatusRejected})
		assert.NoError(t, err)
		assert.Equal(t, StatusRejected, resp.Status)
	})

	t.Run("already decided", func(t *testing.T) {
		repo := newFakeRepo()
		decided := pending()
		decided.Status = StatusApproved
		repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error) {
			return decided, nil
		}
		svc := NewService(repo, &fakeAttendanceRepo{}, &fakeApplier{}, clock.Fixed(testNow))

		_, err := svc.Decide(ctx, adjustmentID.String(), adminID.String(), DecideAdjustmentRequest{Status: StatusRejected})
		assert.ErrorIs(t, err, adjustmenterrors.ErrAlreadyDecided)
	})

	t.Run("lost race on the decide update", func(t *testing.T) {
		repo := newFakeRepo()
		repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error) {
			return pending(), nil
		}
		repo.decideFn = func(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
			return false, nil
		}
		svc := NewService(repo, &fakeAttendanceRepo{}, &fakeApplier{}, clock.Fixed(testNow))

		_, err := svc.Decide(ctx, adjustmentID.String(), adminID.String(), DecideAdjustmentRequest{Status: StatusApproved})
		assert.ErrorIs(t, err, adjustmenterrors.ErrAlreadyDecided)
	})

	t.Run("invalid decision", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakeAttendanceRepo{}, &fakeApplier{}, clock.Fixed(testNow))

		_, err := svc.Decide(ctx, adjustmentID.String(), adminID.String(), DecideAdjustmentRequest{Status: "PERHAPS"})
		assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidDecision)
	})
}
