package adjustment

import (
	"context"
	"errors"

	adjustmenterrors "go-ojt/internal/adjustment/errors"
	"go-ojt/internal/attendance"
	"go-ojt/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	GetMine(ctx context.Context, userID string) ([]AdjustmentResponse, error)
	GetAll(ctx context.Context) ([]AdjustmentResponse, error)
	Decide(ctx context.Context, adjustmentID, actorID string, req DecideAdjustmentRequest) (AdjustmentResponse, error)
}

type service struct {
	repo        Repository
	attendances attendance.Repository
	applier     attendance.Service
	clk         clock.Clock
	logger      *zap.Logger
}

func NewService(
	repo Repository,
	attendances attendance.Repository,
	applier attendance.Service,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("adjustment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("adjustment.service")
	}
	return &service{
		repo:        repo,
		attendances: attendances,
		applier:     applier,
		clk:         clk,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateAdjustmentRequest) (AdjustmentResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidUserID
	}
	if req.TimeIn == nil && req.LunchOut == nil && req.LunchIn == nil &&
		req.BreakOut == nil && req.BreakIn == nil && req.TimeOut == nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrNoFields
	}

	attID, err := uuid.Parse(req.AttendanceID)
	if err != nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrAdjustmentNotFound
	}
	att, err := s.attendances.FindByID(ctx, attID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, adjustmenterrors.ErrAdjustmentNotFound
		}
		return AdjustmentResponse{}, err
	}
	if att.UserID != uid {
		return AdjustmentResponse{}, adjustmenterrors.ErrNotOwner
	}

	row := &TimeAdjustment{
		ID:           uuid.New(),
		UserID:       uid,
		AttendanceID: attID,
		TimeIn:       req.TimeIn,
		LunchOut:     req.LunchOut,
		LunchIn:      req.LunchIn,
		BreakOut:     req.BreakOut,
		BreakIn:      req.BreakIn,
		TimeOut:      req.TimeOut,
		Reason:       req.Reason,
		Status:       StatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return AdjustmentResponse{}, err
	}

	s.logger.Info("time adjustment requested",
		zap.String("adjustment_id", row.ID.String()),
		zap.String("user_id", userID),
		zap.String("attendance_id", req.AttendanceID),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetMine(ctx context.Context, userID string) ([]AdjustmentResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, adjustmenterrors.ErrInvalidUserID
	}
	rows, err := s.repo.FindAllByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAll(ctx context.Context) ([]AdjustmentResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// Decide settles a pending adjustment. Approval pushes the requested punches
// through the attendance edit path so status, tardiness and hours re-derive
// exactly as if an admin had typed them in.
func (s *service) Decide(ctx context.Context, adjustmentID, actorID string, req DecideAdjustmentRequest) (AdjustmentResponse, error) {
	id, err := uuid.Parse(adjustmentID)
	if err != nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidAdjustmentID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidUserID
	}
	if req.Status != StatusApproved && req.Status != StatusRejected {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidDecision
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, adjustmenterrors.ErrAdjustmentNotFound
		}
		return AdjustmentResponse{}, err
	}
	if row.Status != StatusPending {
		return AdjustmentResponse{}, adjustmenterrors.ErrAlreadyDecided
	}

	now := s.clk.Now().In(clock.Org)
	ok, err := s.repo.Decide(ctx, id, req.Status, actor, now)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if !ok {
		return AdjustmentResponse{}, adjustmenterrors.ErrAlreadyDecided
	}

	if req.Status == StatusApproved {
		_, err := s.applier.AdminUpdate(ctx, row.AttendanceID.String(), attendance.AdminUpdateRequest{
			TimeIn:   row.TimeIn,
			LunchOut: row.LunchOut,
			LunchIn:  row.LunchIn,
			BreakOut: row.BreakOut,
			BreakIn:  row.BreakIn,
			TimeOut:  row.TimeOut,
		})
		if err != nil {
			return AdjustmentResponse{}, err
		}
	}

	row.Status = req.Status
	row.DecidedBy = &actor
	row.DecidedAt = &now

	s.logger.Info("time adjustment decided",
		zap.String("adjustment_id", adjustmentID),
		zap.String("status", req.Status),
	)
	return mapToResponse(*row), nil
}
