package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-ojt/internal/attendance"
	"go-ojt/internal/events"
	leaveerrors "go-ojt/internal/leave/errors"
	"go-ojt/internal/messaging/kafka"
	"go-ojt/internal/shared/clock"
	"go-ojt/internal/shared/contextutil"
	"go-ojt/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetMine(ctx context.Context, userID string) ([]LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	Decide(ctx context.Context, leaveID, actorID string, req DecideLeaveRequest) (DecideLeaveResponse, error)
	Delete(ctx context.Context, leaveID, actorID, role string) error
	RefreshOnLeaveFlag(ctx context.Context, userID uuid.UUID) error
	RefreshAllOnLeaveFlags(ctx context.Context) (int, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	attendances attendance.Repository
	users       user.Repository
	outbox      kafka.OutboxRepository
	clk         clock.Clock
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	attendances attendance.Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		attendances: attendances,
		users:       users,
		outbox:      outbox,
		clk:         clk,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, clock.Org)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, clock.Org)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	coverage := req.Coverage
	if coverage == "" {
		coverage = CoverageFullDay
	}
	if !ValidCoverage(coverage) {
		return LeaveResponse{}, leaveerrors.ErrInvalidCoverage
	}

	overlap, err := s.repo.HasOpenOverlap(ctx, uid, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	row := &Leave{
		ID:         uuid.New(),
		UserID:     uid,
		StartDate:  start,
		EndDate:    end,
		Coverage:   coverage,
		LeaveType:  req.LeaveType,
		Reason:     req.Reason,
		Attachment: req.Attachment,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave requested",
		zap.String("leave_id", row.ID.String()),
		zap.String("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetMine(ctx context.Context, userID string) ([]LeaveResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidUserID
	}
	rows, err := s.repo.FindAllByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// Decide settles a pending request. Approval materializes ON_LEAVE rows for
// the covered weekdays; days that already hold punch data are skipped and
// reported back instead of overwritten.
func (s *service) Decide(ctx context.Context, leaveID, actorID string, req DecideLeaveRequest) (DecideLeaveResponse, error) {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return DecideLeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return DecideLeaveResponse{}, leaveerrors.ErrInvalidUserID
	}
	if req.Status != StatusApproved && req.Status != StatusRejected {
		return DecideLeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecideLeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return DecideLeaveResponse{}, err
	}
	if row.Status != StatusPending {
		return DecideLeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := s.clk.Now().In(clock.Org)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecideLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ok, err := qtx.Decide(ctx, id, req.Status, actor, now)
	if err != nil {
		return DecideLeaveResponse{}, err
	}
	if !ok {
		return DecideLeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}
	if err := s.enqueueDecidedEvent(ctx, tx, row, req.Status, now); err != nil {
		return DecideLeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DecideLeaveResponse{}, err
	}

	row.Status = req.Status
	row.DecidedBy = &actor
	row.DecidedAt = &now

	var skipped []string
	if req.Status == StatusApproved {
		skipped, err = s.materialize(ctx, row)
		if err != nil {
			return DecideLeaveResponse{}, err
		}
	}

	if err := s.RefreshOnLeaveFlag(ctx, row.UserID); err != nil {
		return DecideLeaveResponse{}, err
	}

	s.logger.Info("leave decided",
		zap.String("leave_id", leaveID),
		zap.String("user_id", row.UserID.String()),
		zap.String("status", req.Status),
		zap.Int("skipped_dates", len(skipped)),
	)
	return DecideLeaveResponse{Leave: mapToResponse(*row), SkippedDates: skipped}, nil
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *sql.Tx, row *Leave, status string, decidedAt time.Time) error {
	evt := events.LeaveDecidedEvent{
		EventType:  "leave_decided",
		LeaveID:    row.ID.String(),
		UserID:     row.UserID.String(),
		Status:     status,
		StartDate:  row.StartDate.Format("2006-01-02"),
		EndDate:    row.EndDate.Format("2006-01-02"),
		OccurredAt: decidedAt.UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   row.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// Delete withdraws a request. Interns may only withdraw their own; an
// approved leave also tears down its materialized rows.
func (s *service) Delete(ctx context.Context, leaveID, actorID, role string) error {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if role != user.RoleAdmin && row.UserID.String() != actorID {
		return leaveerrors.ErrNotOwner
	}

	if row.Status == StatusApproved {
		removed, err := s.attendances.DeleteByLeave(ctx, id)
		if err != nil {
			return err
		}
		s.logger.Info("materialized leave rows removed",
			zap.String("leave_id", leaveID),
			zap.Int64("removed", removed),
		)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.RefreshOnLeaveFlag(ctx, row.UserID)
}

// RefreshOnLeaveFlag recomputes whether an approved leave covers today and
// stores the answer on the user row.
func (s *service) RefreshOnLeaveFlag(ctx context.Context, userID uuid.UUID) error {
	today := clock.StartOfDay(s.clk.Now())
	onLeave, err := s.repo.HasApprovedLeaveOn(ctx, userID, today)
	if err != nil {
		return err
	}
	return s.users.SetOnLeave(ctx, userID, onLeave)
}

// RefreshAllOnLeaveFlags sweeps every intern. The worker runs this daily so
// flags roll over at midnight without any request traffic.
func (s *service) RefreshAllOnLeaveFlags(ctx context.Context) (int, error) {
	interns, err := s.users.FindAllByRole(ctx, user.RoleUser)
	if err != nil {
		return 0, err
	}
	for _, u := range interns {
		if err := s.RefreshOnLeaveFlag(ctx, u.ID); err != nil {
			return 0, err
		}
	}
	return len(interns), nil
}
