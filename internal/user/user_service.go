package user

import (
	"context"
	"errors"
	"time"

	usererrors "go-ojt/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttendanceHours is implemented by the attendance repository. It keeps the
// quota aggregation here without this package importing attendance.
type AttendanceHours interface {
	SumTotalWorkHours(ctx context.Context, userID uuid.UUID) (float64, error)
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetAdmins(ctx context.Context) ([]UserResponse, error)
	GetOJTHours(ctx context.Context, userID string) (OJTHoursResponse, error)
	UpdateOJTHours(ctx context.Context, userID string, req UpdateOJTHoursRequest) (OJTHoursResponse, error)
	RecalculateRemainingHours(ctx context.Context, userID uuid.UUID) (*float64, error)
	ChangeRole(ctx context.Context, actorID, targetID, role string) error
	ResignAdmin(ctx context.Context, actorID, targetID string) error
	ReinstateAdmin(ctx context.Context, actorID, targetID string) error
	UpdateInfo(ctx context.Context, targetID string, req UpdateInfoRequest) error
}

type service struct {
	repo   Repository
	hours  AttendanceHours
	logger *zap.Logger
}

func NewService(repo Repository, hours AttendanceHours, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, hours: hours, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetAdmins(ctx context.Context) ([]UserResponse, error) {
	admins, err := s.repo.FindAllByRole(ctx, RoleAdmin)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(admins), nil
}

func (s *service) GetOJTHours(ctx context.Context, userID string) (OJTHoursResponse, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return OJTHoursResponse{}, err
	}
	if u.Role != RoleUser {
		return OJTHoursResponse{}, usererrors.ErrNotIntern
	}
	return OJTHoursResponse{
		TotalOJTHours:      u.TotalOJTHours,
		RemainingWorkHours: u.RemainingWorkHours,
	}, nil
}

func (s *service) UpdateOJTHours(ctx context.Context, userID string, req UpdateOJTHoursRequest) (OJTHoursResponse, error) {
	if req.TotalOJTHours <= 0 {
		return OJTHoursResponse{}, usererrors.ErrInvalidOJTHours
	}

	u, err := s.findUser(ctx, userID)
	if err != nil {
		return OJTHoursResponse{}, err
	}
	if u.Role != RoleUser {
		return OJTHoursResponse{}, usererrors.ErrNotIntern
	}

	total := req.TotalOJTHours
	u.TotalOJTHours = &total
	if err := s.repo.Update(ctx, u); err != nil {
		return OJTHoursResponse{}, err
	}

	remaining, err := s.RecalculateRemainingHours(ctx, u.ID)
	if err != nil {
		return OJTHoursResponse{}, err
	}

	s.logger.Info("ojt hours updated",
		zap.String("user_id", userID),
		zap.Int("total_ojt_hours", total),
	)
	return OJTHoursResponse{
		TotalOJTHours:      u.TotalOJTHours,
		RemainingWorkHours: remaining,
	}, nil
}

// RecalculateRemainingHours re-derives the remaining quota from scratch on
// every call. The full re-sum makes concurrent invocations last-writer-wins
// safe: whichever finishes last wrote a value computed from a complete read.
func (s *service) RecalculateRemainingHours(ctx context.Context, userID uuid.UUID) (*float64, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}

	if u.TotalOJTHours == nil {
		// No quota assigned; remaining stays unset so clients can tell
		// "unset" apart from zero.
		if err := s.repo.UpdateRemainingHours(ctx, userID, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}

	worked, err := s.hours.SumTotalWorkHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	// No floor at zero: negative remaining signals over-quota work.
	remaining := float64(*u.TotalOJTHours) - worked
	if err := s.repo.UpdateRemainingHours(ctx, userID, &remaining); err != nil {
		return nil, err
	}

	s.logger.Debug("remaining hours recalculated",
		zap.String("user_id", userID.String()),
		zap.Float64("worked", worked),
		zap.Float64("remaining", remaining),
	)
	return &remaining, nil
}

func (s *service) ChangeRole(ctx context.Context, actorID, targetID, role string) error {
	if actorID == targetID {
		return usererrors.ErrSelfTarget
	}
	if role != RoleAdmin && role != RoleUser {
		return usererrors.ErrInvalidRole
	}

	u, err := s.findUser(ctx, targetID)
	if err != nil {
		return err
	}
	if role == RoleAdmin && u.ResignedAt != nil {
		return usererrors.ErrPromoteResigned
	}

	u.Role = role
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.logger.Info("user role changed",
		zap.String("user_id", targetID),
		zap.String("role", role),
	)
	return nil
}

func (s *service) ResignAdmin(ctx context.Context, actorID, targetID string) error {
	return s.setResigned(ctx, actorID, targetID, true)
}

func (s *service) ReinstateAdmin(ctx context.Context, actorID, targetID string) error {
	return s.setResigned(ctx, actorID, targetID, false)
}

func (s *service) setResigned(ctx context.Context, actorID, targetID string, resigned bool) error {
	if actorID == targetID {
		return usererrors.ErrSelfTarget
	}

	u, err := s.findUser(ctx, targetID)
	if err != nil {
		return err
	}
	if u.Role != RoleAdmin {
		return usererrors.ErrAdminNotFound
	}

	if resigned {
		now := time.Now().UTC()
		u.ResignedAt = &now
	} else {
		u.ResignedAt = nil
	}
	return s.repo.Update(ctx, u)
}

func (s *service) UpdateInfo(ctx context.Context, targetID string, req UpdateInfoRequest) error {
	u, err := s.findUser(ctx, targetID)
	if err != nil {
		return err
	}

	if req.Department != nil {
		u.Department = req.Department
	}
	if req.Position != nil {
		u.Position = req.Position
	}
	if req.Supervisor != nil {
		u.Supervisor = req.Supervisor
	}
	if req.Manager != nil {
		u.Manager = req.Manager
	}
	return s.repo.Update(ctx, u)
}

func (s *service) findUser(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:                 u.ID.String(),
		Username:           u.Username,
		Email:              u.Email,
		Role:               u.Role,
		TotalOJTHours:      u.TotalOJTHours,
		RemainingWorkHours: u.RemainingWorkHours,
		OnLeave:            u.OnLeave,
		UseCustomSchedule:  u.UseCustomSchedule,
		Department:         u.Department,
		Position:           u.Position,
		Supervisor:         u.Supervisor,
		Manager:            u.Manager,
	}
	if u.ResignedAt != nil {
		v := u.ResignedAt.Format(time.RFC3339)
		resp.ResignedAt = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
