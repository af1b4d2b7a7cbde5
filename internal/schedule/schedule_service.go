package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	scheduleerrors "go-ojt/internal/schedule/errors"
	"go-ojt/internal/shared/clock"
	"go-ojt/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Default weekday windows, wall clock in the org timezone. Wednesday runs
// the extended shift.
const (
	defaultStartTime   = "09:00"
	defaultEndTime     = "18:00"
	wednesdayStartTime = "10:00"
	wednesdayEndTime   = "19:00"
)

// Resolver is the narrow read side consumed by the attendance service.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, date time.Time) (*Window, error)
}

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	Resolver
	SetSchedules(ctx context.Context, req SetScheduleRequest) (SetScheduleResponse, error)
	GetToday(ctx context.Context, userID string) (*TodayScheduleResponse, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	users  user.Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{repo: repo, users: users, clk: clk, logger: l}
}

// Resolve returns the authoritative work window for (user, date), or nil
// for Saturday/Sunday. Expired custom schedules for the user are purged
// first, so a stale override can never win.
func (s *service) Resolve(ctx context.Context, userID uuid.UUID, date time.Time) (*Window, error) {
	day := clock.StartOfDay(date)
	weekday := day.Weekday()

	if weekday == time.Saturday || weekday == time.Sunday {
		return nil, nil
	}

	today := clock.StartOfDay(s.clk.Now())
	if err := s.repo.DeleteExpired(ctx, userID, today); err != nil {
		return nil, err
	}

	custom, err := s.repo.FindByUserAndDate(ctx, userID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		return windowFromWallClock(day, custom.StartTime, custom.EndTime)
	}

	if weekday == time.Wednesday {
		return windowFromWallClock(day, wednesdayStartTime, wednesdayEndTime)
	}
	return windowFromWallClock(day, defaultStartTime, defaultEndTime)
}

func (s *service) SetSchedules(ctx context.Context, req SetScheduleRequest) (SetScheduleResponse, error) {
	if _, err := parseWallClock(req.StartTime); err != nil {
		return SetScheduleResponse{}, err
	}
	if _, err := parseWallClock(req.EndTime); err != nil {
		return SetScheduleResponse{}, err
	}
	if req.StartTime >= req.EndTime {
		return SetScheduleResponse{}, scheduleerrors.ErrEndBeforeStart
	}

	scheduleDate, err := time.ParseInLocation("2006-01-02", req.Date, clock.Org)
	if err != nil {
		return SetScheduleResponse{}, scheduleerrors.ErrInvalidDateFormat
	}

	userIDs, err := s.resolveTargets(ctx, req.UserID)
	if err != nil {
		return SetScheduleResponse{}, err
	}

	weekday := int(scheduleDate.Weekday())
	for _, id := range userIDs {
		row := &UserSchedule{
			ID:           uuid.New(),
			UserID:       id,
			Weekday:      weekday,
			ScheduleDate: scheduleDate,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
		}
		if err := s.repo.Upsert(ctx, row); err != nil {
			return SetScheduleResponse{}, err
		}
	}

	if err := s.users.SetUseCustomSchedule(ctx, userIDs, true); err != nil {
		return SetScheduleResponse{}, err
	}

	s.logger.Info("custom schedules saved",
		zap.Int("users", len(userIDs)),
		zap.String("date", req.Date),
		zap.String("start_time", req.StartTime),
		zap.String("end_time", req.EndTime),
	)
	return SetScheduleResponse{UpdatedUsers: len(userIDs)}, nil
}

// resolveTargets expands "ALL" to every intern, otherwise parses a
// comma-separated id list and drops ids that do not exist.
func (s *service) resolveTargets(ctx context.Context, raw string) ([]uuid.UUID, error) {
	if raw == "ALL" {
		interns, err := s.users.FindAllByRole(ctx, user.RoleUser)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(interns))
		for i, u := range interns {
			ids[i] = u.ID
		}
		if len(ids) == 0 {
			return nil, scheduleerrors.ErrNoValidUsers
		}
		return ids, nil
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, scheduleerrors.ErrNoValidUsers
	}

	existing, err := s.users.FilterExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, scheduleerrors.ErrNoValidUsers
	}
	return existing, nil
}

func (s *service) GetToday(ctx context.Context, userID string) (*TodayScheduleResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, scheduleerrors.ErrNoValidUsers
	}

	window, err := s.Resolve(ctx, uid, s.clk.Now())
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, nil
	}
	return &TodayScheduleResponse{
		StartTime: window.StartTime(),
		EndTime:   window.EndTime(),
	}, nil
}

func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	today := clock.StartOfDay(s.clk.Now())
	deleted, err := s.repo.DeleteAllExpired(ctx, today)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("expired schedules purged", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// windowFromWallClock anchors "HH:MM" strings to a calendar day in the org
// timezone. The result never depends on server-local time.
func windowFromWallClock(day time.Time, startTime, endTime string) (*Window, error) {
	start, err := parseWallClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := parseWallClock(endTime)
	if err != nil {
		return nil, err
	}

	return &Window{
		Start: time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, clock.Org),
		End:   time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, clock.Org),
	}, nil
}

func parseWallClock(v string) (time.Time, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, scheduleerrors.ErrInvalidTimeFormat
	}
	return t, nil
}
