package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	attendanceerrors "go-ojt/internal/attendance/errors"
	"go-ojt/internal/events"
	"go-ojt/internal/messaging/kafka"
	"go-ojt/internal/schedule"
	"go-ojt/internal/shared/clock"
	"go-ojt/internal/shared/contextutil"
	"go-ojt/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaveChecker is implemented by the leave repository. Declared here so this
// package never imports leave; leave imports attendance for the
// materialization side.
type LeaveChecker interface {
	HasApprovedLeaveOn(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
}

// QuotaRecalculator is implemented by the user service.
type QuotaRecalculator interface {
	RecalculateRemainingHours(ctx context.Context, userID uuid.UUID) (*float64, error)
}

// UserDirectory is the slice of the user repository the login status board
// needs.
type UserDirectory interface {
	FindAllByRole(ctx context.Context, role string) ([]user.User, error)
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	TimeIn(ctx context.Context, userID, role string) (AttendanceResponse, error)
	LunchOut(ctx context.Context, userID string) (AttendanceResponse, error)
	LunchIn(ctx context.Context, userID string) (AttendanceResponse, error)
	TimeOut(ctx context.Context, userID string) (AttendanceResponse, error)
	RecalculateHours(ctx context.Context, id uuid.UUID) (*Attendance, error)
	AdminUpdate(ctx context.Context, id string, req AdminUpdateRequest) (AttendanceResponse, error)
	GetUser(ctx context.Context, targetID, actorID, actorRole string) (UserAttendanceResponse, error)
	GetAll(ctx context.Context) ([]AttendanceResponse, error)
	LoginStatus(ctx context.Context) (LoginStatusResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	schedules schedule.Resolver
	leaves    LeaveChecker
	quotas    QuotaRecalculator
	users     UserDirectory
	outbox    kafka.OutboxRepository
	clk       clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	schedules schedule.Resolver,
	leaves LeaveChecker,
	quotas QuotaRecalculator,
	users UserDirectory,
	outbox kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		schedules: schedules,
		leaves:    leaves,
		quotas:    quotas,
		users:     users,
		outbox:    outbox,
		clk:       clk,
		logger:    l,
	}
}

func (s *service) TimeIn(ctx context.Context, userID, role string) (AttendanceResponse, error) {
	if role == user.RoleAdmin {
		return AttendanceResponse{}, attendanceerrors.ErrAdminNoAttendance
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	now := s.clk.Now().In(clock.Org)
	today := clock.StartOfDay(now)

	onLeave, err := s.leaves.HasApprovedLeaveOn(ctx, uid, today)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if onLeave {
		return AttendanceResponse{}, attendanceerrors.ErrOnLeave
	}

	window, err := s.schedules.Resolve(ctx, uid, now)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if window == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoSchedule
	}

	existing, err := s.repo.FindByUserAndDate(ctx, uid, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil {
		if existing.TimeIn != nil {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyTimedIn
		}
		// A row without punch data is a leave marker.
		return AttendanceResponse{}, attendanceerrors.ErrOnLeave
	}

	derived := DeriveStatus(&now, window.Start, nil, nil, nil, nil, Computed())
	row := &Attendance{
		ID:               uuid.New(),
		UserID:           uid,
		Date:             today,
		TimeIn:           &now,
		Status:           derived.Status,
		TardinessMinutes: derived.TardinessMinutes,
	}

	// The unique (user_id, date) index settles concurrent time-ins; the
	// loser's insert comes back as a 23505.
	if err := s.repo.Create(ctx, row); err != nil {
		if isDuplicateAttendance(err) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyTimedIn
		}
		return AttendanceResponse{}, err
	}

	s.logger.Info("timed in",
		zap.String("user_id", userID),
		zap.String("status", row.Status),
		zap.Int("tardiness_minutes", row.TardinessMinutes),
	)
	return mapToResponse(*row), nil
}

func (s *service) LunchOut(ctx context.Context, userID string) (AttendanceResponse, error) {
	row, err := s.findToday(ctx, userID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	switch StateOf(row) {
	case StateNotStarted:
		return AttendanceResponse{}, attendanceerrors.ErrNotTimedIn
	case StateTimedOut:
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyTimedOut
	case StateOnLunch, StateBackFromLunch:
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyOut
	}

	now := s.clk.Now().In(clock.Org)
	ok, err := s.repo.SetLunchOut(ctx, row.ID, now)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyOut
	}

	row.LunchOut = &now
	return mapToResponse(*row), nil
}

func (s *service) LunchIn(ctx context.Context, userID string) (AttendanceResponse, error) {
	row, err := s.findToday(ctx, userID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	switch StateOf(row) {
	case StateNotStarted:
		return AttendanceResponse{}, attendanceerrors.ErrNotTimedIn
	case StateTimedOut:
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyTimedOut
	case StateTimedIn:
		return AttendanceResponse{}, attendanceerrors.ErrNotOutForLunch
	case StateBackFromLunch:
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyBack
	}

	now := s.clk.Now().In(clock.Org)
	overage := LunchOverage(*row.LunchOut, now)
	status := StatusPresent
	if row.TardinessMinutes > 0 || row.BreakTardinessMinutes > 0 || overage > 0 {
		status = StatusTardy
	}

	ok, err := s.repo.SetLunchIn(ctx, row.ID, now, overage, status)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyBack
	}

	row.LunchIn = &now
	row.LunchTardinessMinutes = overage
	row.Status = status
	if overage > 0 {
		s.logger.Info("lunch overage recorded",
			zap.String("user_id", userID),
			zap.Int("overage_minutes", overage),
		)
	}
	return mapToResponse(*row), nil
}

func (s *service) TimeOut(ctx context.Context, userID string) (AttendanceResponse, error) {
	row, err := s.findToday(ctx, userID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	switch StateOf(row) {
	case StateNotStarted:
		return AttendanceResponse{}, attendanceerrors.ErrNotTimedIn
	case StateTimedOut:
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyTimedOut
	case StateOnLunch:
		return AttendanceResponse{}, attendanceerrors.ErrLunchNotClosed
	}

	now := s.clk.Now().In(clock.Org)
	window, err := s.schedules.Resolve(ctx, row.UserID, row.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	straight, total := computeHours(*row.TimeIn, now, window, row.LunchOut, row.LunchIn)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ok, err := qtx.SetTimeOut(ctx, row.ID, now, straight, total)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyTimedOut
	}

	if err := s.enqueueClosedEvent(ctx, tx, row, now, total); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	row.TimeOut = &now
	row.StraightWorkHours = &straight
	row.TotalWorkHours = &total

	// Inline refresh; the closed event is the retry path if this fails.
	if _, err := s.quotas.RecalculateRemainingHours(ctx, row.UserID); err != nil {
		s.logger.Warn("remaining hours refresh failed after time out",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	s.logger.Info("timed out",
		zap.String("user_id", userID),
		zap.Float64("straight_work_hours", straight),
		zap.Float64("total_work_hours", total),
	)
	return mapToResponse(*row), nil
}

func (s *service) enqueueClosedEvent(ctx context.Context, tx *sql.Tx, row *Attendance, closedAt time.Time, total float64) error {
	evt := events.AttendanceClosedEvent{
		EventType:      "attendance_closed",
		AttendanceID:   row.ID.String(),
		UserID:         row.UserID.String(),
		Date:           row.Date.Format("2006-01-02"),
		TotalWorkHours: total,
		OccurredAt:     closedAt.UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance",
		AggregateID:   row.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.AttendanceClosedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// RecalculateHours re-derives both hour figures for a closed record and
// refreshes the owner's remaining quota. Records still open pass through
// unchanged.
func (s *service) RecalculateHours(ctx context.Context, id uuid.UUID) (*Attendance, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrAttendanceNotFound
		}
		return nil, err
	}
	if row.TimeIn == nil || row.TimeOut == nil {
		return row, nil
	}

	window, err := s.schedules.Resolve(ctx, row.UserID, row.Date)
	if err != nil {
		return nil, err
	}

	straight, total := computeHours(*row.TimeIn, *row.TimeOut, window, row.LunchOut, row.LunchIn)
	if err := s.repo.UpdateHours(ctx, id, straight, total); err != nil {
		return nil, err
	}
	row.StraightWorkHours = &straight
	row.TotalWorkHours = &total

	if _, err := s.quotas.RecalculateRemainingHours(ctx, row.UserID); err != nil {
		return nil, err
	}
	return row, nil
}

// AdminUpdate merges the supplied punch fields into the record, re-derives
// status and tardiness, then recomputes hours. An explicit status in the
// request wins over the derived one.
func (s *service) AdminUpdate(ctx context.Context, id string, req AdminUpdateRequest) (AttendanceResponse, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
	}
	row, err := s.repo.FindByID(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}

	if req.TimeIn != nil {
		row.TimeIn = req.TimeIn
	}
	if req.LunchOut != nil {
		row.LunchOut = req.LunchOut
	}
	if req.LunchIn != nil {
		row.LunchIn = req.LunchIn
	}
	if req.BreakOut != nil {
		row.BreakOut = req.BreakOut
	}
	if req.BreakIn != nil {
		row.BreakIn = req.BreakIn
	}
	if req.TimeOut != nil {
		row.TimeOut = req.TimeOut
	}
	if err := validatePunchOrder(row); err != nil {
		return AttendanceResponse{}, err
	}

	status := row.Status
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
		}
		status = *req.Status
	}

	window, err := s.schedules.Resolve(ctx, row.UserID, row.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	schedStart := defaultScheduleStart(row.Date)
	if window != nil {
		schedStart = window.Start
	}

	derived := DeriveStatus(row.TimeIn, schedStart, row.LunchOut, row.LunchIn, row.BreakOut, row.BreakIn, AdminOverride(status))
	row.Status = derived.Status
	row.TardinessMinutes = derived.TardinessMinutes
	row.LunchTardinessMinutes = derived.LunchTardinessMinutes
	row.BreakTardinessMinutes = derived.BreakTardinessMinutes

	if row.TimeIn != nil && row.TimeOut != nil {
		straight, total := computeHours(*row.TimeIn, *row.TimeOut, window, row.LunchOut, row.LunchIn)
		row.StraightWorkHours = &straight
		row.TotalWorkHours = &total
	} else {
		row.StraightWorkHours = nil
		row.TotalWorkHours = nil
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if _, err := s.quotas.RecalculateRemainingHours(ctx, row.UserID); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance edited",
		zap.String("attendance_id", id),
		zap.String("user_id", row.UserID.String()),
		zap.String("status", row.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetUser(ctx context.Context, targetID, actorID, actorRole string) (UserAttendanceResponse, error) {
	if actorRole != user.RoleAdmin && targetID != actorID {
		return UserAttendanceResponse{}, attendanceerrors.ErrAdminNoAttendance
	}
	uid, err := uuid.Parse(targetID)
	if err != nil {
		return UserAttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	rows, err := s.repo.FindAllByUser(ctx, uid)
	if err != nil {
		return UserAttendanceResponse{}, err
	}
	return UserAttendanceResponse{
		Records:  mapToListResponse(rows),
		WorkDays: countWorkDays(rows),
	}, nil
}

func (s *service) GetAll(ctx context.Context) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// LoginStatus splits today's interns into those with an open or closed punch
// and those who never timed in.
func (s *service) LoginStatus(ctx context.Context) (LoginStatusResponse, error) {
	interns, err := s.users.FindAllByRole(ctx, user.RoleUser)
	if err != nil {
		return LoginStatusResponse{}, err
	}

	today := clock.StartOfDay(s.clk.Now())
	rows, err := s.repo.FindAllByDate(ctx, today)
	if err != nil {
		return LoginStatusResponse{}, err
	}

	byUser := make(map[uuid.UUID]Attendance, len(rows))
	for _, a := range rows {
		byUser[a.UserID] = a
	}

	resp := LoginStatusResponse{
		LoggedIn:  []LoginStatusEntry{},
		LoggedOut: []LoginStatusEntry{},
	}
	for _, u := range interns {
		entry := LoginStatusEntry{UserID: u.ID.String(), Username: u.Username}
		if a, ok := byUser[u.ID]; ok && a.TimeIn != nil {
			entry.TimeIn = fmtTime(a.TimeIn)
			resp.LoggedIn = append(resp.LoggedIn, entry)
			continue
		}
		resp.LoggedOut = append(resp.LoggedOut, entry)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid, err := uuid.Parse(id)
	if err != nil {
		return attendanceerrors.ErrAttendanceNotFound
	}
	row, err := s.repo.FindByID(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendanceerrors.ErrAttendanceNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, rid); err != nil {
		return err
	}
	if _, err := s.quotas.RecalculateRemainingHours(ctx, row.UserID); err != nil {
		return err
	}
	s.logger.Info("attendance deleted",
		zap.String("attendance_id", id),
		zap.String("user_id", row.UserID.String()),
	)
	return nil
}

func (s *service) findToday(ctx context.Context, userID string) (*Attendance, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidUserID
	}
	today := clock.StartOfDay(s.clk.Now())

	row, err := s.repo.FindByUserAndDate(ctx, uid, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrNotTimedIn
		}
		return nil, err
	}
	return row, nil
}

// computeHours returns (straight, total), both rounded to 2 decimals.
// Straight is the raw punch delta. Total clips the punches to the schedule
// window, subtracts the actual lunch, and never goes below zero. With no
// window the punches themselves bound the day.
func computeHours(timeIn, timeOut time.Time, window *schedule.Window, lunchOut, lunchIn *time.Time) (float64, float64) {
	straight := timeOut.Sub(timeIn).Minutes() / 60
	if straight < 0 {
		straight = 0
	}

	start, end := timeIn, timeOut
	if window != nil {
		if window.Start.After(start) {
			start = window.Start
		}
		if window.End.Before(end) {
			end = window.End
		}
	}
	worked := end.Sub(start).Minutes()
	if worked < 0 {
		worked = 0
	}

	var lunch float64
	if lunchOut != nil && lunchIn != nil {
		lunch = lunchIn.Sub(*lunchOut).Minutes()
		if lunch < 0 {
			lunch = 0
		}
	}

	total := (worked - lunch) / 60
	if total < 0 {
		total = 0
	}
	return round2(straight), round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func countWorkDays(rows []Attendance) int {
	n := 0
	for _, a := range rows {
		if a.TimeIn != nil {
			n++
		}
	}
	return n
}

func validatePunchOrder(a *Attendance) error {
	if a.TimeIn == nil && (a.LunchOut != nil || a.TimeOut != nil) {
		return attendanceerrors.ErrInvalidPunchOrder
	}
	if a.LunchIn != nil && a.LunchOut == nil {
		return attendanceerrors.ErrInvalidPunchOrder
	}
	if a.BreakIn != nil && a.BreakOut == nil {
		return attendanceerrors.ErrInvalidPunchOrder
	}
	if a.LunchOut != nil && a.LunchIn != nil && a.LunchIn.Before(*a.LunchOut) {
		return attendanceerrors.ErrInvalidPunchOrder
	}
	if a.BreakOut != nil && a.BreakIn != nil && a.BreakIn.Before(*a.BreakOut) {
		return attendanceerrors.ErrInvalidPunchOrder
	}
	if a.TimeIn != nil && a.TimeOut != nil && a.TimeOut.Before(*a.TimeIn) {
		return attendanceerrors.ErrInvalidPunchOrder
	}
	return nil
}

// defaultScheduleStart anchors status math on days with no resolvable
// window, such as an admin back-filling a weekend record.
func defaultScheduleStart(day time.Time) time.Time {
	d := clock.StartOfDay(day)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, clock.Org)
}

func isDuplicateAttendance(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_user_date"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") && strings.Contains(msg, "uq_attendance_user_date")
}
