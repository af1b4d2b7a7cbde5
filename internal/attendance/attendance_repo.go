package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, id uuid.UUID) (*Attendance, error)
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*Attendance, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Attendance, error)
	FindAll(ctx context.Context) ([]Attendance, error)
	FindAllByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	FindPunchedDatesInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]time.Time, error)
	Update(ctx context.Context, a *Attendance) error
	SetLunchOut(ctx context.Context, id uuid.UUID, t time.Time) (bool, error)
	SetLunchIn(ctx context.Context, id uuid.UUID, t time.Time, lunchTardiness int, status string) (bool, error)
	SetTimeOut(ctx context.Context, id uuid.UUID, t time.Time, straight, total float64) (bool, error)
	UpdateHours(ctx context.Context, id uuid.UUID, straight, total float64) error
	SumTotalWorkHours(ctx context.Context, userID uuid.UUID) (float64, error)
	UpsertOnLeave(ctx context.Context, userID uuid.UUID, date time.Time, leaveID uuid.UUID) error
	DeleteByLeave(ctx context.Context, leaveID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Order("date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Find(&rows).Error
	return rows, err
}

// FindPunchedDatesInRange lists the dates in [start, end] where the user has
// real punch data. Leave materialization skips these.
func (r *repository) FindPunchedDatesInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("time_in IS NOT NULL").
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// The punch setters are conditional updates. The WHERE clause re-asserts the
// transition guard inside the database, so a punch that raced another writer
// affects zero rows instead of clobbering it.

func (r *repository) SetLunchOut(ctx context.Context, id uuid.UUID, t time.Time) (bool, error) {
	query := `
UPDATE attendances
SET lunch_out = $2, updated_at = NOW()
WHERE id = $1
	AND time_in IS NOT NULL
	AND lunch_out IS NULL
	AND time_out IS NULL
`
	return r.execOne(ctx, query, id, t)
}

func (r *repository) SetLunchIn(ctx context.Context, id uuid.UUID, t time.Time, lunchTardiness int, status string) (bool, error) {
	query := `
UPDATE attendances
SET lunch_in = $2, lunch_tardiness_minutes = $3, status = $4, updated_at = NOW()
WHERE id = $1
	AND lunch_out IS NOT NULL
	AND lunch_in IS NULL
	AND time_out IS NULL
`
	return r.execOne(ctx, query, id, t, lunchTardiness, status)
}

func (r *repository) SetTimeOut(ctx context.Context, id uuid.UUID, t time.Time, straight, total float64) (bool, error) {
	query := `
UPDATE attendances
SET time_out = $2, straight_work_hours = $3, total_work_hours = $4, updated_at = NOW()
WHERE id = $1
	AND time_in IS NOT NULL
	AND time_out IS NULL
	AND (lunch_out IS NULL OR lunch_in IS NOT NULL)
`
	return r.execOne(ctx, query, id, t, straight, total)
}

func (r *repository) UpdateHours(ctx context.Context, id uuid.UUID, straight, total float64) error {
	return r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"straight_work_hours": straight,
			"total_work_hours":    total,
		}).Error
}

func (r *repository) SumTotalWorkHours(ctx context.Context, userID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_work_hours), 0)").
		Scan(&sum).Error
	return sum, err
}

// UpsertOnLeave writes an ON_LEAVE marker row for (user, date). On conflict
// the update only lands when the existing row carries no punch data, so an
// approved leave can never overwrite a day the user actually worked.
func (r *repository) UpsertOnLeave(ctx context.Context, userID uuid.UUID, date time.Time, leaveID uuid.UUID) error {
	row := &Attendance{
		ID:      uuid.New(),
		UserID:  userID,
		Date:    date,
		Status:  StatusOnLeave,
		LeaveID: &leaveID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":   StatusOnLeave,
				"leave_id": leaveID,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("attendances.time_in IS NULL"),
			}},
		}).
		Create(row).Error
}

// DeleteByLeave removes the marker rows a leave materialized. Rows that
// gained punch data since stay untouched.
func (r *repository) DeleteByLeave(ctx context.Context, leaveID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("leave_id = ?", leaveID).
		Where("time_in IS NULL").
		Delete(&Attendance{})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Attendance{}, "id = ?", id).Error
}

func (r *repository) execOne(ctx context.Context, query string, args ...any) (bool, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return n == 1, nil
	}

	res := r.db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
