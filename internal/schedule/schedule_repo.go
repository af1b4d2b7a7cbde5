package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	Upsert(ctx context.Context, s *UserSchedule) error
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*UserSchedule, error)
	DeleteExpired(ctx context.Context, userID uuid.UUID, before time.Time) error
	DeleteAllExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, s *UserSchedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "weekday"},
				{Name: "schedule_date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "updated_at"}),
		}).
		Create(s).Error
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*UserSchedule, error) {
	var s UserSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("schedule_date = ?", date.Format("2006-01-02")).
		Order("id DESC").
		First(&s).Error
	return &s, err
}

func (r *repository) DeleteExpired(ctx context.Context, userID uuid.UUID, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("schedule_date < ?", before.Format("2006-01-02")).
		Delete(&UserSchedule{}).Error
}

func (r *repository) DeleteAllExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("schedule_date < ?", before.Format("2006-01-02")).
		Delete(&UserSchedule{})
	return res.RowsAffected, res.Error
}
