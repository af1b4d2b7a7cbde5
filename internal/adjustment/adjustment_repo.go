package adjustment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, a *TimeAdjustment) error
	FindByID(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]TimeAdjustment, error)
	FindAll(ctx context.Context) ([]TimeAdjustment, error)
	Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *TimeAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*TimeAdjustment, error) {
	var a TimeAdjustment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]TimeAdjustment, error) {
	var rows []TimeAdjustment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]TimeAdjustment, error) {
	var rows []TimeAdjustment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Decide settles a pending adjustment; the status guard makes double
// decisions a no-op the caller can detect.
func (r *repository) Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&TimeAdjustment{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
