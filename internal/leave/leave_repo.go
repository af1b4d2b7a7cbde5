package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id uuid.UUID) (*Leave, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Leave, error)
	FindAll(ctx context.Context) ([]Leave, error)
	HasOpenOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (bool, error)
	HasApprovedLeaveOn(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
	Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Leave, error) {
	var rows []Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var rows []Leave
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// HasOpenOverlap reports whether a pending or approved leave of the same
// user intersects [start, end].
func (r *repository) HasOpenOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end.Format("2006-01-02"), start.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

// HasApprovedLeaveOn satisfies the attendance package's leave check.
func (r *repository) HasApprovedLeaveOn(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("user_id = ?", userID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", date.Format("2006-01-02"), date.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

// Decide flips a pending request to its final status. The WHERE guard makes
// a second decision affect zero rows instead of overwriting the first.
func (r *repository) Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
	query := `
UPDATE leaves
SET status = $2, decided_by = $3, decided_at = $4, updated_at = NOW()
WHERE id = $1 AND status = $5
`
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, id, status, decidedBy, decidedAt, StatusPending)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return n == 1, nil
	}

	res := r.db.WithContext(ctx).Exec(query, id, status, decidedBy, decidedAt, StatusPending)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Leave{}, "id = ?", id).Error
}
