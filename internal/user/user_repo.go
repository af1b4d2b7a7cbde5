package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindAllByRole(ctx context.Context, role string) ([]User, error)
	FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, u *User) error
	UpdateRemainingHours(ctx context.Context, id uuid.UUID, remaining *float64) error
	SetOnLeave(ctx context.Context, id uuid.UUID, onLeave bool) error
	SetUseCustomSchedule(ctx context.Context, ids []uuid.UUID, v bool) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *repository) FindAllByRole(ctx context.Context, role string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var existing []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	return existing, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) UpdateRemainingHours(ctx context.Context, id uuid.UUID, remaining *float64) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("remaining_work_hours", remaining).Error
}

func (r *repository) SetOnLeave(ctx context.Context, id uuid.UUID, onLeave bool) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("on_leave", onLeave).Error
}

func (r *repository) SetUseCustomSchedule(ctx context.Context, ids []uuid.UUID, v bool) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id IN ?", ids).
		Update("use_custom_schedule", v).Error
}
