package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	autherrors "go-ojt/internal/auth/errors"
	"go-ojt/internal/shared/clock"
	"go-ojt/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fakeUserRepo keeps users in memory keyed by id and email.
type fakeUserRepo struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]*user.User{},
		byEmail: map[string]*user.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindAll(ctx context.Context) ([]user.User, error) { return nil, nil }
func (f *fakeUserRepo) FindAllByRole(ctx context.Context, role string) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return ids, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) UpdateRemainingHours(ctx context.Context, id uuid.UUID, remaining *float64) error {
	return nil
}
func (f *fakeUserRepo) SetOnLeave(ctx context.Context, id uuid.UUID, onLeave bool) error { return nil }
func (f *fakeUserRepo) SetUseCustomSchedule(ctx context.Context, ids []uuid.UUID, v bool) error {
	return nil
}

const testSecret = "test-secret"

func newAuthService(repo user.Repository) Service {
	return NewService(repo, clock.Fixed(time.Now()))
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	ctx := context.Background()

	t.Run("normalizes username and email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := newAuthService(repo)

		resp, err := svc.Register(ctx, RegisterRequest{
			Username: "  juan dela cruz ",
			Email:    "Juan@Example.COM",
			Password: "hunter2hunter2",
		})
		assert.NoError(t, err)
		assert.Equal(t, "Juan Dela Cruz", resp.Username)
		assert.Equal(t, "juan@example.com", resp.Email)
		assert.Equal(t, user.RoleUser, resp.Role)

		stored := repo.byEmail["juan@example.com"]
		assert.NotNil(t, stored)
		assert.NotEqual(t, "hunter2hunter2", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2hunter2")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := newAuthService(repo)

		_, err := svc.Register(ctx, RegisterRequest{
			Username: "first", Email: "dup@example.com", Password: "hunter2hunter2",
		})
		assert.NoError(t, err)

		_, err = svc.Register(ctx, RegisterRequest{
			Username: "second", Email: "DUP@example.com", Password: "hunter2hunter2",
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	ctx := context.Background()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(ctx, RegisterRequest{
		Username: "jane intern", Email: "jane@example.com", Password: "hunter2hunter2",
	})
	assert.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		access, refresh, resp, err := svc.Login(ctx, "Jane@Example.com", "hunter2hunter2")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, "jane@example.com", resp.Email)

		token, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, resp.ID, claims["sub"])
		assert.Equal(t, user.RoleUser, claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "jane@example.com", "not-the-password")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	ctx := context.Background()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(ctx, RegisterRequest{
		Username: "jane intern", Email: "jane@example.com", Password: "hunter2hunter2",
	})
	assert.NoError(t, err)

	_, refresh, _, err := svc.Login(ctx, "jane@example.com", "hunter2hunter2")
	assert.NoError(t, err)

	t.Run("valid refresh token reissues the pair", func(t *testing.T) {
		access, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, "jane@example.com", resp.Email)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, _, err := svc.RefreshToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  uuid.NewString(),
			"role": user.RoleUser,
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := forged.SignedString([]byte(strings.Repeat("x", 32)))
		assert.NoError(t, err)

		_, _, _, err = svc.RefreshToken(ctx, signed)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_GetMe(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	ctx := context.Background()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	created, err := svc.Register(ctx, RegisterRequest{
		Username: "jane intern", Email: "jane@example.com", Password: "hunter2hunter2",
	})
	assert.NoError(t, err)

	me, err := svc.GetMe(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Email, me.Email)

	_, err = svc.GetMe(ctx, uuid.NewString())
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}
