package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domain"
	"library-backend/internal/security"
	"library-backend/internal/service"
)

func newUserFixture() (service.UserService, *MockUserRepo, security.TokenManager) {
	userRepo := new(MockUserRepo)
	tokens := security.NewTokenManager("test-secret", 60, 120)
	return service.NewUserService(userRepo, tokens, testPolicy()), userRepo, tokens
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, _ := newUserFixture()

		userRepo.On("GetByUsername", ctx, "alice").Return(nil, sql.ErrNoRows)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, "alice", "secret123", "alice@test.com", "", "Alice")
		assert.NoError(t, err)
		assert.Equal(t, domain.UserRoleUser, user.Role)
		assert.Equal(t, domain.UserStatusActive, user.Status)
		assert.Equal(t, int32(5), user.MaxBorrowLimit)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	})

	t.Run("Username Taken", func(t *testing.T) {
		svc, userRepo, _ := newUserFixture()

		userRepo.On("GetByUsername", ctx, "alice").Return(&domain.User{ID: 1, Username: "alice"}, nil)

		user, err := svc.Register(ctx, "alice", "secret123", "", "", "")
		assert.Nil(t, user)
		assert.True(t, domain.IsKind(err, domain.ErrorKindConflict))
	})

	t.Run("Short Password", func(t *testing.T) {
		svc, _, _ := newUserFixture()

		user, err := svc.Register(ctx, "bob", "abc", "", "", "")
		assert.Nil(t, user)
		assert.True(t, domain.IsKind(err, domain.ErrorKindInvalidArgument))
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	stored := func() *domain.User {
		return &domain.User{
			ID:           1,
			Username:     "alice",
			PasswordHash: string(hash),
			Role:         domain.UserRoleUser,
			Status:       domain.UserStatusActive,
		}
	}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, tokens := newUserFixture()

		userRepo.On("GetByUsername", ctx, "alice").Return(stored(), nil)
		userRepo.On("UpdateLastLogin", ctx, int64(1), mock.AnythingOfType("time.Time")).Return(nil)

		user, access, refresh, err := svc.Login(ctx, "alice", "secret123")
		assert.NoError(t, err)
		assert.NotNil(t, user.LastLoginAt)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		svc, userRepo, _ := newUserFixture()

		userRepo.On("GetByUsername", ctx, "alice").Return(stored(), nil)

		_, _, _, err := svc.Login(ctx, "alice", "wrong")
		assert.True(t, domain.IsKind(err, domain.ErrorKindInvalidArgument))
	})

	t.Run("Suspended Account", func(t *testing.T) {
		svc, userRepo, _ := newUserFixture()

		user := stored()
		user.Status = domain.UserStatusSuspended
		userRepo.On("GetByUsername", ctx, "alice").Return(user, nil)

		_, _, _, err := svc.Login(ctx, "alice", "secret123")
		assert.True(t, domain.IsKind(err, domain.ErrorKindConflict))
	})
}

func TestUserService_DeactivateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Blocked While Holding Books", func(t *testing.T) {
		svc, userRepo, _ := newUserFixture()

		user := activeUser(1)
		user.CurrentBorrowed = 2
		userRepo.On("GetByID", ctx, int64(1)).Return(user, nil)

		err := svc.DeactivateUser(ctx, 1)
		assert.True(t, domain.IsKind(err, domain.ErrorKindConflict))
	})

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, _ := newUserFixture()

		userRepo.On("GetByID", ctx, int64(1)).Return(activeUser(1), nil)
		userRepo.On("SoftDelete", ctx, int64(1)).Return(nil)

		assert.NoError(t, svc.DeactivateUser(ctx, 1))
	})
}
