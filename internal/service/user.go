package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
	"library-backend/internal/security"
)

type userService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	policy   config.LibraryConfig
}

func NewUserService(userRepo repository.UserRepository, tokens security.TokenManager, policy config.LibraryConfig) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		policy:   policy,
	}
}

func (s *userService) Register(ctx context.Context, username, password, email, phone, realName string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.InvalidArgument("username is required")
	}
	if len(password) < 6 {
		return nil, domain.InvalidArgument("password must be at least 6 characters")
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.Conflict("username already taken: %s", username)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		PasswordHash:   string(hash),
		Email:          email,
		Phone:          phone,
		RealName:       realName,
		Role:           domain.UserRoleUser,
		Status:         domain.UserStatusActive,
		MaxBorrowLimit: s.policy.DefaultMaxBorrowLimit,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", domain.InvalidArgument("invalid username or password")
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", domain.InvalidArgument("invalid username or password")
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", "", domain.Conflict("account is not active")
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, "", "", err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn("Failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	return user, access, refresh, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user not found: %d", id)
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser touches profile fields only. Borrow counters and fines belong
// to the borrowing workflow and are never updated here.
func (s *userService) UpdateUser(ctx context.Context, user *domain.User) error {
	existing, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	existing.Email = user.Email
	existing.Phone = user.Phone
	existing.RealName = user.RealName
	if user.Role != "" {
		existing.Role = user.Role
	}
	if user.Status != "" {
		existing.Status = user.Status
	}
	if user.MaxBorrowLimit > 0 {
		existing.MaxBorrowLimit = user.MaxBorrowLimit
	}

	if err := s.userRepo.Update(ctx, existing); err != nil {
		return err
	}
	*user = *existing
	return nil
}

func (s *userService) DeactivateUser(ctx context.Context, id int64) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.CurrentBorrowed > 0 {
		return domain.Conflict("user still has borrowed books")
	}
	return s.userRepo.SoftDelete(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	return s.userRepo.List(ctx, page, pageSize)
}
