package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"watchmate/internal/data/entity"
	"watchmate/internal/data/repository"
	"watchmate/internal/dto/request"
	"watchmate/internal/dto/response"
	"watchmate/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a bearer token to its active user.
	Authenticate(ctx context.Context, token string) (*entity.User, error)

	// EnsureAdmin creates the configured admin account if it does not exist.
	EnsureAdmin(ctx context.Context, admin utils.AdminConfig) error
}

const (
	msgUsernameTaken = "A user with that username already exists"
	msgEmailTaken    = "Email already exists"
)

type authService struct {
	repo *repository.Repository // grouping userRepo & tokenRepo
	log  *zap.Logger
}

func NewAuthService(repo *repository.Repository, log *zap.Logger) AuthService {
	return &authService{
		repo: repo,
		log:  log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input, password confirmation included
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Username must be free
	existingUser, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existingUser != nil {
		return nil, fieldError("username", msgUsernameTaken)
	}

	// 3. Email must be free
	existingUser, err = s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, fieldError("email", msgEmailTaken)
	}

	// a concurrent registration can still win the race to the unique index
	user, err := s.createUser(ctx, req.Username, req.Email, req.Password, entity.RoleUser)
	if err != nil {
		return nil, registrationConflict(err)
	}

	// 4. Issue the token right away so the client is logged in
	token, err := s.tokenFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := response.AuthToResponse(user, token)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		s.log.Warn("User not found for login", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := response.AuthToResponse(user, token)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Token.DeleteByKey(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("delete token: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) Authenticate(ctx context.Context, key string) (*entity.User, error) {
	token, err := s.repo.Token.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if token == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.User.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("find token owner: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, admin utils.AdminConfig) error {
	if admin.Username == "" {
		return nil
	}

	existing, err := s.repo.User.FindByUsername(ctx, admin.Username)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if existing != nil {
		if !existing.IsAdmin() {
			s.log.Warn("Configured admin username belongs to a regular user",
				zap.String("username", admin.Username))
		}
		return nil
	}

	if len(admin.Password) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}

	user, err := s.createUser(ctx, admin.Username, admin.Email, admin.Password, entity.RoleAdmin)
	if err != nil {
		return err
	}

	s.log.Info("Admin account created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	return nil
}

// ==================== HELPER METHODS ====================

// registrationConflict turns a unique violation from the insert into the
// same field error the up-front checks give.
func registrationConflict(err error) error {
	var conflict *repository.ConflictError
	if !errors.As(err, &conflict) {
		return err
	}
	if conflict.Constraint == repository.ConstraintUserEmail {
		return fieldError("email", msgEmailTaken)
	}
	return fieldError("username", msgUsernameTaken)
}

func (s *authService) createUser(ctx context.Context, username, email, password string, role entity.UserRole) (*entity.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// tokenFor returns the user's token, creating it on first use.
func (s *authService) tokenFor(ctx context.Context, userID uuid.UUID) (*entity.Token, error) {
	token, err := s.repo.Token.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if token != nil {
		return token, nil
	}

	token = &entity.Token{
		Key:       utils.GenerateTokenKey(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Token.Create(ctx, token); err != nil {
		// a concurrent login for the same user may have won the insert
		existing, findErr := s.repo.Token.FindByUserID(ctx, userID)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create token: %w", err)
	}

	return token, nil
}
