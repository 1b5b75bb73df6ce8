package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resource_hub/internal/common"
	"resource_hub/internal/common/security"
	"resource_hub/internal/domain/model"
	"resource_hub/internal/domain/repository"
)

// LoginThrottle limits repeated failed logins for a username.
type LoginThrottle interface {
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenManager
	throttle LoginThrottle
	log      logrus.FieldLogger
}

// NewAuthService builds the credential verifier. throttle may be nil.
func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenManager, throttle LoginThrottle, log logrus.FieldLogger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, throttle: throttle, log: log.WithField("service", "auth")}
}

const maxPasswordBytes = 72

type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=64"`
	Password string `json:"password" validate:"required,min=3,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token           string `json:"token"`
	Role            string `json:"role"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
	ExpiresIn       int    `json:"expiresIn"`
}

// Register creates an account. Only an authenticated admin caller may create
// another admin; caller is nil for anonymous requests.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, caller *security.Identity) (*RegisterResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	// bcrypt only accepts up to 72 bytes; the max tag counts runes.
	if len(req.Password) > maxPasswordBytes {
		return nil, &common.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes long", maxPasswordBytes),
		}
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if req.Role == model.RoleAdmin && (caller == nil || !caller.IsAdmin) {
		return nil, fmt.Errorf("only admins can create admin accounts: %w", common.ErrForbidden)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		Role:           req.Role,
		Status:         model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return &RegisterResponse{Message: "User registered successfully", ID: user.ID}, nil
}

// Login verifies credentials and issues an access token. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, req.Username)
		if err != nil {
			s.log.WithError(err).Warn("Login throttle unavailable, allowing attempt")
		} else if !allowed {
			return nil, fmt.Errorf("%w: too many failed login attempts, try again later", common.ErrTooManyRequests)
		}
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.recordFailure(ctx, req.Username)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		s.recordFailure(ctx, req.Username)
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("account is %s: %w", user.Status, common.ErrForbidden)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, req.Username); err != nil {
			s.log.WithError(err).Warn("Failed to reset login throttle")
		}
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{
		Token:           token,
		Role:            user.Role,
		IsAuthenticated: true,
		IsAdmin:         user.IsAdmin(),
		ExpiresIn:       int(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.WithError(err).Warn("Failed to record login failure")
	}
}

// EnsureAdmin creates an admin account if username is free. It reports
// whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
	caller := security.NewIdentity("bootstrap", model.RoleAdmin)
	_, err = s.Register(ctx, RegisterRequest{Username: username, Password: password, Role: model.RoleAdmin}, &caller)
	if errors.Is(err, common.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
