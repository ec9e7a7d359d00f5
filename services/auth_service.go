package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stackline/user-gateway/models"
	"github.com/stackline/user-gateway/repositories"
	"github.com/stackline/user-gateway/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the accounts were originally hashed with
const bcryptCost = 12

// AuthService implements login and signup. Password hashing is CPU-bound;
// both operations are expected to run on the request goroutine, which the Go
// scheduler multiplexes without blocking unrelated requests.
type AuthService struct {
	users  repositories.UserRepository
	codec  *token.Codec
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, codec *token.Codec, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		codec:  codec,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the clock source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login verifies the credentials and issues an access token. Unknown
// username, wrong password and disabled account are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, NewDomainError(ErrorTypeInternal, "failed to look up user", err)
	}

	if !user.Enabled {
		s.logger.Debug("login attempt on disabled account", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	signed, err := s.codec.Issue(user.ID.String(), user.Roles, s.now())
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to issue token", err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		// login still succeeds; the timestamp is best-effort
		s.logger.Warn("failed to record last login", zap.Error(err))
	}

	s.logger.Info("user logged in", zap.String("username", user.Username))
	return &models.TokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		Username:  user.Username,
	}, nil
}

// Signup registers a new user with the default role
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to check username", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to check email", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to hash password", err)
	}

	user := models.NewUser(req.Username, req.Email, string(hash))
	if err := s.users.Create(ctx, user); err != nil {
		return nil, NewDomainError(ErrorTypeInternal, fmt.Sprintf("failed to create user %s", req.Username), err)
	}

	s.logger.Info("user registered", zap.String("username", user.Username))
	return user, nil
}
